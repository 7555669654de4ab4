// Package health exposes the daemon's liveness over the standard gRPC health
// service and probes it from the doctor command.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service key reported alongside the overall "".
const ServiceName = "xbmcvc"

// Server is a running gRPC health endpoint.
type Server struct {
	grpc     *grpc.Server
	health   *grpchealth.Server
	listener net.Listener
	logger   *slog.Logger
}

// Serve listens on addr and starts answering health checks as NOT_SERVING.
// Call SetServing once the media center connection is up.
func Serve(addr string, logger *slog.Logger) (*Server, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("health address is empty")
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen health %q: %w", addr, err)
	}

	s := &Server{
		grpc:     grpc.NewServer(),
		health:   grpchealth.NewServer(),
		listener: listener,
		logger:   logger,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.SetServing(false)

	go func() {
		if err := s.grpc.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) && s.logger != nil {
			s.logger.Error("health server stopped", "error", err.Error())
		}
	}()
	return s, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Close marks every service NOT_SERVING and stops the server.
func (s *Server) Close() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

// Probe dials addr and returns the reported status of ServiceName.
func Probe(ctx context.Context, addr string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return "", fmt.Errorf("dial health %q: %w", addr, err)
	}
	defer conn.Close()

	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn.Connect()
	if err := waitForReady(probeCtx, conn); err != nil {
		return "", fmt.Errorf("wait for health endpoint: %w", err)
	}

	resp, err := healthpb.NewHealthClient(conn).Check(probeCtx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return "", fmt.Errorf("health check: %w", err)
	}
	return resp.GetStatus().String(), nil
}

// waitForReady blocks until the connection is Ready or ctx ends.
func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return errors.New("grpc connection entered shutdown state")
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("grpc readiness wait timed out in state %s", state.String())
		}
	}
}

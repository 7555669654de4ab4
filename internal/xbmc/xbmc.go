// Package xbmc resolves, connects to, and identifies the controlled media
// center before the session starts.
package xbmc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/config"
	"github.com/rbright/xbmcvc/internal/discovery"
	"github.com/rbright/xbmcvc/internal/jsonrpc"
)

var (
	ErrUnreachable    = errors.New("unable to connect to XBMC")
	ErrUnknownVersion = errors.New("unable to determine XBMC version")
)

// browse is swapped in tests.
var browse = discovery.Browse

// Conn is a ready JSON-RPC client plus the command registry for the
// application version it talks to.
type Conn struct {
	Client   jsonrpc.Client
	Registry *command.Registry
	Address  string
}

func (c *Conn) Version() command.Version {
	return c.Registry.Version()
}

func (c *Conn) Close() error {
	return c.Client.Close()
}

// Resolve replaces rpc.host "auto" with a zeroconf-discovered endpoint.
func Resolve(ctx context.Context, cfg config.Config, logger *slog.Logger) (config.RPCConfig, error) {
	rpc := cfg.RPC
	if !strings.EqualFold(strings.TrimSpace(rpc.Host), config.AutoHost) {
		return rpc, nil
	}

	ep, err := browse(ctx, discovery.Options{
		Service: cfg.Discovery.Service,
		Domain:  cfg.Discovery.Domain,
		Timeout: time.Duration(cfg.Discovery.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return rpc, fmt.Errorf("discover media center: %w", err)
	}
	if logger != nil {
		logger.Info("media center discovered", "instance", ep.Instance, "address", ep.Address())
	}
	rpc.Host = ep.Host
	rpc.Port = ep.Port
	return rpc, nil
}

// Connect resolves the endpoint, opens the configured transport, and settles
// the application version. A pinned xbmc.version skips the probe.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Conn, error) {
	rpc, err := Resolve(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	client, err := jsonrpc.New(jsonrpc.Options{
		Transport: rpc.Transport,
		Host:      rpc.Host,
		Port:      rpc.Port,
		WSPort:    rpc.WSPort,
		Path:      rpc.Path,
		Timeout:   time.Duration(rpc.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort(rpc.Host, strconv.Itoa(rpc.Port))
	version := command.Version(cfg.XBMC.Version)
	if version == 0 {
		version, err = ProbeVersion(ctx, client, address)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	registry, err := command.NewRegistry(version)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("XBMC version %d is unsupported: %w", int(version), err)
	}
	if logger != nil {
		logger.Info("media center connected", "address", address, "version", version.String(), "transport", rpc.Transport)
	}
	return &Conn{Client: client, Registry: registry, Address: address}, nil
}

// ProbeVersion asks the application for its major version.
func ProbeVersion(ctx context.Context, caller jsonrpc.Caller, address string) (command.Version, error) {
	major, err := jsonrpc.ApplicationVersion(ctx, caller)
	switch {
	case err == nil:
		return command.Version(major), nil
	case errors.Is(err, jsonrpc.ErrTransport):
		return 0, fmt.Errorf("%w running at %s: %w", ErrUnreachable, address, err)
	default:
		return 0, fmt.Errorf("%w: %w", ErrUnknownVersion, err)
	}
}

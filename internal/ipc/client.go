package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// ErrNoDaemon means nothing is listening on the control socket.
var ErrNoDaemon = errors.New("no daemon listening")

// Send performs one request/response exchange. timeout bounds the dial and
// the write. The reply is awaited until ctx ends, since a daemon answers a
// `say` only after the whole action queue has been dispatched.
func Send(ctx context.Context, path string, req Request, timeout time.Duration) (Response, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, syscall.ECONNREFUSED) {
			return Response{}, fmt.Errorf("%w: %w", ErrNoDaemon, err)
		}
		return Response{}, err
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	defer stop()

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		var syntaxErr *json.SyntaxError
		switch {
		case errors.As(err, &syntaxErr):
			return Response{}, fmt.Errorf("decode response: %w", err)
		case ctx.Err() != nil:
			return Response{}, fmt.Errorf("read response: %w", ctx.Err())
		}
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// Probe reports whether a daemon answers a status request on path.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := Send(ctx, path, Request{Command: CommandStatus}, timeout)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNoDaemon):
		return false, nil
	default:
		return false, fmt.Errorf("probe socket: %w", err)
	}
}

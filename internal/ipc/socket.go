package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning means another daemon answered on the socket.
var ErrAlreadyRunning = errors.New("xbmcvc daemon already running")

const socketName = "xbmcvc.sock"

// RuntimeSocketPath returns $XDG_RUNTIME_DIR/xbmcvc.sock.
func RuntimeSocketPath() (string, error) {
	runtimeDir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR"))
	if runtimeDir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runtimeDir, socketName), nil
}

// Acquire makes this process the single daemon listening on path. A socket
// file left behind by a dead daemon is unlinked and the listen retried; a
// live daemon yields ErrAlreadyRunning. A socket whose owner cannot be
// determined is left in place.
func Acquire(ctx context.Context, path string, probeTimeout time.Duration, retries int) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("ensure runtime socket dir: %w", err)
	}

	for attempt := 0; ; attempt++ {
		listener, err := net.Listen("unix", path)
		if err == nil {
			_ = os.Chmod(path, 0o600)
			return listener, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, fmt.Errorf("listen unix %s: %w", path, err)
		}
		if err := unlinkStale(ctx, path, probeTimeout); err != nil {
			return nil, err
		}
		if attempt >= retries {
			return nil, fmt.Errorf("socket %s still in use after %d retries", path, retries)
		}

		backoff := time.Duration(25*(attempt+1)) * time.Millisecond
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func unlinkStale(ctx context.Context, path string, probeTimeout time.Duration) error {
	alive, err := Probe(ctx, path, probeTimeout)
	switch {
	case alive:
		return ErrAlreadyRunning
	case err != nil:
		return fmt.Errorf("check existing socket %s: %w", path, err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket %s: %w", path, err)
	}
	return nil
}

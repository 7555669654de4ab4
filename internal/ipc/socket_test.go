package ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAcquireReplacesStaleSocketFile(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "xbmcvc.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	listener, err := Acquire(context.Background(), socketPath, 50*time.Millisecond, 2)
	require.NoError(t, err)
	defer listener.Close()

	info, err := os.Stat(socketPath)
	require.NoError(t, err)
	require.Equal(t, os.ModeSocket, info.Mode().Type())
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestAcquireCreatesRuntimeDir(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "nested", "xbmcvc.sock")
	listener, err := Acquire(context.Background(), socketPath, 50*time.Millisecond, 0)
	require.NoError(t, err)
	require.NoError(t, listener.Close())
}

func TestAcquireReturnsAlreadyRunningWhenSocketResponsive(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "xbmcvc.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(context.Context, Request) Response {
			return Response{OK: true, State: "unlocked/normal"}
		}))
	}()

	_, err = Acquire(context.Background(), socketPath, 80*time.Millisecond, 1)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestAcquireDoesNotUnlinkWhenLivenessInconclusive(t *testing.T) {
	t.Parallel()

	socketPath := filepath.Join(t.TempDir(), "xbmcvc.sock")
	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	acceptDone := make(chan struct{})
	go func() {
		defer close(acceptDone)
		for {
			conn, acceptErr := listener.Accept()
			if acceptErr != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				time.Sleep(250 * time.Millisecond)
			}(conn)
		}
	}()

	_, err = Acquire(context.Background(), socketPath, 30*time.Millisecond, 0)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrAlreadyRunning)
	require.Contains(t, err.Error(), "check existing socket")

	_, statErr := os.Stat(socketPath)
	require.NoError(t, statErr)
	require.NoError(t, listener.Close())
	<-acceptDone
}

func TestRuntimeSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path, err := RuntimeSocketPath()
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/xbmcvc.sock", path)

	t.Setenv("XDG_RUNTIME_DIR", " ")
	_, err = RuntimeSocketPath()
	require.ErrorContains(t, err, "XDG_RUNTIME_DIR")
}

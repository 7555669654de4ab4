package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// requestReadTimeout caps how long a client may take to send its request.
// Handling time is not bounded here.
const requestReadTimeout = 2 * time.Second

// Handler processes one control request.
type Handler interface {
	Handle(context.Context, Request) Response
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

// Serve answers one request per connection until ctx is cancelled or the
// listener is closed. It waits for in-flight requests before returning.
func Serve(ctx context.Context, listener net.Listener, handler Handler) error {
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()

	var inflight sync.WaitGroup
	defer inflight.Wait()

	for {
		conn, err := listener.Accept()
		switch {
		case err == nil:
		case errors.Is(err, net.ErrClosed) || ctx.Err() != nil:
			return nil
		default:
			return fmt.Errorf("accept control connection: %w", err)
		}

		inflight.Go(func() {
			defer conn.Close()
			_ = json.NewEncoder(conn).Encode(serveConn(ctx, conn, handler))
		})
	}
}

func serveConn(ctx context.Context, conn net.Conn, handler Handler) Response {
	_ = conn.SetReadDeadline(time.Now().Add(requestReadTimeout))

	var req Request
	if err := json.NewDecoder(io.LimitReader(conn, maxRequestBytes)).Decode(&req); err != nil {
		return failure(fmt.Errorf("decode request: %w", err))
	}
	if err := req.validate(); err != nil {
		return failure(err)
	}

	_ = conn.SetReadDeadline(time.Time{})
	return handler.Handle(ctx, req)
}

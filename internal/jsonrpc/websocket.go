package jsonrpc

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"
)

// WSClient keeps one WebSocket open and matches responses to requests by id.
// Server notifications received while waiting are skipped.
type WSClient struct {
	url     string
	timeout time.Duration

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int64
}

func NewWSClient(host string, port int, path string, timeout time.Duration) *WSClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if path == "" {
		path = "/jsonrpc"
	}
	u := url.URL{Scheme: "ws", Host: net.JoinHostPort(host, strconv.Itoa(port)), Path: path}
	return &WSClient{url: u.String(), timeout: timeout}
}

func (c *WSClient) Endpoint() string {
	return c.url
}

func (c *WSClient) connect(ctx context.Context) (*websocket.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.timeout}
	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w: %w", c.url, ErrTransport, err)
	}
	c.conn = conn
	return conn, nil
}

func (c *WSClient) Call(ctx context.Context, method, params string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	body, err := encodeRequest(id, method, params)
	if err != nil {
		return nil, err
	}

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		c.drop()
		return nil, fmt.Errorf("%s: send: %w: %w", method, ErrTransport, err)
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			c.drop()
			return nil, fmt.Errorf("%s: read response: %w: %w", method, ErrTransport, err)
		}
		respID := gjson.GetBytes(payload, "id")
		if !respID.Exists() || respID.Int() != id {
			continue
		}
		if err := checkResponse(payload); err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		return payload, nil
	}
}

// drop discards a broken connection so the next call redials.
func (c *WSClient) drop() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
}

func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

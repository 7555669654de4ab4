package jsonrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

const DefaultTimeout = 2 * time.Second

// HTTPClient posts one request per call to http://host:port/path.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClient(host string, port int, path string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if path == "" {
		path = "/jsonrpc"
	}
	return &HTTPClient{
		endpoint: "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + path,
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClient) Call(ctx context.Context, method, params string) ([]byte, error) {
	body, err := encodeRequest(1, method, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", method, ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d: %s", method, resp.StatusCode, truncate(string(payload), 120))
	}
	if err := checkResponse(payload); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return payload, nil
}

func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Package jsonrpc talks JSON-RPC 2.0 to the media center over HTTP or WebSocket.
package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const Version = "2.0"

var ErrFieldMissing = errors.New("response field missing")

// ErrTransport marks failures to reach the server at all, as opposed to
// error responses from it.
var ErrTransport = errors.New("transport failure")

// Caller performs one method call. params is a comma-joined list of JSON object
// members without the surrounding braces; empty means no params.
type Caller interface {
	Call(ctx context.Context, method, params string) ([]byte, error)
}

// Client is a Caller holding transport resources.
type Client interface {
	Caller
	Close() error
}

// Error is a JSON-RPC error object returned by the server.
type Error struct {
	Code    int64
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      int64           `json:"id"`
}

// encodeRequest renders the request envelope for method and a params fragment.
func encodeRequest(id int64, method, params string) ([]byte, error) {
	if strings.TrimSpace(method) == "" {
		return nil, errors.New("method must not be empty")
	}

	req := request{JSONRPC: Version, Method: method, ID: id}
	if strings.TrimSpace(params) != "" {
		raw := json.RawMessage("{" + params + "}")
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid params for %s: %s", method, params)
		}
		req.Params = raw
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return body, nil
}

// checkResponse returns the server's error object as a Go error, if any.
func checkResponse(body []byte) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("invalid JSON response: %q", truncate(string(body), 120))
	}
	rpcErr := gjson.GetBytes(body, "error")
	if !rpcErr.Exists() || rpcErr.Type == gjson.Null {
		return nil
	}
	return &Error{
		Code:    rpcErr.Get("code").Int(),
		Message: rpcErr.Get("message").String(),
	}
}

// IntField extracts an integer at a gjson path such as "result.version.major".
func IntField(body []byte, path string) (int, error) {
	value := gjson.GetBytes(body, path)
	if !value.Exists() || value.Type != gjson.Number {
		return 0, fmt.Errorf("%w: %s", ErrFieldMissing, path)
	}
	return int(value.Int()), nil
}

// ActivePlayer returns the first active player id.
func ActivePlayer(ctx context.Context, c Caller) (int, error) {
	body, err := c.Call(ctx, "Player.GetActivePlayers", "")
	if err != nil {
		return 0, err
	}
	return IntField(body, "result.0.playerid")
}

// ApplicationVersion returns the major version reported by the application.
func ApplicationVersion(ctx context.Context, c Caller) (int, error) {
	body, err := c.Call(ctx, "Application.GetProperties", `"properties":["version"]`)
	if err != nil {
		return 0, err
	}
	return IntField(body, "result.version.major")
}

// ShowNotification displays a GUI toast. image is "info", "warning", or "error".
func ShowNotification(ctx context.Context, c Caller, title, message, image string) error {
	params, err := members(map[string]string{"title": title, "message": message, "image": image}, "title", "message", "image")
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, "GUI.ShowNotification", params)
	return err
}

// SendText replaces the text of the focused input dialog.
func SendText(ctx context.Context, c Caller, text string) error {
	encoded, err := json.Marshal(text)
	if err != nil {
		return fmt.Errorf("encode text: %w", err)
	}
	_, err = c.Call(ctx, "Input.SendText", `"text":`+string(encoded)+`,"done":false`)
	return err
}

// ExecuteAction runs a named input action such as "enter".
func ExecuteAction(ctx context.Context, c Caller, action string) error {
	params, err := members(map[string]string{"action": action}, "action")
	if err != nil {
		return err
	}
	_, err = c.Call(ctx, "Input.ExecuteAction", params)
	return err
}

func members(values map[string]string, order ...string) (string, error) {
	parts := make([]string, 0, len(order))
	for _, key := range order {
		encoded, err := json.Marshal(values[key])
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", key, err)
		}
		parts = append(parts, `"`+key+`":`+string(encoded))
	}
	return strings.Join(parts, ","), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Options selects and addresses a transport.
type Options struct {
	Transport string
	Host      string
	Port      int
	WSPort    int
	Path      string
	Timeout   time.Duration
}

// New returns the Client for opts.Transport.
func New(opts Options) (Client, error) {
	switch opts.Transport {
	case "", TransportHTTP:
		return NewHTTPClient(opts.Host, opts.Port, opts.Path, opts.Timeout), nil
	case TransportWebSocket:
		return NewWSClient(opts.Host, opts.WSPort, opts.Path, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown rpc transport %q", opts.Transport)
	}
}

// Package logging writes the daemon's JSONL log under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Runtime bundles the logger, its file path, and a level that can be raised
// or lowered once config is loaded.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	level  *slog.LevelVar
	closer io.Closer
}

// Close closes the log file.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// SetLevel applies a log.level value (debug, info, warn, error).
func (r Runtime) SetLevel(name string) error {
	level, err := ParseLevel(name)
	if err != nil {
		return err
	}
	if r.level != nil {
		r.level.Set(level)
	}
	return nil
}

// New opens the log file at info level.
func New() (Runtime, error) {
	path, err := resolveLogPath()
	if err != nil {
		return Runtime{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	return Runtime{Logger: logger, Path: path, level: level, closer: f}, nil
}

func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// resolveLogPath prefers XDG_STATE_HOME, then ~/.local/state.
func resolveLogPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "xbmcvc", "log.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "xbmcvc", "log.jsonl"), nil
}

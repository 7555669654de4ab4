// Package grammar tells an external recognizer which vocabulary to load.
package grammar

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/xbmcvc/internal/fsm"
)

const switchTimeout = 2 * time.Second

// Switcher runs the configured grammar command with the new mode name
// appended, e.g. `xbmcvc-grammar spelling`.
type Switcher struct {
	argv   []string
	logger *slog.Logger
}

func NewSwitcher(argv []string, logger *slog.Logger) *Switcher {
	return &Switcher{argv: argv, logger: logger}
}

// Configured reports whether a grammar command is set.
func (s *Switcher) Configured() bool {
	return len(s.argv) > 0
}

// Switch runs the grammar command for mode. It is a no-op when unconfigured.
func (s *Switcher) Switch(ctx context.Context, mode fsm.Mode) error {
	if !s.Configured() {
		return nil
	}

	switchCtx, cancel := context.WithTimeout(ctx, switchTimeout)
	defer cancel()

	argv := append(append([]string(nil), s.argv...), string(mode))
	if err := runCommand(switchCtx, argv); err != nil {
		return fmt.Errorf("switch grammar to %s: %w", mode, err)
	}
	if s.logger != nil {
		s.logger.Info("grammar switched", "mode", string(mode))
	}
	return nil
}

// runCommand executes argv and folds stderr into the returned error.
func runCommand(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("run %s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("run %s: %w", argv[0], err)
	}
	return nil
}

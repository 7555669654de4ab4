package session

import (
	"context"

	"github.com/rbright/xbmcvc/internal/fsm"
)

// GrammarSwitcher is told about every mode change so the recognizer can load
// the matching vocabulary.
type GrammarSwitcher interface {
	Switch(context.Context, fsm.Mode) error
}

// GrammarFunc adapts a function to the GrammarSwitcher interface.
type GrammarFunc func(context.Context, fsm.Mode) error

func (f GrammarFunc) Switch(ctx context.Context, mode fsm.Mode) error {
	return f(ctx, mode)
}

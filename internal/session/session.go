// Package session routes utterances through the lock and mode state machine
// and owns the single goroutine that processes them.
package session

import (
	"fmt"
	"strings"

	"github.com/rbright/xbmcvc/internal/actions"
	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/spelling"
)

// Session is the mutable per-daemon state. Only the Loop goroutine touches it.
type Session struct {
	State   fsm.State
	Buffer  *spelling.Buffer
	Version command.Version
}

func NewSession(version command.Version, locking bool, maxLength int) *Session {
	return &Session{
		State:   fsm.Initial(locking),
		Buffer:  spelling.NewBuffer(maxLength),
		Version: version,
	}
}

// Outcome reports what one utterance did.
type Outcome struct {
	ID          string
	Utterance   string
	State       fsm.State
	ModeChanged bool
	Rejected    bool
	Actions     []actions.Action
	Truncated   bool
	Report      actions.Report
	Diagnostics []actions.Diagnostic
	Spelling    []spelling.Diagnostic
	Text        string
}

// Summary renders the outcome on one line for test mode and `say`.
func (o Outcome) Summary() string {
	parts := []string{"[" + o.State.String() + "]"}

	switch {
	case o.Rejected:
		parts = append(parts, "rejected")
	case o.ModeChanged:
		parts = append(parts, "mode changed")
	}

	if len(o.Actions) > 0 {
		methods := make([]string, 0, len(o.Actions))
		for _, a := range o.Actions {
			m := a.Method()
			if a.Repeat > 1 {
				m = fmt.Sprintf("%sx%d", m, a.Repeat)
			}
			methods = append(methods, m)
		}
		parts = append(parts, strings.Join(methods, " "))
	}
	if o.Truncated {
		parts = append(parts, "(truncated)")
	}
	if o.State.Mode == fsm.ModeSpelling && !o.Rejected {
		parts = append(parts, fmt.Sprintf("text=%q", o.Text))
	}
	for _, d := range o.Diagnostics {
		parts = append(parts, "!"+d.Word)
	}
	for _, d := range o.Spelling {
		parts = append(parts, "!"+d.Word)
	}
	return strings.Join(parts, " ")
}

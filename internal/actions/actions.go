// Package actions turns command words into a bounded queue of RPC calls.
package actions

import (
	"fmt"
	"strings"

	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/hypothesis"
)

const DefaultMaxActions = 5

// DiagnosticKind classifies a word the builder could not use as given.
type DiagnosticKind string

const (
	UnknownCommand  DiagnosticKind = "unknown_command"
	NoActivePlayer  DiagnosticKind = "no_active_player"
	InvalidArgument DiagnosticKind = "invalid_argument"
	MissingArgument DiagnosticKind = "missing_argument"
)

// Diagnostic is a non-fatal note produced while building a queue.
type Diagnostic struct {
	Kind    DiagnosticKind
	Word    string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Word, d.Message)
}

// Player is the active-player lookup result for one utterance.
type Player struct {
	ID     int
	Active bool
}

// Action is one queued RPC call, repeated Repeat times.
type Action struct {
	Command command.Command
	Params  string
	Repeat  int
}

func (a Action) Method() string {
	return a.Command.Method
}

// Plan is the outcome of scanning one utterance.
type Plan struct {
	Actions     []Action
	Diagnostics []Diagnostic
	Truncated   bool
}

// Builder scans words against a command registry.
type Builder struct {
	registry   *command.Registry
	maxActions int
}

func NewBuilder(registry *command.Registry, maxActions int) Builder {
	if maxActions <= 0 {
		maxActions = DefaultMaxActions
	}
	return Builder{registry: registry, maxActions: maxActions}
}

// Build scans words left to right. A command with an argument consumes the
// next word when it is a valid choice; otherwise that word is read again as a
// command. Once the queue is full only the pending argument and directly
// following modifiers are still considered.
func (b Builder) Build(words []string, player Player) Plan {
	var plan Plan
	cursor := hypothesis.NewCursor(words)
	expecting := false

	for {
		word, ok := cursor.Next()
		if !ok {
			break
		}

		if expecting {
			expecting = false
			last := &plan.Actions[len(plan.Actions)-1]
			arg := last.Command.Argument

			if value, ok := arg.Match(word); ok {
				last.Params = joinParams(last.Params, arg.Fill(value))
				continue
			}

			if arg.Required {
				plan.Diagnostics = append(plan.Diagnostics, Diagnostic{
					Kind:    InvalidArgument,
					Word:    word,
					Message: fmt.Sprintf("not a valid argument for %s; dropping %s", last.Command.Keyword, last.Command.Keyword),
				})
				plan.Actions = plan.Actions[:len(plan.Actions)-1]
			} else {
				plan.Diagnostics = append(plan.Diagnostics, Diagnostic{
					Kind:    InvalidArgument,
					Word:    word,
					Message: fmt.Sprintf("not a valid argument for %s; sending it without one", last.Command.Keyword),
				})
			}
			cursor.Rewind()
			continue
		}

		c, ok := b.registry.Lookup(word)

		if len(plan.Actions) >= b.maxActions {
			if ok && c.IsModifier() {
				applyModifier(&plan, c)
				continue
			}
			plan.Truncated = true
			break
		}

		if !ok {
			plan.Diagnostics = append(plan.Diagnostics, Diagnostic{Kind: UnknownCommand, Word: word, Message: "unknown command"})
			continue
		}
		if c.NeedsPlayer && !player.Active {
			plan.Diagnostics = append(plan.Diagnostics, Diagnostic{Kind: NoActivePlayer, Word: word, Message: "ignored as there is no active player"})
			continue
		}
		if c.IsModifier() {
			applyModifier(&plan, c)
			continue
		}

		action := Action{Command: c, Repeat: 1}
		if c.NeedsPlayer {
			action.Params = fmt.Sprintf(`"playerid":%d`, player.ID)
		}
		switch {
		case c.Argument != nil:
			expecting = true
		case c.Params != "":
			action.Params = joinParams(action.Params, c.Params)
		}
		plan.Actions = append(plan.Actions, action)
	}

	if expecting {
		last := &plan.Actions[len(plan.Actions)-1]
		arg := last.Command.Argument
		if arg.Required {
			plan.Diagnostics = append(plan.Diagnostics, Diagnostic{
				Kind:    MissingArgument,
				Word:    last.Command.Keyword,
				Message: "requires an argument, none given",
			})
			plan.Actions = plan.Actions[:len(plan.Actions)-1]
		} else {
			// The default only fills an optional argument at the end of the utterance.
			last.Params = joinParams(last.Params, arg.Fill(arg.Default))
		}
	}

	return plan
}

// applyModifier sets the repeat count of the last queued action when the
// modifier applies to it. Otherwise the modifier is dropped silently.
func applyModifier(plan *Plan, c command.Command) {
	if len(plan.Actions) == 0 {
		return
	}
	last := &plan.Actions[len(plan.Actions)-1]
	if c.Modifier.AppliesTo(last.Command.Keyword) {
		last.Repeat = c.Modifier.Repeat
	}
}

func joinParams(existing, fragment string) string {
	if existing == "" {
		return fragment
	}
	if fragment == "" {
		return existing
	}
	return strings.Join([]string{existing, fragment}, ",")
}

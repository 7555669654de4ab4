package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rbright/xbmcvc/internal/actions"
	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/hypothesis"
	"github.com/rbright/xbmcvc/internal/indicator"
	"github.com/rbright/xbmcvc/internal/jsonrpc"
	"github.com/rbright/xbmcvc/internal/spelling"
)

const (
	wordSpell  = "SPELL"
	wordAccept = "ACCEPT"
	wordCancel = "CANCEL"
	wordClear  = "CLEAR"
	wordNormal = "NORMAL"
)

// Options are the lock keywords and whether locking is on at all.
type Options struct {
	Locking    bool
	UnlockWord string
	LockWord   string
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	Caller     jsonrpc.Caller
	Builder    actions.Builder
	Dispatcher *actions.Dispatcher
	Speller    spelling.Engine
	Indicator  indicator.Controller
	Logger     *slog.Logger
}

type noopIndicator struct{}

func (noopIndicator) Unlocked(context.Context, fsm.Mode)    {}
func (noopIndicator) Locked(context.Context)                {}
func (noopIndicator) ModeChanged(context.Context, fsm.Mode) {}
func (noopIndicator) Heard(context.Context, string)         {}

// Controller applies one utterance to a Session. It holds no session state
// of its own.
type Controller struct {
	opts       Options
	caller     jsonrpc.Caller
	builder    actions.Builder
	dispatcher *actions.Dispatcher
	speller    spelling.Engine
	indicator  indicator.Controller
	logger     *slog.Logger
}

func NewController(opts Options, deps Deps) *Controller {
	if deps.Indicator == nil {
		deps.Indicator = noopIndicator{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = actions.NewDispatcher(deps.Caller, actions.DefaultRepeatDelay, deps.Logger)
	}
	return &Controller{
		opts:       opts,
		caller:     deps.Caller,
		builder:    deps.Builder,
		dispatcher: deps.Dispatcher,
		speller:    deps.Speller,
		indicator:  deps.Indicator,
		logger:     deps.Logger,
	}
}

// Process tokenizes utterance and applies it to s. Empty utterances leave
// the session untouched. Once started, an utterance is not interrupted by
// cancellation of ctx.
func (c *Controller) Process(ctx context.Context, s *Session, utterance string) Outcome {
	ctx = context.WithoutCancel(ctx)
	out := Outcome{
		ID:        uuid.NewString(),
		Utterance: hypothesis.Normalize(utterance),
	}
	logger := c.logger.With("utterance_id", out.ID)

	words := hypothesis.Tokenize(utterance)
	if len(words) > 0 {
		logger.Info("utterance", "text", out.Utterance, "state", s.State.String())
		c.route(ctx, logger, s, words, &out)
	}

	out.State = s.State
	if s.State.Mode == fsm.ModeSpelling {
		out.Text = s.Buffer.String()
	}
	return out
}

func (c *Controller) route(ctx context.Context, logger *slog.Logger, s *Session, words []string, out *Outcome) {
	if c.opts.Locking {
		if s.State.Lock == fsm.Locked {
			if words[0] != c.opts.UnlockWord {
				out.Rejected = true
				logger.Warn("locked and not processing commands", "unlock_word", c.opts.UnlockWord)
				return
			}
			if !c.transition(logger, s, fsm.EventUnlock) {
				return
			}
			logger.Info("unlocked")

			rest := words[1:]
			if len(rest) == 0 {
				c.indicator.Unlocked(ctx, s.State.Mode)
				return
			}
			c.route(ctx, logger, s, rest, out)
			return
		}

		if len(words) == 1 && words[0] == c.opts.LockWord {
			if c.transition(logger, s, fsm.EventLock) {
				c.indicator.Locked(ctx)
				logger.Info("locked")
			}
			return
		}
	}

	switch s.State.Mode {
	case fsm.ModeSpelling:
		c.spell(ctx, logger, s, words, out)
	default:
		c.normal(ctx, logger, s, words, out)
	}
}

func (c *Controller) normal(ctx context.Context, logger *slog.Logger, s *Session, words []string, out *Outcome) {
	if len(words) == 1 && words[0] == wordSpell {
		if !s.Version.SupportsTextInput() {
			logger.Error("spelling mode not available", "version", s.Version.String())
			return
		}
		s.Buffer.Reset()
		if err := jsonrpc.SendText(ctx, c.caller, ""); err != nil {
			logger.Error("clear input text failed", "error", err.Error())
		}
		c.changeMode(ctx, logger, s, fsm.EventSpell, out)
		return
	}

	c.indicator.Heard(ctx, strings.Join(words, " "))

	player := actions.Player{}
	if id, err := jsonrpc.ActivePlayer(ctx, c.caller); err == nil {
		player = actions.Player{ID: id, Active: true}
	} else if !errors.Is(err, jsonrpc.ErrFieldMissing) {
		logger.Warn("active player lookup failed", "error", err.Error())
	}

	plan := c.builder.Build(words, player)
	for _, d := range plan.Diagnostics {
		logger.Warn("command skipped", "kind", string(d.Kind), "word", d.Word, "reason", d.Message)
	}
	if plan.Truncated {
		logger.Debug("action queue full; remaining words ignored")
	}

	out.Actions = plan.Actions
	out.Diagnostics = plan.Diagnostics
	out.Truncated = plan.Truncated
	if len(plan.Actions) > 0 {
		out.Report = c.dispatcher.Dispatch(ctx, plan.Actions)
	}
}

func (c *Controller) spell(ctx context.Context, logger *slog.Logger, s *Session, words []string, out *Outcome) {
	single := ""
	if len(words) == 1 {
		single = words[0]
	}

	switch single {
	case wordAccept:
		c.executeAction(ctx, logger, "enter")
		c.changeMode(ctx, logger, s, fsm.EventAccept, out)
		return
	case wordCancel:
		c.executeAction(ctx, logger, "previousmenu")
		c.changeMode(ctx, logger, s, fsm.EventCancel, out)
		return
	case wordNormal:
		c.changeMode(ctx, logger, s, fsm.EventNormal, out)
		return
	case wordClear:
		s.Buffer.Clear()
	default:
		out.Spelling = c.speller.Apply(s.Buffer, words)
		for _, d := range out.Spelling {
			logger.Warn("spelling word skipped", "word", d.Word, "reason", d.Message)
		}
	}

	if err := jsonrpc.SendText(ctx, c.caller, s.Buffer.String()); err != nil {
		logger.Error("send text failed", "error", err.Error())
	}
}

func (c *Controller) executeAction(ctx context.Context, logger *slog.Logger, action string) {
	if err := jsonrpc.ExecuteAction(ctx, c.caller, action); err != nil {
		logger.Error("input action failed", "action", action, "error", err.Error())
	}
}

func (c *Controller) changeMode(ctx context.Context, logger *slog.Logger, s *Session, event fsm.Event, out *Outcome) {
	if !c.transition(logger, s, event) {
		return
	}
	out.ModeChanged = true
	c.indicator.ModeChanged(ctx, s.State.Mode)
	logger.Info("mode changed", "mode", string(s.State.Mode))
}

func (c *Controller) transition(logger *slog.Logger, s *Session, event fsm.Event) bool {
	next, err := fsm.Transition(s.State, event)
	if err != nil {
		logger.Error("state transition failed", "error", err.Error())
		return false
	}
	s.State = next
	return true
}

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/ipc"
)

// ErrLoopStopped is returned by Submit once Run has returned.
var ErrLoopStopped = errors.New("session loop stopped")

type submission struct {
	utterance string
	reply     chan Outcome
}

// Loop serializes utterances from every source onto one goroutine.
type Loop struct {
	ctrl    *Controller
	session *Session
	grammar GrammarSwitcher
	logger  *slog.Logger

	mu    sync.RWMutex
	state fsm.State

	queue chan submission
	done  chan struct{}
}

func NewLoop(ctrl *Controller, s *Session, grammar GrammarSwitcher, logger *slog.Logger) *Loop {
	if grammar == nil {
		grammar = GrammarFunc(func(context.Context, fsm.Mode) error { return nil })
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		ctrl:    ctrl,
		session: s,
		grammar: grammar,
		logger:  logger,
		state:   s.State,
		queue:   make(chan submission),
		done:    make(chan struct{}),
	}
}

// State returns the last published session state.
func (l *Loop) State() fsm.State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// Run processes submissions until ctx is cancelled. Cancellation is observed
// between utterances only.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sub := <-l.queue:
			// An accepted utterance runs to completion even if ctx ends meanwhile.
			work := context.WithoutCancel(ctx)
			out := l.ctrl.Process(work, l.session, sub.utterance)
			if out.ModeChanged {
				if err := l.grammar.Switch(work, out.State.Mode); err != nil {
					l.logger.Error("grammar switch failed", "utterance_id", out.ID, "error", err.Error())
				}
			}

			l.mu.Lock()
			l.state = out.State
			l.mu.Unlock()

			sub.reply <- out
		}
	}
}

// Submit hands one utterance to the loop and waits for its outcome.
func (l *Loop) Submit(ctx context.Context, utterance string) (Outcome, error) {
	sub := submission{utterance: utterance, reply: make(chan Outcome, 1)}

	select {
	case l.queue <- sub:
	case <-l.done:
		return Outcome{}, ErrLoopStopped
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}

	select {
	case out := <-sub.reply:
		return out, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Handle serves runtime IPC requests.
func (l *Loop) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: l.State().String(), Message: "status"}
	case ipc.CommandSay:
		if strings.TrimSpace(req.Text) == "" {
			return ipc.Response{OK: false, State: l.State().String(), Error: "say requires words"}
		}
		out, err := l.Submit(ctx, req.Text)
		if err != nil {
			return ipc.Response{OK: false, State: l.State().String(), Error: err.Error()}
		}
		return ipc.Response{OK: !out.Rejected, State: out.State.String(), Message: out.Summary()}
	default:
		return ipc.Response{OK: false, State: l.State().String(), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

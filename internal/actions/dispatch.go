package actions

import (
	"context"
	"log/slog"
	"time"
)

const DefaultRepeatDelay = 200 * time.Millisecond

// Caller performs one JSON-RPC method call with a pre-rendered params body.
type Caller interface {
	Call(ctx context.Context, method, params string) ([]byte, error)
}

// CallerFunc adapts a function to the Caller interface.
type CallerFunc func(context.Context, string, string) ([]byte, error)

func (f CallerFunc) Call(ctx context.Context, method, params string) ([]byte, error) {
	return f(ctx, method, params)
}

// Report summarizes one dispatched queue.
type Report struct {
	Calls    int
	Failures int
}

// Dispatcher sends queued actions in order, pausing after every call.
type Dispatcher struct {
	caller Caller
	delay  time.Duration
	logger *slog.Logger
	sleep  func(time.Duration)
}

func NewDispatcher(caller Caller, delay time.Duration, logger *slog.Logger) *Dispatcher {
	if delay < 0 {
		delay = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{caller: caller, delay: delay, logger: logger, sleep: time.Sleep}
}

// Dispatch runs every action Repeat times. Call failures are logged and the
// queue continues. Cancellation of ctx does not stop a queue once started.
func (d *Dispatcher) Dispatch(ctx context.Context, queue []Action) Report {
	ctx = context.WithoutCancel(ctx)

	var report Report
	for i, action := range queue {
		repeat := action.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for attempt := 1; attempt <= repeat; attempt++ {
			report.Calls++
			if _, err := d.caller.Call(ctx, action.Method(), action.Params); err != nil {
				report.Failures++
				d.logger.Error("rpc call failed",
					"method", action.Method(),
					"index", i,
					"attempt", attempt,
					"error", err.Error(),
				)
			} else {
				d.logger.Debug("rpc call sent", "method", action.Method(), "params", action.Params, "attempt", attempt)
			}
			d.sleep(d.delay)
		}
	}
	return report
}

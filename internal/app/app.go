// Package app wires parsed command-line input to the xbmcvc commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rbright/xbmcvc/internal/actions"
	"github.com/rbright/xbmcvc/internal/audio"
	"github.com/rbright/xbmcvc/internal/cli"
	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/config"
	"github.com/rbright/xbmcvc/internal/doctor"
	"github.com/rbright/xbmcvc/internal/grammar"
	"github.com/rbright/xbmcvc/internal/health"
	"github.com/rbright/xbmcvc/internal/indicator"
	"github.com/rbright/xbmcvc/internal/ipc"
	"github.com/rbright/xbmcvc/internal/logging"
	"github.com/rbright/xbmcvc/internal/recognizer"
	"github.com/rbright/xbmcvc/internal/session"
	"github.com/rbright/xbmcvc/internal/spelling"
	"github.com/rbright/xbmcvc/internal/version"
	"github.com/rbright/xbmcvc/internal/xbmc"
)

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("xbmcvc"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("xbmcvc"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.LoadWithOverrides(parsed.ConfigPath, config.Overrides{
		Host:          parsed.Host,
		Port:          parsed.Port,
		DisableLock:   parsed.NoLock,
		DisableNotify: parsed.NoNotify,
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}
	if err := logRuntime.SetLevel(cfgLoaded.Config.Log.Level); err != nil {
		logger.Warn("log level ignored", "error", err.Error())
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandRun:
		return r.commandRun(ctx, parsed, cfgLoaded.Config, logger)
	case cli.CommandSay:
		return r.commandSay(ctx, parsed.Words, sayReplyTimeout(cfgLoaded.Config))
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded, parsed.Device)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandRun connects to the media center and feeds utterances to one session
// loop until the source ends or ctx is cancelled.
func (r Runner) commandRun(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	conn, err := xbmc.Connect(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("media center connection failed", "error", err.Error())
		return 1
	}
	defer func() { _ = conn.Close() }()

	switcher := grammar.NewSwitcher(cfg.Grammar.Argv, logger)
	loop := newLoop(cfg, conn, switcher, logger)

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()
	defer func() {
		stopLoop()
		<-loopDone
	}()

	if parsed.Test {
		return r.runTest(ctx, loop)
	}
	return r.runDaemon(ctx, parsed, cfg, loop, switcher, logger)
}

func newLoop(cfg config.Config, conn *xbmc.Conn, switcher *grammar.Switcher, logger *slog.Logger) *session.Loop {
	ver := conn.Version()
	ctrl := session.NewController(session.Options{
		Locking:    cfg.Locking.Enable,
		UnlockWord: cfg.Locking.UnlockWord,
		LockWord:   cfg.Locking.LockWord,
	}, session.Deps{
		Caller:     conn.Client,
		Builder:    actions.NewBuilder(conn.Registry, cfg.Dispatch.MaxActions),
		Dispatcher: actions.NewDispatcher(conn.Client, time.Duration(cfg.Dispatch.RepeatDelayMS)*time.Millisecond, logger),
		Speller:    spelling.NewEngine(spelling.DefaultCharMap()),
		Indicator:  indicator.NewGUINotify(conn.Client, cfg.Notifications.Enable, ver, logger),
		Logger:     logger,
	})

	var grammarSwitcher session.GrammarSwitcher
	if switcher.Configured() {
		grammarSwitcher = switcher
	}
	return session.NewLoop(ctrl, session.NewSession(ver, cfg.Locking.Enable, cfg.Spelling.MaxLength), grammarSwitcher, logger)
}

// runTest reads stdin until a blank line and prints one summary per utterance.
func (r Runner) runTest(ctx context.Context, loop *session.Loop) int {
	err := recognizer.ReadLines(ctx, r.stdin(), true, func(ctx context.Context, utterance string) error {
		out, err := loop.Submit(ctx, utterance)
		if err != nil {
			return err
		}
		fmt.Fprintln(r.Stdout, out.Summary())
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (r Runner) runDaemon(
	ctx context.Context,
	parsed cli.Parsed,
	cfg config.Config,
	loop *session.Loop,
	switcher *grammar.Switcher,
	logger *slog.Logger,
) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, loop)
	}()

	if addr := strings.TrimSpace(cfg.Health.GRPCAddr); addr != "" {
		healthSrv, err := health.Serve(addr, logger)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			serverCancel()
			<-serverErrCh
			return 1
		}
		defer healthSrv.Close()
		healthSrv.SetServing(true)
	}

	if err := switcher.Switch(ctx, loop.State().Mode); err != nil {
		logger.Error("initial grammar switch failed", "error", err.Error())
	}

	sourceErr := r.runSource(ctx, parsed, cfg, loop, logger)

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}
	if sourceErr != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", sourceErr)
		logger.Error("utterance source failed", "error", sourceErr.Error())
		return 1
	}
	logger.Info("daemon stopped")
	return 0
}

// runSource pumps the recognizer command, or stdin when none is configured,
// into the loop. Once stdin is exhausted the daemon keeps serving `say`.
func (r Runner) runSource(ctx context.Context, parsed cli.Parsed, cfg config.Config, loop *session.Loop, logger *slog.Logger) error {
	emit := func(ctx context.Context, utterance string) error {
		out, err := loop.Submit(ctx, utterance)
		if err != nil {
			return err
		}
		logger.Info("utterance handled", "utterance_id", out.ID, "summary", out.Summary())
		return nil
	}

	if len(cfg.Recognizer.Argv) == 0 {
		err := recognizer.ReadLines(ctx, r.stdin(), false, emit)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Info("stdin closed; serving control socket only")
		<-ctx.Done()
		return nil
	}

	device, err := r.selectDevice(ctx, parsed, cfg, logger)
	if err != nil {
		return err
	}
	err = recognizer.NewProcess(cfg.Recognizer.Argv, device, logger).Run(ctx, emit)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// selectDevice resolves the capture device handed to the recognizer. With no
// -D and no audio.input the recognizer picks its own default.
func (r Runner) selectDevice(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) (string, error) {
	if parsed.Device == "" && strings.TrimSpace(cfg.Audio.Input) == "" {
		return "", nil
	}

	selection, err := audio.SelectDevice(ctx, audio.Preference{
		Override: parsed.Device,
		Input:    cfg.Audio.Input,
		Fallback: cfg.Audio.Fallback,
	})
	if err != nil {
		return "", err
	}
	if selection.Warning != "" {
		fmt.Fprintf(r.Stderr, "warning: %s\n", selection.Warning)
		logger.Warn("audio device fallback", "warning", selection.Warning)
	}
	logger.Info("audio device selected", "device", selection.Device.ID, "fallback", selection.Fallback)
	return selection.Device.ID, nil
}

func (r Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return strings.NewReader("")
	}
	return r.Stdin
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		defaultMark := " "
		if device.Default {
			defaultMark = "*"
		}
		fmt.Fprintf(
			r.Stdout,
			"%s id=%s | description=%q | state=%s | available=%s | muted=%s\n",
			defaultMark,
			device.ID,
			device.Description,
			device.State,
			yesNo(device.Available),
			yesNo(device.Muted),
		)
	}

	return 0
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "not running")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: ipc.CommandStatus}, controlTimeout)
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "unknown"
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "not running")
	return 0
}

func (r Runner) commandSay(ctx context.Context, words string, replyTimeout time.Duration) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: ipc.CommandSay, Text: words}, replyTimeout)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: no running xbmcvc daemon")
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// controlTimeout bounds connecting to the daemon and any reply that does not
// wait on dispatch.
const controlTimeout = 2 * time.Second

// sayReplyTimeout is the longest a daemon using cfg may take to answer `say`:
// a player lookup and a notification, then a full queue of maximally
// repeated calls, each followed by the repeat delay.
func sayReplyTimeout(cfg config.Config) time.Duration {
	rpc := time.Duration(cfg.RPC.TimeoutMS) * time.Millisecond
	delay := time.Duration(cfg.Dispatch.RepeatDelayMS) * time.Millisecond
	maxActions := cfg.Dispatch.MaxActions
	if maxActions <= 0 {
		maxActions = actions.DefaultMaxActions
	}
	calls := time.Duration(maxActions * command.MaxRepeat)
	return 2*rpc + calls*(rpc+delay) + controlTimeout
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request, replyTimeout time.Duration) (ipc.Response, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	resp, err := ipc.Send(ctx, socketPath, req, controlTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		if resp.Error == "" {
			return resp, true, errors.New("rejected")
		}
		return resp, true, errors.New(resp.Error)
	}

	if errors.Is(err, ipc.ErrNoDaemon) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

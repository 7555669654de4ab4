// Package recognizer feeds recognized utterances into the session loop, either
// from a reader (test mode) or from the stdout of an external recognizer.
package recognizer

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// DeviceEnv carries the selected capture device to the recognizer command.
const DeviceEnv = "XBMCVC_AUDIO_DEVICE"

// ErrAlreadyStarted is returned when Run is called twice on one Process.
var ErrAlreadyStarted = errors.New("recognizer already started")

// Emit receives one utterance. A non-nil error stops reading.
type Emit func(ctx context.Context, utterance string) error

// ReadLines emits each non-empty line of r. With stopAtBlank, the first blank
// line ends the stream the same way EOF does.
func ReadLines(ctx context.Context, r io.Reader, stopAtBlank bool, emit Emit) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if stopAtBlank {
				return nil
			}
			continue
		}
		if err := emit(ctx, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read utterances: %w", err)
	}
	return nil
}

// Process runs the configured recognizer command and treats every stdout
// line as one hypothesis.
type Process struct {
	argv   []string
	device string
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

func NewProcess(argv []string, device string, logger *slog.Logger) *Process {
	return &Process{argv: argv, device: device, logger: logger}
}

// Run starts the command and blocks until it exits or ctx is cancelled.
func (p *Process) Run(ctx context.Context, emit Emit) error {
	if len(p.argv) == 0 {
		return errors.New("recognizer_cmd is not configured")
	}

	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	p.mu.Unlock()

	cmd := exec.CommandContext(ctx, p.argv[0], p.argv[1:]...)
	cmd.Env = os.Environ()
	if p.device != "" {
		cmd.Env = append(cmd.Env, DeviceEnv+"="+p.device)
	}
	cmd.Stderr = &stderrLogger{logger: p.logger}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open recognizer stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start recognizer %s: %w", p.argv[0], err)
	}
	p.logInfo("recognizer started", "command", p.argv[0], "pid", cmd.Process.Pid, "device", p.device)

	readErr := ReadLines(ctx, stdout, false, emit)
	if readErr != nil {
		// Unblock the child if the consumer gave up early.
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()

	switch {
	case ctx.Err() != nil:
		return nil
	case readErr != nil:
		return readErr
	case waitErr != nil:
		return fmt.Errorf("recognizer exited: %w", waitErr)
	}
	return nil
}

func (p *Process) logInfo(msg string, attrs ...any) {
	if p.logger == nil {
		return
	}
	p.logger.Info(msg, attrs...)
}

// stderrLogger forwards recognizer diagnostics to the debug log line by line.
type stderrLogger struct {
	logger *slog.Logger
	buf    []byte
}

func (s *stderrLogger) Write(b []byte) (int, error) {
	if s.logger == nil {
		return len(b), nil
	}
	s.buf = append(s.buf, b...)
	for {
		i := bytes.IndexByte(s.buf, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(s.buf[:i])); line != "" {
			s.logger.Debug("recognizer stderr", "line", line)
		}
		s.buf = s.buf[i+1:]
	}
	return len(b), nil
}

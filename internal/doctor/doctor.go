// Package doctor runs readiness checks for config, the media center, audio,
// and the external recognizer tools.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/xbmcvc/internal/audio"
	"github.com/rbright/xbmcvc/internal/config"
	"github.com/rbright/xbmcvc/internal/health"
	"github.com/rbright/xbmcvc/internal/xbmc"
)

const checkTimeout = 3 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders one line per check.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Name, check.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes every check against a loaded config. device is the -D value.
func Run(ctx context.Context, cfg config.Loaded, device string) Report {
	checks := []Check{{
		Name:    "config",
		Pass:    true,
		Message: fmt.Sprintf("loaded %q", cfg.Path),
	}}

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "runtime dir set for the control socket", "XDG_RUNTIME_DIR is empty; say/status cannot reach the daemon"))

	checks = append(checks, checkRPC(ctx, cfg.Config))
	checks = append(checks, checkAudioSelection(ctx, cfg.Config, device))
	checks = append(checks, checkOptionalCommand(cfg.Config.Recognizer.Argv, "recognizer_cmd", "not set; utterances are read from stdin"))
	checks = append(checks, checkOptionalCommand(cfg.Config.Grammar.Argv, "grammar_cmd", "not set; mode changes are not forwarded"))
	checks = append(checks, checkHealth(ctx, cfg.Config))

	return Report{Checks: checks}
}

func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	if predicate(os.Getenv(name)) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkRPC connects and probes the version exactly as `run` does.
func checkRPC(ctx context.Context, cfg config.Config) Check {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	conn, err := xbmc.Connect(ctx, cfg, nil)
	if err != nil {
		return Check{Name: "rpc", Pass: false, Message: err.Error()}
	}
	defer conn.Close()

	source := "probed"
	if cfg.XBMC.Version != 0 {
		source = "pinned"
	}
	return Check{
		Name:    "rpc",
		Pass:    true,
		Message: fmt.Sprintf("%s via %s, version %s (%s)", conn.Address, cfg.RPC.Transport, conn.Version(), source),
	}
}

func checkAudioSelection(ctx context.Context, cfg config.Config, device string) Check {
	selection, err := audio.SelectDevice(ctx, audio.Preference{
		Override: device,
		Input:    cfg.Audio.Input,
		Fallback: cfg.Audio.Fallback,
	})
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message += " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkOptionalCommand passes when argv is unset and otherwise requires the
// binary on PATH.
func checkOptionalCommand(argv []string, name string, unsetMsg string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: true, Message: unsetMsg}
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", argv[0])}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("found at %s", path)}
}

func checkHealth(ctx context.Context, cfg config.Config) Check {
	addr := strings.TrimSpace(cfg.Health.GRPCAddr)
	if addr == "" {
		return Check{Name: "health", Pass: true, Message: "disabled"}
	}

	status, err := health.Probe(ctx, addr, checkTimeout)
	if err != nil {
		return Check{Name: "health", Pass: false, Message: fmt.Sprintf("%s: %v (is the daemon running?)", addr, err)}
	}
	return Check{Name: "health", Pass: status == "SERVING", Message: fmt.Sprintf("%s reports %s", addr, status)}
}

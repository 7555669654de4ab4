package config

import (
	"fmt"
	"strings"

	"github.com/rbright/xbmcvc/internal/command"
)

var logLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.RPC.Host) == "" {
		return nil, fmt.Errorf("rpc.host must not be empty")
	}
	if cfg.RPC.Port <= 0 || cfg.RPC.Port > 65535 {
		return nil, fmt.Errorf("rpc.port must be between 1 and 65535")
	}
	if cfg.RPC.WSPort <= 0 || cfg.RPC.WSPort > 65535 {
		return nil, fmt.Errorf("rpc.ws_port must be between 1 and 65535")
	}
	if !strings.HasPrefix(cfg.RPC.Path, "/") {
		return nil, fmt.Errorf("rpc.path must start with '/'")
	}
	if cfg.RPC.Transport != "http" && cfg.RPC.Transport != "websocket" {
		return nil, fmt.Errorf("rpc.transport must be one of: http, websocket")
	}
	if cfg.RPC.TimeoutMS <= 0 {
		return nil, fmt.Errorf("rpc.timeout_ms must be > 0")
	}

	if cfg.XBMC.Version != 0 {
		if _, err := command.NewRegistry(command.Version(cfg.XBMC.Version)); err != nil {
			return nil, fmt.Errorf("xbmc.version must be 0 (probe) or a supported version: %w", err)
		}
	}

	if cfg.Locking.Enable {
		if err := validateKeyword("locking.unlock_word", cfg.Locking.UnlockWord); err != nil {
			return nil, err
		}
		if err := validateKeyword("locking.lock_word", cfg.Locking.LockWord); err != nil {
			return nil, err
		}
		if cfg.Locking.UnlockWord == cfg.Locking.LockWord {
			return nil, fmt.Errorf("locking.unlock_word and locking.lock_word must differ")
		}
	}

	if cfg.Dispatch.MaxActions <= 0 {
		return nil, fmt.Errorf("dispatch.max_actions must be > 0")
	}
	if cfg.Dispatch.RepeatDelayMS < 0 {
		return nil, fmt.Errorf("dispatch.repeat_delay_ms must be >= 0")
	}
	if cfg.Spelling.MaxLength <= 0 {
		return nil, fmt.Errorf("spelling.max_length must be > 0")
	}

	if cfg.RPC.Host == AutoHost {
		if strings.TrimSpace(cfg.Discovery.Service) == "" {
			return nil, fmt.Errorf("discovery.service must not be empty when rpc.host=auto")
		}
		if cfg.Discovery.TimeoutMS <= 0 {
			return nil, fmt.Errorf("discovery.timeout_ms must be > 0 when rpc.host=auto")
		}
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if cfg.Recognizer.Raw != "" && len(cfg.Recognizer.Argv) == 0 {
		return nil, fmt.Errorf("recognizer_cmd is configured but empty")
	}
	if cfg.Grammar.Raw != "" && len(cfg.Grammar.Argv) == 0 {
		return nil, fmt.Errorf("grammar_cmd is configured but empty")
	}

	if cfg.Notifications.Enable && cfg.XBMC.Version != 0 && !command.Version(cfg.XBMC.Version).SupportsNotifications() {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("notifications need XBMC %d or newer; they are ignored for version %d", int(command.VersionFrodo), cfg.XBMC.Version)})
	}
	if len(cfg.Grammar.Argv) > 0 && len(cfg.Recognizer.Argv) == 0 {
		warnings = append(warnings, Warning{Message: "grammar_cmd is set but recognizer_cmd is not; grammar switches only apply to an external recognizer"})
	}

	return warnings, nil
}

func validateKeyword(field, word string) error {
	if word == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	if strings.ContainsAny(word, " \t\r\n") {
		return fmt.Errorf("%s must be a single word", field)
	}
	return nil
}

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

const envPrefix = "XBMCVC_"

// envOverrides is prefilled from the current config, so variables that are
// not set leave fields unchanged.
type envOverrides struct {
	Host          string `env:"HOST"`
	Port          int    `env:"PORT"`
	Transport     string `env:"TRANSPORT"`
	Version       int    `env:"VERSION"`
	Locking       bool   `env:"LOCKING"`
	Notifications bool   `env:"NOTIFICATIONS"`
	LogLevel      string `env:"LOG_LEVEL"`
	RecognizerCmd string `env:"RECOGNIZER_CMD"`
	GrammarCmd    string `env:"GRAMMAR_CMD"`
}

// ApplyEnv overlays XBMCVC_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	overrides := envOverrides{
		Host:          cfg.RPC.Host,
		Port:          cfg.RPC.Port,
		Transport:     cfg.RPC.Transport,
		Version:       cfg.XBMC.Version,
		Locking:       cfg.Locking.Enable,
		Notifications: cfg.Notifications.Enable,
		LogLevel:      cfg.Log.Level,
		RecognizerCmd: cfg.Recognizer.Raw,
		GrammarCmd:    cfg.Grammar.Raw,
	}

	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	cfg.RPC.Host = strings.TrimSpace(overrides.Host)
	cfg.RPC.Port = overrides.Port
	cfg.RPC.Transport = strings.ToLower(strings.TrimSpace(overrides.Transport))
	cfg.XBMC.Version = overrides.Version
	cfg.Locking.Enable = overrides.Locking
	cfg.Notifications.Enable = overrides.Notifications
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(overrides.LogLevel))

	if overrides.RecognizerCmd != cfg.Recognizer.Raw {
		command, err := parseCommand(envPrefix+"RECOGNIZER_CMD", overrides.RecognizerCmd)
		if err != nil {
			return err
		}
		cfg.Recognizer = command
	}
	if overrides.GrammarCmd != cfg.Grammar.Raw {
		command, err := parseCommand(envPrefix+"GRAMMAR_CMD", overrides.GrammarCmd)
		if err != nil {
			return err
		}
		cfg.Grammar = command
	}
	return nil
}

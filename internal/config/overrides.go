package config

import "strings"

// Overrides are command-line values applied after the file and environment.
// Zero values leave the loaded setting alone.
type Overrides struct {
	Host          string
	Port          int
	DisableLock   bool
	DisableNotify bool
}

func (o Overrides) applyTo(cfg *Config) {
	if host := strings.TrimSpace(o.Host); host != "" {
		cfg.RPC.Host = host
	}
	if o.Port != 0 {
		cfg.RPC.Port = o.Port
	}
	if o.DisableLock {
		cfg.Locking.Enable = false
	}
	if o.DisableNotify {
		cfg.Notifications.Enable = false
	}
}

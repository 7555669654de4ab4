package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		RPC: RPCConfig{
			Host:      "localhost",
			Port:      8080,
			WSPort:    9090,
			Path:      "/jsonrpc",
			Transport: "http",
			TimeoutMS: 2000,
		},
		Locking: LockingConfig{
			Enable:     true,
			UnlockWord: "X_B_M_C",
			LockWord:   "OKAY",
		},
		Notifications: NotificationsConfig{Enable: true},
		Dispatch: DispatchConfig{
			MaxActions:    5,
			RepeatDelayMS: 200,
		},
		Spelling: SpellingConfig{MaxLength: 255},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Discovery: DiscoveryConfig{
			Service:   "_xbmc-jsonrpc-h._tcp",
			Domain:    "local.",
			TimeoutMS: 3000,
		},
		Log: LogConfig{Level: "info"},
	}
}

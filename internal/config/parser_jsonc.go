package config

import (
	"encoding/json"
	"strings"
)

type jsoncConfig struct {
	RPC           *jsoncRPC           `json:"rpc"`
	XBMC          *jsoncXBMC          `json:"xbmc"`
	Locking       *jsoncLocking       `json:"locking"`
	Notifications *jsoncNotifications `json:"notifications"`
	Dispatch      *jsoncDispatch      `json:"dispatch"`
	Spelling      *jsoncSpelling      `json:"spelling"`
	Audio         *jsoncAudio         `json:"audio"`
	Discovery     *jsoncDiscovery     `json:"discovery"`
	Health        *jsoncHealth        `json:"health"`
	Log           *jsoncLog           `json:"log"`

	RecognizerCmd *string `json:"recognizer_cmd"`
	GrammarCmd    *string `json:"grammar_cmd"`
}

type jsoncRPC struct {
	Host      *string `json:"host"`
	Port      *int    `json:"port"`
	WSPort    *int    `json:"ws_port"`
	Path      *string `json:"path"`
	Transport *string `json:"transport"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncXBMC struct {
	Version *int `json:"version"`
}

type jsoncLocking struct {
	Enable     *bool   `json:"enable"`
	UnlockWord *string `json:"unlock_word"`
	LockWord   *string `json:"lock_word"`
}

type jsoncNotifications struct {
	Enable *bool `json:"enable"`
}

type jsoncDispatch struct {
	MaxActions    *int `json:"max_actions"`
	RepeatDelayMS *int `json:"repeat_delay_ms"`
}

type jsoncSpelling struct {
	MaxLength *int `json:"max_length"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncDiscovery struct {
	Service   *string `json:"service"`
	Domain    *string `json:"domain"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncHealth struct {
	GRPCAddr *string `json:"grpc_addr"`
}

type jsoncLog struct {
	Level *string `json:"level"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, withPosition(content, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, withPosition(content, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.RPC != nil {
		if payload.RPC.Host != nil {
			cfg.RPC.Host = strings.TrimSpace(*payload.RPC.Host)
		}
		if payload.RPC.Port != nil {
			cfg.RPC.Port = *payload.RPC.Port
		}
		if payload.RPC.WSPort != nil {
			cfg.RPC.WSPort = *payload.RPC.WSPort
		}
		if payload.RPC.Path != nil {
			cfg.RPC.Path = strings.TrimSpace(*payload.RPC.Path)
		}
		if payload.RPC.Transport != nil {
			cfg.RPC.Transport = strings.ToLower(strings.TrimSpace(*payload.RPC.Transport))
		}
		if payload.RPC.TimeoutMS != nil {
			cfg.RPC.TimeoutMS = *payload.RPC.TimeoutMS
		}
	}

	if payload.XBMC != nil && payload.XBMC.Version != nil {
		cfg.XBMC.Version = *payload.XBMC.Version
	}

	if payload.Locking != nil {
		if payload.Locking.Enable != nil {
			cfg.Locking.Enable = *payload.Locking.Enable
		}
		if payload.Locking.UnlockWord != nil {
			cfg.Locking.UnlockWord = strings.ToUpper(strings.TrimSpace(*payload.Locking.UnlockWord))
		}
		if payload.Locking.LockWord != nil {
			cfg.Locking.LockWord = strings.ToUpper(strings.TrimSpace(*payload.Locking.LockWord))
		}
	}

	if payload.Notifications != nil && payload.Notifications.Enable != nil {
		cfg.Notifications.Enable = *payload.Notifications.Enable
	}

	if payload.Dispatch != nil {
		if payload.Dispatch.MaxActions != nil {
			cfg.Dispatch.MaxActions = *payload.Dispatch.MaxActions
		}
		if payload.Dispatch.RepeatDelayMS != nil {
			cfg.Dispatch.RepeatDelayMS = *payload.Dispatch.RepeatDelayMS
		}
	}

	if payload.Spelling != nil && payload.Spelling.MaxLength != nil {
		cfg.Spelling.MaxLength = *payload.Spelling.MaxLength
	}

	if payload.Audio != nil {
		if payload.Audio.Input != nil {
			cfg.Audio.Input = *payload.Audio.Input
		}
		if payload.Audio.Fallback != nil {
			cfg.Audio.Fallback = *payload.Audio.Fallback
		}
	}

	if payload.Discovery != nil {
		if payload.Discovery.Service != nil {
			cfg.Discovery.Service = strings.TrimSpace(*payload.Discovery.Service)
		}
		if payload.Discovery.Domain != nil {
			cfg.Discovery.Domain = strings.TrimSpace(*payload.Discovery.Domain)
		}
		if payload.Discovery.TimeoutMS != nil {
			cfg.Discovery.TimeoutMS = *payload.Discovery.TimeoutMS
		}
	}

	if payload.Health != nil && payload.Health.GRPCAddr != nil {
		cfg.Health.GRPCAddr = strings.TrimSpace(*payload.Health.GRPCAddr)
	}

	if payload.Log != nil && payload.Log.Level != nil {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
	}

	if payload.RecognizerCmd != nil {
		command, err := parseCommand("recognizer_cmd", *payload.RecognizerCmd)
		if err != nil {
			return nil, err
		}
		cfg.Recognizer = command
	}

	if payload.GrammarCmd != nil {
		command, err := parseCommand("grammar_cmd", *payload.GrammarCmd)
		if err != nil {
			return nil, err
		}
		cfg.Grammar = command
	}

	return warnings, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves and reads the config file, overlays XBMCVC_* environment
// variables, then validates the result.
func Load(explicitPath string) (Loaded, error) {
	return LoadWithOverrides(explicitPath, Overrides{})
}

// LoadWithOverrides is Load with command-line overrides applied last.
func LoadWithOverrides(explicitPath string, overrides Overrides) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	loaded := Loaded{Path: resolvedPath, Config: Default()}

	content, err := os.ReadFile(resolvedPath)
	switch {
	case err == nil:
		cfg, warnings, err := decode(string(content), loaded.Config)
		if err != nil {
			return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
		}
		loaded.Config = cfg
		loaded.Warnings = warnings
		loaded.Exists = true
	case errors.Is(err, os.ErrNotExist):
		loaded.Warnings = []Warning{{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		}}
	default:
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	if err := ApplyEnv(&loaded.Config); err != nil {
		return Loaded{}, err
	}
	overrides.applyTo(&loaded.Config)

	validated, err := Validate(loaded.Config)
	if err != nil {
		return Loaded{}, fmt.Errorf("validate config %q: %w", resolvedPath, err)
	}
	loaded.Warnings = append(loaded.Warnings, validated...)
	return loaded, nil
}

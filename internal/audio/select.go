package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const defaultTerm = "default"

// ErrNoDevices is returned when Pulse reports no input sources.
var ErrNoDevices = errors.New("no audio input devices found")

// Preference is the configured device choice. Override comes from -D and,
// when set, replaces Input and disables the fallback.
type Preference struct {
	Override string
	Input    string
	Fallback string
}

// Selection is the device to capture from plus a warning when the fallback
// was used.
type Selection struct {
	Device   Device
	Warning  string
	Fallback bool
}

// SelectDevice lists live devices and applies pref to them.
func SelectDevice(ctx context.Context, pref Preference) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return Choose(devices, pref)
}

// Choose applies pref to an already fetched device list.
func Choose(devices []Device, pref Preference) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, ErrNoDevices
	}

	if override := normalizeTerm(pref.Override); override != "" {
		dev, err := find(devices, override, "device")
		if err != nil {
			return Selection{}, err
		}
		if !dev.Usable() {
			return Selection{}, fmt.Errorf("device %q is %s", dev.ID, unusableReason(dev))
		}
		return Selection{Device: dev}, nil
	}

	primary, err := find(devices, normalizeTerm(pref.Input), "audio.input")
	if err != nil {
		return Selection{}, err
	}
	if primary.Usable() {
		return Selection{Device: primary}, nil
	}

	reason := unusableReason(primary)
	fallback, err := find(devices, normalizeTerm(pref.Fallback), "audio.fallback")
	if err != nil {
		return Selection{}, fmt.Errorf("audio.input %q is %s: %w", primary.ID, reason, err)
	}
	if !fallback.Usable() {
		return Selection{}, fmt.Errorf("audio fallback device %q is %s", fallback.ID, unusableReason(fallback))
	}

	return Selection{
		Device:   fallback,
		Warning:  fmt.Sprintf("audio.input %q is %s; falling back to %q", primary.ID, reason, fallback.ID),
		Fallback: fallback.ID != primary.ID,
	}, nil
}

// find resolves term ("" or "default" means the Pulse default source).
func find(devices []Device, term string, label string) (Device, error) {
	if term == "" || term == defaultTerm {
		for _, dev := range devices {
			if dev.Default {
				return dev, nil
			}
		}
		return Device{}, errors.New("default audio source is unavailable")
	}
	for _, dev := range devices {
		if deviceMatches(dev, term) {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("%s %q did not match any device", label, term)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// deviceMatches does a case-insensitive substring match on id or description.
func deviceMatches(device Device, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Description), term)
}

func unusableReason(dev Device) string {
	if dev.Muted {
		return "muted"
	}
	return "unavailable"
}

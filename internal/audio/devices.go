// Package audio lists Pulse capture sources and picks the one handed to the
// external recognizer.
package audio

import (
	"context"
	"fmt"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// Device is one Pulse input source.
type Device struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Usable reports whether the recognizer can capture from the device.
func (d Device) Usable() bool {
	return d.Available && !d.Muted
}

// ListDevices queries the Pulse server for input sources.
func ListDevices(_ context.Context) ([]Device, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("xbmcvc"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}

	var reply pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &reply); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return devicesFromReply(reply, defaultSource.ID()), nil
}

func devicesFromReply(reply pulseproto.GetSourceInfoListReply, defaultID string) []Device {
	devices := make([]Device, 0, len(reply))
	for _, info := range reply {
		if info == nil {
			continue
		}
		devices = append(devices, Device{
			ID:          info.SourceName,
			Description: info.Device,
			State:       stateName(info.State),
			Available:   portAvailable(info),
			Muted:       info.Mute,
			Default:     info.SourceName == defaultID,
		})
	}
	return devices
}

func stateName(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

// portAvailable treats sources without ports, or whose active port is in
// state unknown(0) or yes(2), as available.
func portAvailable(info *pulseproto.GetSourceInfoReply) bool {
	if info == nil {
		return false
	}
	for _, port := range info.Ports {
		if port.Name == info.ActivePortName {
			return port.Available != 1
		}
	}
	return true
}

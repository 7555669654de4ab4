// Package indicator shows voice-control state as media center GUI notifications.
package indicator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/jsonrpc"
)

const (
	imageInfo    = "info"
	imageWarning = "warning"
)

// Controller is the session-facing notification contract.
type Controller interface {
	Unlocked(context.Context, fsm.Mode)
	Locked(context.Context)
	ModeChanged(context.Context, fsm.Mode)
	Heard(context.Context, string)
}

// GUINotify sends GUI.ShowNotification requests. Versions without the method
// and disabled configs make every call a no-op.
type GUINotify struct {
	caller   jsonrpc.Caller
	enabled  bool
	logger   *slog.Logger
	messages messages
}

func NewGUINotify(caller jsonrpc.Caller, enabled bool, version command.Version, logger *slog.Logger) *GUINotify {
	return &GUINotify{
		caller:   caller,
		enabled:  enabled && caller != nil && version.SupportsNotifications(),
		logger:   logger,
		messages: defaultMessages,
	}
}

func (g *GUINotify) Enabled() bool {
	return g.enabled
}

// Unlocked announces that commands are being accepted again.
func (g *GUINotify) Unlocked(ctx context.Context, mode fsm.Mode) {
	g.show(ctx, g.messages.enabledTitle, fmt.Sprintf(g.messages.currentMode, mode), imageWarning)
}

// Locked announces that commands are ignored until the unlock word.
func (g *GUINotify) Locked(ctx context.Context) {
	g.show(ctx, g.messages.disabledTitle, g.messages.disabledBody, imageWarning)
}

func (g *GUINotify) ModeChanged(ctx context.Context, mode fsm.Mode) {
	g.show(ctx, g.messages.modeTitle, fmt.Sprintf(g.messages.currentMode, mode), imageWarning)
}

// Heard echoes the recognized command words.
func (g *GUINotify) Heard(ctx context.Context, utterance string) {
	g.show(ctx, g.messages.heardTitle, utterance, imageInfo)
}

func (g *GUINotify) show(ctx context.Context, title, message, image string) {
	if !g.enabled {
		return
	}
	if err := jsonrpc.ShowNotification(ctx, g.caller, title, message, image); err != nil {
		g.log("gui notification failed", err)
	}
}

func (g *GUINotify) log(message string, err error) {
	if g.logger == nil || err == nil {
		return
	}
	g.logger.Debug(message, "error", err.Error())
}

package indicator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/jsonrpc"
)

type call struct {
	method string
	params string
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) Call(_ context.Context, method, params string) ([]byte, error) {
	r.calls = append(r.calls, call{method: method, params: params})
	return nil, r.err
}

var _ jsonrpc.Caller = (*recorder)(nil)

func TestGUINotifySendsNotificationsOnFrodo(t *testing.T) {
	rec := &recorder{}
	n := NewGUINotify(rec, true, command.VersionFrodo, nil)
	require.True(t, n.Enabled())

	ctx := context.Background()
	n.Unlocked(ctx, fsm.ModeNormal)
	n.Locked(ctx)
	n.ModeChanged(ctx, fsm.ModeSpelling)
	n.Heard(ctx, "VOLUME FIFTY")

	require.Equal(t, []call{
		{method: "GUI.ShowNotification", params: `"title":"Voice recognition enabled","message":"Current mode: normal","image":"warning"`},
		{method: "GUI.ShowNotification", params: `"title":"Voice recognition disabled","message":"Not listening for commands","image":"warning"`},
		{method: "GUI.ShowNotification", params: `"title":"Voice recognition mode changed","message":"Current mode: spelling","image":"warning"`},
		{method: "GUI.ShowNotification", params: `"title":"Voice command heard","message":"VOLUME FIFTY","image":"info"`},
	}, rec.calls)
}

func TestGUINotifyDisabled(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		version command.Version
	}{
		{name: "config disabled", enabled: false, version: command.VersionFrodo},
		{name: "eden has no notifications", enabled: true, version: command.VersionEden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			n := NewGUINotify(rec, tc.enabled, tc.version, nil)
			require.False(t, n.Enabled())

			n.Heard(context.Background(), "UP")
			n.Locked(context.Background())
			require.Empty(t, rec.calls)
		})
	}
}

func TestGUINotifySwallowsErrors(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	n := NewGUINotify(rec, true, command.VersionFrodo, nil)

	require.NotPanics(t, func() {
		n.Heard(context.Background(), "UP")
	})
	require.Len(t, rec.calls, 1)
}

func TestGUINotifyNilCallerDisabled(t *testing.T) {
	n := NewGUINotify(nil, true, command.VersionFrodo, nil)
	require.False(t, n.Enabled())
}

package fsm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitial(t *testing.T) {
	require.Equal(t, State{Lock: Locked, Mode: ModeNormal}, Initial(true))
	require.Equal(t, State{Lock: Unlocked, Mode: ModeNormal}, Initial(false))
}

func TestTransitionHappyPath(t *testing.T) {
	s := Initial(true)

	next, err := Transition(s, EventUnlock)
	require.NoError(t, err)
	require.Equal(t, State{Lock: Unlocked, Mode: ModeNormal}, next)

	next, err = Transition(next, EventSpell)
	require.NoError(t, err)
	require.Equal(t, State{Lock: Unlocked, Mode: ModeSpelling}, next)

	next, err = Transition(next, EventAccept)
	require.NoError(t, err)
	require.Equal(t, State{Lock: Unlocked, Mode: ModeNormal}, next)

	next, err = Transition(next, EventLock)
	require.NoError(t, err)
	require.Equal(t, State{Lock: Locked, Mode: ModeNormal}, next)
}

func TestLockKeepsMode(t *testing.T) {
	spelling := State{Lock: Unlocked, Mode: ModeSpelling}

	locked, err := Transition(spelling, EventLock)
	require.NoError(t, err)
	require.Equal(t, State{Lock: Locked, Mode: ModeSpelling}, locked)

	unlocked, err := Transition(locked, EventUnlock)
	require.NoError(t, err)
	require.Equal(t, spelling, unlocked)
}

func TestTransitionMatrixInvalidTransitions(t *testing.T) {
	lockedNormal := State{Lock: Locked, Mode: ModeNormal}
	unlockedNormal := State{Lock: Unlocked, Mode: ModeNormal}
	unlockedSpelling := State{Lock: Unlocked, Mode: ModeSpelling}

	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "locked spell invalid", state: lockedNormal, event: EventSpell, want: lockedNormal, wantErr: true},
		{name: "locked lock invalid", state: lockedNormal, event: EventLock, want: lockedNormal, wantErr: true},
		{name: "unlocked unlock invalid", state: unlockedNormal, event: EventUnlock, want: unlockedNormal, wantErr: true},
		{name: "normal accept invalid", state: unlockedNormal, event: EventAccept, want: unlockedNormal, wantErr: true},
		{name: "normal cancel invalid", state: unlockedNormal, event: EventCancel, want: unlockedNormal, wantErr: true},
		{name: "spelling spell invalid", state: unlockedSpelling, event: EventSpell, want: unlockedSpelling, wantErr: true},
		{name: "spelling cancel valid", state: unlockedSpelling, event: EventCancel, want: unlockedNormal},
		{name: "spelling normal valid", state: unlockedSpelling, event: EventNormal, want: unlockedNormal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, err := Transition(tc.state, tc.event)
			require.Equal(t, tc.want, next)
			if tc.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "invalid transition")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTransitionUnknownStateAndEvent(t *testing.T) {
	mystery := State{Lock: Lock("mystery"), Mode: ModeNormal}
	next, err := Transition(mystery, EventUnlock)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown state")
	require.Equal(t, mystery, next)

	_, err = Transition(Initial(false), Event("dance"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown event")
}

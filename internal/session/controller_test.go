package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/xbmcvc/internal/actions"
	"github.com/rbright/xbmcvc/internal/command"
	"github.com/rbright/xbmcvc/internal/fsm"
	"github.com/rbright/xbmcvc/internal/spelling"
)

type rpcCall struct {
	method string
	params string
}

// fakeRPC records calls and answers Player.GetActivePlayers.
type fakeRPC struct {
	mu       sync.Mutex
	calls    []rpcCall
	playerID int
	noPlayer bool
	failAll  bool

	// onCall runs before every call; ctx errors are returned after it.
	onCall func(method string)
}

func (f *fakeRPC) Call(ctx context.Context, method, params string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.onCall != nil {
		f.onCall(method)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.failAll {
		return nil, errors.New("connection refused")
	}
	if method == "Player.GetActivePlayers" {
		if f.noPlayer {
			return []byte(`{"jsonrpc":"2.0","id":1,"result":[]}`), nil
		}
		return []byte(`{"jsonrpc":"2.0","id":1,"result":[{"playerid":` + strconv.Itoa(f.playerID) + `,"type":"audio"}]}`), nil
	}
	f.calls = append(f.calls, rpcCall{method: method, params: params})
	return []byte(`{"jsonrpc":"2.0","id":1,"result":"OK"}`), nil
}

func (f *fakeRPC) recorded() []rpcCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]rpcCall(nil), f.calls...)
}

type indicatorEvent struct {
	kind   string
	detail string
}

type fakeIndicator struct {
	events []indicatorEvent
}

func (f *fakeIndicator) Unlocked(_ context.Context, mode fsm.Mode) {
	f.events = append(f.events, indicatorEvent{kind: "unlocked", detail: string(mode)})
}

func (f *fakeIndicator) Locked(context.Context) {
	f.events = append(f.events, indicatorEvent{kind: "locked"})
}

func (f *fakeIndicator) ModeChanged(_ context.Context, mode fsm.Mode) {
	f.events = append(f.events, indicatorEvent{kind: "mode", detail: string(mode)})
}

func (f *fakeIndicator) Heard(_ context.Context, utterance string) {
	f.events = append(f.events, indicatorEvent{kind: "heard", detail: utterance})
}

type harness struct {
	rpc       *fakeRPC
	indicator *fakeIndicator
	ctrl      *Controller
	session   *Session
}

func newHarness(t *testing.T, version command.Version, locking bool) *harness {
	t.Helper()

	reg, err := command.NewRegistry(version)
	require.NoError(t, err)

	rpc := &fakeRPC{playerID: 1}
	ind := &fakeIndicator{}
	ctrl := NewController(
		Options{Locking: locking, UnlockWord: "X_B_M_C", LockWord: "OKAY"},
		Deps{
			Caller:     rpc,
			Builder:    actions.NewBuilder(reg, actions.DefaultMaxActions),
			Dispatcher: actions.NewDispatcher(rpc, 0, nil),
			Speller:    spelling.NewEngine(spelling.DefaultCharMap()),
			Indicator:  ind,
		},
	)
	return &harness{rpc: rpc, indicator: ind, ctrl: ctrl, session: NewSession(version, locking, 8)}
}

func (h *harness) say(utterance string) Outcome {
	return h.ctrl.Process(context.Background(), h.session, utterance)
}

func TestLockedRejectsUntilUnlockWord(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	out := h.say("UP")
	require.True(t, out.Rejected)
	require.Equal(t, fsm.State{Lock: fsm.Locked, Mode: fsm.ModeNormal}, out.State)
	require.Empty(t, h.rpc.recorded())
	require.Empty(t, h.indicator.events)

	out = h.say("X_B_M_C")
	require.False(t, out.Rejected)
	require.Equal(t, fsm.Unlocked, out.State.Lock)
	require.Equal(t, []indicatorEvent{{kind: "unlocked", detail: "normal"}}, h.indicator.events)
	require.Empty(t, h.rpc.recorded())
}

func TestUnlockWithTrailingCommandsProcessesRest(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	out := h.say("X_B_M_C  DOWN THREE")
	require.Equal(t, fsm.Unlocked, out.State.Lock)
	require.Len(t, out.Actions, 1)
	require.Equal(t, 3, out.Actions[0].Repeat)
	require.Equal(t, actions.Report{Calls: 3}, out.Report)

	require.Equal(t, []rpcCall{
		{method: "Input.Down"}, {method: "Input.Down"}, {method: "Input.Down"},
	}, h.rpc.recorded())
	require.Equal(t, []indicatorEvent{{kind: "heard", detail: "DOWN THREE"}}, h.indicator.events)
}

func TestLowercaseWordsAreUnknown(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	out := h.say("x_b_m_c")
	require.True(t, out.Rejected)
	require.Equal(t, fsm.Locked, out.State.Lock)

	h.say("X_B_M_C")
	out = h.say("up")
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, actions.UnknownCommand, out.Diagnostics[0].Kind)
	require.Empty(t, h.rpc.recorded())
}

func TestLockRoundTrip(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	h.say("X_B_M_C")
	out := h.say("OKAY")
	require.Equal(t, fsm.Locked, out.State.Lock)
	require.Equal(t, "locked", h.indicator.events[len(h.indicator.events)-1].kind)

	out = h.say("VOLUME FIFTY")
	require.True(t, out.Rejected)
	require.Empty(t, h.rpc.recorded())
}

func TestLockWordOnlyWhenAlone(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)
	h.say("X_B_M_C")

	out := h.say("OKAY UP")
	require.Equal(t, fsm.Unlocked, out.State.Lock)
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, actions.UnknownCommand, out.Diagnostics[0].Kind)
	require.Equal(t, []rpcCall{{method: "Input.Up"}}, h.rpc.recorded())
}

func TestLockingDisabledIgnoresLockWords(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)

	out := h.say("OKAY")
	require.Equal(t, fsm.Unlocked, out.State.Lock)
	require.Len(t, out.Diagnostics, 1)

	out = h.say("SELECT")
	require.False(t, out.Rejected)
	require.Equal(t, []rpcCall{{method: "Input.Select"}}, h.rpc.recorded())
}

func TestEmptyUtteranceIsIgnored(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	out := h.say("   ")
	require.False(t, out.Rejected)
	require.Equal(t, fsm.Initial(true), out.State)
	require.Empty(t, h.indicator.events)
}

func TestNormalModeBuildsWithActivePlayer(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.rpc.playerID = 2

	out := h.say("PAUSE VOLUME FIFTY REPEAT")
	require.Empty(t, out.Diagnostics)
	require.Equal(t, []rpcCall{
		{method: "Player.SetSpeed", params: `"playerid":2,"speed":0`},
		{method: "Application.SetVolume", params: `"volume":50`},
		{method: "Player.SetRepeat", params: `"playerid":2,"repeat":"cycle"`},
	}, h.rpc.recorded())
}

func TestNormalModeWithoutPlayerSkipsPlayerCommands(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.rpc.noPlayer = true

	out := h.say("STOP HOME")
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, actions.NoActivePlayer, out.Diagnostics[0].Kind)
	require.Equal(t, []rpcCall{{method: "Input.Home"}}, h.rpc.recorded())
}

func TestDispatchFailuresAreReported(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.rpc.failAll = true

	out := h.say("UP LEFT")
	require.Len(t, out.Actions, 2)
	require.Equal(t, actions.Report{Calls: 2, Failures: 2}, out.Report)
}

func TestSpellingRoundTrip(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)

	out := h.say("SPELL")
	require.True(t, out.ModeChanged)
	require.Equal(t, fsm.ModeSpelling, out.State.Mode)

	out = h.say("ALPHA BRAVO UPPER CHARLIE")
	require.False(t, out.ModeChanged)
	require.Equal(t, "abC", out.Text)

	out = h.say("DELETE")
	require.Equal(t, "ab", out.Text)

	out = h.say("ACCEPT")
	require.True(t, out.ModeChanged)
	require.Equal(t, fsm.ModeNormal, out.State.Mode)

	require.Equal(t, []rpcCall{
		{method: "Input.SendText", params: `"text":"","done":false`},
		{method: "Input.SendText", params: `"text":"abC","done":false`},
		{method: "Input.SendText", params: `"text":"ab","done":false`},
		{method: "Input.ExecuteAction", params: `"action":"enter"`},
	}, h.rpc.recorded())
	require.Equal(t, []indicatorEvent{
		{kind: "mode", detail: "spelling"},
		{kind: "mode", detail: "normal"},
	}, h.indicator.events)
}

func TestSpellingModeCommands(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		wantMode  fsm.Mode
		wantCall  rpcCall
		changed   bool
	}{
		{name: "cancel", utterance: "CANCEL", wantMode: fsm.ModeNormal, wantCall: rpcCall{method: "Input.ExecuteAction", params: `"action":"previousmenu"`}, changed: true},
		{name: "clear", utterance: "CLEAR", wantMode: fsm.ModeSpelling, wantCall: rpcCall{method: "Input.SendText", params: `"text":"","done":false`}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, command.VersionFrodo, false)
			h.say("SPELL")
			h.say("UPPER ECHO")

			out := h.say(tc.utterance)
			require.Equal(t, tc.changed, out.ModeChanged)
			require.Equal(t, tc.wantMode, out.State.Mode)

			calls := h.rpc.recorded()
			require.Equal(t, tc.wantCall, calls[len(calls)-1])
		})
	}
}

func TestSpellingNormalLeavesWithoutCommit(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.say("SPELL")
	before := len(h.rpc.recorded())

	out := h.say("NORMAL")
	require.True(t, out.ModeChanged)
	require.Equal(t, fsm.ModeNormal, out.State.Mode)
	require.Len(t, h.rpc.recorded(), before)
}

func TestSpellingDiagnosticsAndBufferBound(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.say("SPELL")

	out := h.say("ONE TWO THREE FOUR FIVE SIX SEVEN EIGHT NINE WHATEVER")
	require.Equal(t, "12345678", out.Text)
	require.Len(t, out.Spelling, 2)
	require.Equal(t, "NINE", out.Spelling[0].Word)
	require.Equal(t, "WHATEVER", out.Spelling[1].Word)
}

func TestSpellUnsupportedOnEden(t *testing.T) {
	h := newHarness(t, command.VersionEden, false)

	out := h.say("SPELL")
	require.False(t, out.ModeChanged)
	require.Equal(t, fsm.ModeNormal, out.State.Mode)
	require.Empty(t, h.rpc.recorded())
}

func TestOutcomeSummary(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, true)

	require.Equal(t, "[locked/normal] rejected", h.say("UP").Summary())
	require.Equal(t, "[unlocked/normal] Input.Downx2 !BOGUS", h.say("X_B_M_C DOWN TWO BOGUS").Summary())
	require.Equal(t, `[unlocked/spelling] mode changed text=""`, h.say("SPELL").Summary())
}

func TestProcessAssignsUtteranceIDs(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)

	first := h.say("UP")
	second := h.say("UP")
	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, "UP", first.Utterance)
}

func TestDispatchSurvivesCancelledContext(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	out := h.ctrl.Process(ctx, h.session, "LEFT")
	require.Equal(t, 1, out.Report.Calls)
	require.Zero(t, out.Report.Failures)
}

func TestCancelledContextStillResolvesPlayer(t *testing.T) {
	h := newHarness(t, command.VersionFrodo, false)
	h.rpc.playerID = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := h.ctrl.Process(ctx, h.session, "PAUSE")
	require.Empty(t, out.Diagnostics)
	require.Equal(t, []rpcCall{
		{method: "Player.SetSpeed", params: `"playerid":3,"speed":0`},
	}, h.rpc.recorded())
}

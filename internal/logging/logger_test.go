package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLogPath(t *testing.T) {
	t.Run("xdg state home", func(t *testing.T) {
		stateHome := t.TempDir()
		t.Setenv("XDG_STATE_HOME", stateHome)
		t.Setenv("HOME", t.TempDir())

		path, err := resolveLogPath()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(stateHome, "xbmcvc", "log.jsonl"), path)
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("XDG_STATE_HOME", "")
		t.Setenv("HOME", home)

		path, err := resolveLogPath()
		require.NoError(t, err)
		require.Equal(t, filepath.Join(home, ".local", "state", "xbmcvc", "log.jsonl"), path)
	})
}

func TestNewWritesJSONLinesAndHonorsLevel(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New()
	require.NoError(t, err)

	runtime.Logger.Debug("hidden-at-info")
	require.NoError(t, runtime.SetLevel("debug"))
	runtime.Logger.Debug("utterance", "utterance_id", "abc")
	require.NoError(t, runtime.Close())

	contents, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.NotContains(t, string(contents), "hidden-at-info")
	require.Contains(t, string(contents), `"msg":"utterance"`)
	require.Contains(t, string(contents), `"utterance_id":"abc"`)

	stat, err := os.Stat(runtime.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"":      slog.LevelInfo,
		" warn": slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
	require.Error(t, Runtime{}.SetLevel("verbose"))
}

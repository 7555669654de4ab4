package grammar

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/xbmcvc/internal/fsm"
)

func TestSwitchAppendsModeArgument(t *testing.T) {
	scriptPath := writeArgsCaptureScript(t)
	outputPath := filepath.Join(t.TempDir(), "args.txt")

	s := NewSwitcher([]string{scriptPath, outputPath, "--load"}, nil)
	require.True(t, s.Configured())
	require.NoError(t, s.Switch(context.Background(), fsm.ModeSpelling))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, "--load spelling\n", string(data))
}

func TestSwitchDoesNotMutateConfiguredArgv(t *testing.T) {
	scriptPath := writeArgsCaptureScript(t)
	outputPath := filepath.Join(t.TempDir(), "args.txt")

	argv := make([]string, 2, 8)
	argv[0], argv[1] = scriptPath, outputPath
	s := NewSwitcher(argv, nil)

	require.NoError(t, s.Switch(context.Background(), fsm.ModeSpelling))
	require.NoError(t, s.Switch(context.Background(), fsm.ModeNormal))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	require.Equal(t, "normal\n", string(data))
	require.Len(t, argv, 2)
}

func TestSwitchUnconfiguredIsNoop(t *testing.T) {
	s := NewSwitcher(nil, nil)
	require.False(t, s.Configured())
	require.NoError(t, s.Switch(context.Background(), fsm.ModeNormal))
}

func TestSwitchReportsCommandFailure(t *testing.T) {
	failScript := writeFailScript(t, "no such dictionary")

	err := NewSwitcher([]string{failScript}, nil).Switch(context.Background(), fsm.ModeSpelling)
	require.Error(t, err)
	require.Contains(t, err.Error(), "switch grammar to spelling")
	require.Contains(t, err.Error(), "no such dictionary")
}

func TestRunCommandRejectsEmptyArgv(t *testing.T) {
	err := runCommand(context.Background(), nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "argv cannot be empty")
}

func writeArgsCaptureScript(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "capture-args.sh")
	script := `#!/usr/bin/env bash
set -euo pipefail
out="$1"
shift
echo "$*" > "$out"
`
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeFailScript(t *testing.T, message string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "fail.sh")
	script := "#!/usr/bin/env bash\nset -euo pipefail\necho " + "\"" + message + "\"" + " >&2\nexit 1\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

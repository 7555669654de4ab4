// Package cli parses xbmcvc command-line flags and subcommands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

type Command string

const (
	CommandRun     Command = "run"
	CommandSay     Command = "say"
	CommandStatus  Command = "status"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

var validCommands = map[Command]struct{}{
	CommandRun:     {},
	CommandSay:     {},
	CommandStatus:  {},
	CommandDevices: {},
	CommandDoctor:  {},
	CommandVersion: {},
	CommandHelp:    {},
}

// Parsed is the result of one command line.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	Host     string
	Port     int
	Device   string
	NoLock   bool
	NoNotify bool
	Test     bool

	// Words holds the utterance for `say`.
	Words string
}

// Parse reads flags up to the first positional argument, which names the
// command. Without a command the daemon runs.
func Parse(args []string) (Parsed, error) {
	var (
		parsed      Parsed
		showHelp    bool
		showVersion bool
	)

	fs := pflag.NewFlagSet("xbmcvc", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.StringVarP(&parsed.Host, "host", "H", "", "media center host, or \"auto\" for zeroconf discovery")
	fs.IntVarP(&parsed.Port, "port", "P", 0, "media center JSON-RPC port")
	fs.StringVarP(&parsed.Device, "device", "D", "", "capture device passed to the recognizer")
	fs.BoolVarP(&parsed.NoLock, "no-lock", "l", false, "disable locking/unlocking")
	fs.BoolVarP(&parsed.NoNotify, "no-notify", "n", false, "disable GUI notifications")
	fs.BoolVarP(&parsed.Test, "test", "t", false, "read utterances from stdin until a blank line")
	fs.BoolVarP(&showVersion, "version", "V", false, "show version")
	fs.BoolVarP(&showHelp, "help", "h", false, "show help")
	fs.StringVar(&parsed.ConfigPath, "config", "", "config file path")

	if err := fs.Parse(args); err != nil {
		return Parsed{}, err
	}

	switch {
	case showHelp:
		parsed.Command = CommandHelp
		parsed.ShowHelp = true
		return parsed, nil
	case showVersion:
		parsed.Command = CommandVersion
		return parsed, nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		parsed.Command = CommandRun
		return parsed, nil
	}

	cmd := Command(rest[0])
	if _, ok := validCommands[cmd]; !ok {
		return Parsed{}, fmt.Errorf("unknown command: %s", rest[0])
	}
	parsed.Command = cmd
	parsed.ShowHelp = cmd == CommandHelp

	switch {
	case cmd == CommandSay:
		parsed.Words = strings.TrimSpace(strings.Join(rest[1:], " "))
		if parsed.Words == "" {
			return Parsed{}, fmt.Errorf("say requires at least one word")
		}
	case len(rest) > 1:
		return Parsed{}, fmt.Errorf("unexpected arguments after command %q", rest[0])
	}
	if parsed.Test && cmd != CommandRun {
		return Parsed{}, fmt.Errorf("--test only applies to run")
	}

	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [flags] [command]

Commands:
  run       Listen for voice commands (default)
  say       Send one utterance to the running daemon, e.g. %[1]s say VOLUME FIFTY
  status    Print lock and mode of the running daemon
  devices   List available capture devices
  doctor    Run configuration and environment checks
  version   Print version information
  help      Show this help

Flags:
  -H, --host HOST     Media center host, or "auto" for zeroconf (default: localhost)
  -P, --port PORT     Media center JSON-RPC port (default: 8080)
  -D, --device NAME   Capture device passed to the recognizer
  -l, --no-lock       Disable locking/unlocking
  -n, --no-notify     Disable GUI notifications
  -t, --test          Read utterances from stdin, one per line, until a blank line
  --config PATH       Config file path (default: $XDG_CONFIG_HOME/xbmcvc/config.jsonc)
  -V, --version       Show version
  -h, --help          Show help
`, binaryName)
}

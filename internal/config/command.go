package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// parseCommand turns a recognizer_cmd or grammar_cmd value into argv.
// Words split on whitespace. Single quotes are literal. Double quotes
// honour backslash escapes. Adjacent quoted and bare segments join into
// one word, and "" yields an empty argument. A blank value disables the
// command.
func parseCommand(key, raw string) (CommandConfig, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CommandConfig{}, nil
	}
	if strings.HasPrefix(trimmed, "#") {
		return CommandConfig{}, fmt.Errorf("invalid %s: command is commented out; use an empty value to disable it", key)
	}

	argv, err := splitCommand(trimmed)
	if err != nil {
		return CommandConfig{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	if argv[0] == "" {
		return CommandConfig{}, fmt.Errorf("invalid %s: program name is empty", key)
	}
	return CommandConfig{Raw: raw, Argv: argv}, nil
}

func splitCommand(line string) ([]string, error) {
	var (
		argv    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		quoteAt int
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == '\'':
			if r == '\'' {
				quote = 0
				continue
			}
			word.WriteRune(r)
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				if i+1 == len(runes) {
					return nil, errTrailingBackslash
				}
				i++
				word.WriteRune(runes[i])
			default:
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote, quoteAt, inWord = r, i, true
		case r == '\\':
			if i+1 == len(runes) {
				return nil, errTrailingBackslash
			}
			i++
			word.WriteRune(runes[i])
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				argv = append(argv, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote opened at column %d", quote, quoteAt+1)
	}
	if inWord {
		argv = append(argv, word.String())
	}
	return argv, nil
}

var errTrailingBackslash = errors.New("trailing backslash escapes nothing")

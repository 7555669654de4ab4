// Package command defines the per-version voice command vocabulary.
package command

import (
	"errors"
	"fmt"
	"strings"
)

// Version is the controlled application's JSON-RPC major version.
type Version int

const (
	VersionEden  Version = 11
	VersionFrodo Version = 12
)

var ErrUnsupportedVersion = errors.New("unsupported XBMC version")

func (v Version) String() string {
	switch v {
	case VersionEden:
		return "eden"
	case VersionFrodo:
		return "frodo"
	default:
		return fmt.Sprintf("v%d", int(v))
	}
}

// SupportsTextInput reports whether Input.SendText exists for this version.
func (v Version) SupportsTextInput() bool {
	return v >= VersionFrodo
}

// SupportsNotifications reports whether GUI.ShowNotification exists for this version.
func (v Version) SupportsNotifications() bool {
	return v >= VersionFrodo
}

// Command is one recognized keyword. A command is either method-backed or a
// modifier; never both.
type Command struct {
	Keyword     string
	Method      string
	Params      string
	Argument    *Argument
	Modifier    *Modifier
	NeedsPlayer bool
}

// Argument describes the single word a command may consume after it.
type Argument struct {
	Template string
	Choices  []Choice
	Default  string
	Required bool
}

// Choice maps a spoken argument word to the substituted value.
type Choice struct {
	Keyword string
	Value   string
}

// Modifier multiplies the repeat count of the preceding action.
type Modifier struct {
	Repeat  int
	Applies []string
}

// IsModifier reports whether c repeats another command instead of calling a method.
func (c Command) IsModifier() bool {
	return c.Modifier != nil
}

// Match returns the substitution value for word.
func (a Argument) Match(word string) (string, bool) {
	for _, choice := range a.Choices {
		if choice.Keyword == word {
			return choice.Value, true
		}
	}
	return "", false
}

// Fill substitutes value into the argument template.
func (a Argument) Fill(value string) string {
	return strings.Replace(a.Template, "%s", value, 1)
}

// AppliesTo reports whether the modifier may repeat the command with keyword.
func (m Modifier) AppliesTo(keyword string) bool {
	for _, k := range m.Applies {
		if k == keyword {
			return true
		}
	}
	return false
}

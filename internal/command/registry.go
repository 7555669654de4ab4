package command

import (
	"fmt"
	"sort"
)

// Registry is an immutable keyword lookup table for one application version.
type Registry struct {
	version  Version
	commands map[string]Command
}

type builder func() []Command

var builders = map[Version]builder{
	VersionEden:  edenCommands,
	VersionFrodo: frodoCommands,
}

// NewRegistry builds the command table for v.
func NewRegistry(v Version) (*Registry, error) {
	build, ok := builders[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, int(v))
	}

	commands := make(map[string]Command)
	for _, c := range append(commonCommands(), build()...) {
		if _, exists := commands[c.Keyword]; exists {
			return nil, fmt.Errorf("duplicate command keyword %q", c.Keyword)
		}
		if c.Method == "" && c.Modifier == nil {
			return nil, fmt.Errorf("command %q has neither method nor modifier", c.Keyword)
		}
		if c.Method != "" && c.Modifier != nil {
			return nil, fmt.Errorf("command %q has both method and modifier", c.Keyword)
		}
		commands[c.Keyword] = c
	}

	return &Registry{version: v, commands: commands}, nil
}

// Supported lists the versions a registry can be built for, ascending.
func Supported() []Version {
	out := make([]Version, 0, len(builders))
	for v := range builders {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *Registry) Version() Version {
	return r.version
}

// Lookup returns the command for an exact, case-sensitive keyword.
func (r *Registry) Lookup(keyword string) (Command, bool) {
	c, ok := r.commands[keyword]
	return c, ok
}

// Keywords returns all registered keywords sorted.
func (r *Registry) Keywords() []string {
	out := make([]string, 0, len(r.commands))
	for k := range r.commands {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

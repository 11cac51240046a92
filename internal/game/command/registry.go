package command

import (
	"fmt"
	"sort"
)

// Registry maps verb names and aliases to Command definitions.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: no two commands may share a canonical name or alias.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}
	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q collides with command name %q", alias, alias)
			}
			if prev, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, prev, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}
	return r, nil
}

// DefaultRegistry creates a Registry with every built-in verb.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a verb by name or alias.
//
// Postcondition: returns (command, true) if found, or (nil, false).
func (r *Registry) Resolve(verb string) (*Command, bool) {
	if cmd, ok := r.commands[verb]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[verb]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

// Commands returns all registered verbs sorted by name.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns verbs grouped by category, sorted within each group.
func (r *Registry) ByCategory() map[string][]*Command {
	grouped := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		grouped[cmd.Category] = append(grouped[cmd.Category], cmd)
	}
	return grouped
}

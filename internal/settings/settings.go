// Package settings implements the typed per-guild configuration framework.
// Each logical setting is described by one immutable option descriptor that
// knows how to parse raw user input, mutate the guild's settings map and
// render the current value for display. The descriptors themselves are
// constructed once at startup and hold no mutable state.
package settings

import (
	"fmt"
	"sort"
)

// Settings is one guild's raw option values, keyed by option name. Values
// are JSON-compatible so the map round-trips through the persistence layer
// unchanged. Unknown keys are ignored; missing keys resolve to each option's
// default.
type Settings map[string]any

// Option is the contract every option kind implements. Typed access is
// provided by a Get method on each concrete kind.
type Option interface {
	Name() string

	// Set validates raw user input and stores the parsed value. On failure
	// it returns an *InvalidValueError and leaves the settings untouched.
	Set(s Settings, raw string) error

	// Display renders the current value as a non-empty human-readable string.
	Display(s Settings) string
}

// InvalidValueError reports that raw user input could not be parsed for an
// option. It is an expected outcome of user interaction, not a fault.
type InvalidValueError struct {
	Option string
	Input  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for option %q", e.Input, e.Option)
}

// Registry is the process-wide catalog of option descriptors, read-only
// after construction.
type Registry struct {
	options map[string]Option
}

// NewRegistry builds a registry from the given options. Registering two
// options with the same name is a programming error.
func NewRegistry(options ...Option) *Registry {
	r := &Registry{options: make(map[string]Option, len(options))}
	for _, opt := range options {
		if _, dup := r.options[opt.Name()]; dup {
			panic(fmt.Sprintf("settings: duplicate option %q", opt.Name()))
		}
		r.options[opt.Name()] = opt
	}
	return r
}

// Lookup returns the option registered under name.
func (r *Registry) Lookup(name string) (Option, bool) {
	opt, ok := r.options[name]
	return opt, ok
}

// Names returns all registered option names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.options))
	for name := range r.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

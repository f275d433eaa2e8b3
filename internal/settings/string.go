package settings

import "strings"

// StringOption stores free-form text, such as the welcome message template.
type StringOption struct {
	name string
	def  string
}

// NewString creates a string option with the given name and default.
func NewString(name, def string) *StringOption {
	return &StringOption{name: name, def: def}
}

func (o *StringOption) Name() string {
	return o.name
}

// Get returns the stored value, or the default when unset.
func (o *StringOption) Get(s Settings) string {
	if v, ok := s[o.name].(string); ok {
		return v
	}
	return o.def
}

func (o *StringOption) Set(s Settings, raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &InvalidValueError{Option: o.name, Input: raw}
	}

	s[o.name] = trimmed
	return nil
}

func (o *StringOption) Display(s Settings) string {
	if v := o.Get(s); v != "" {
		return v
	}
	return "not set"
}

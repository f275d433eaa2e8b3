package settings

import "strings"

// BoolOption stores a yes/no flag. Parsing accepts a fixed vocabulary of
// affirmative and negative tokens, including the Russian ones the bot's
// communities use.
type BoolOption struct {
	name string
	def  bool
}

// NewBool creates a boolean option with the given name and default.
func NewBool(name string, def bool) *BoolOption {
	return &BoolOption{name: name, def: def}
}

func (o *BoolOption) Name() string {
	return o.name
}

// Get returns the stored value, or the default when unset.
func (o *BoolOption) Get(s Settings) bool {
	if v, ok := s[o.name].(bool); ok {
		return v
	}
	return o.def
}

func (o *BoolOption) Set(s Settings, raw string) error {
	value, ok := parseBool(raw)
	if !ok {
		return &InvalidValueError{Option: o.name, Input: raw}
	}

	s[o.name] = value
	return nil
}

func (o *BoolOption) Display(s Settings) string {
	if o.Get(s) {
		return "Yes"
	}
	return "No"
}

func parseBool(raw string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "y", "yes", "д", "да":
		return true, true
	case "false", "0", "n", "no", "н", "не", "нет", "нъет":
		return false, true
	default:
		return false, false
	}
}

package settings

import "time"

// DurationOption stores a non-negative duration, serialized in Go's
// duration syntax ("1h30m").
type DurationOption struct {
	name string
	def  time.Duration
}

// NewDuration creates a duration option with the given name and default.
func NewDuration(name string, def time.Duration) *DurationOption {
	return &DurationOption{name: name, def: def}
}

func (o *DurationOption) Name() string {
	return o.name
}

// Get returns the stored value, or the default when unset or unreadable.
func (o *DurationOption) Get(s Settings) time.Duration {
	if v, ok := s[o.name].(string); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return o.def
}

func (o *DurationOption) Set(s Settings, raw string) error {
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return &InvalidValueError{Option: o.name, Input: raw}
	}

	s[o.name] = d.String()
	return nil
}

func (o *DurationOption) Display(s Settings) string {
	if d := o.Get(s); d > 0 {
		return d.String()
	}
	return "not set"
}

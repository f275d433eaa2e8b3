package settings

import (
	"golang.org/x/text/language"
)

// LanguageOption stores a BCP 47 language tag restricted to the languages
// the bot ships responses for.
type LanguageOption struct {
	name      string
	def       language.Tag
	supported []language.Tag
}

// NewLanguage creates a language option. The default must be one of the
// supported tags.
func NewLanguage(name string, def language.Tag, supported ...language.Tag) *LanguageOption {
	return &LanguageOption{name: name, def: def, supported: supported}
}

func (o *LanguageOption) Name() string {
	return o.name
}

// Get returns the stored tag, or the default when unset or unreadable.
func (o *LanguageOption) Get(s Settings) language.Tag {
	if v, ok := s[o.name].(string); ok {
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return o.def
}

func (o *LanguageOption) Set(s Settings, raw string) error {
	tag, err := language.Parse(raw)
	if err != nil {
		return &InvalidValueError{Option: o.name, Input: raw}
	}

	for _, t := range o.supported {
		if tag == t {
			s[o.name] = tag.String()
			return nil
		}
	}

	return &InvalidValueError{Option: o.name, Input: raw}
}

func (o *LanguageOption) Display(s Settings) string {
	return o.Get(s).String()
}

package settings

import "github.com/wardenbot/warden/internal/models"

// SnowflakeOption stores an entity ID (channel or role). IDs are kept as
// decimal strings so the settings map survives JSON round-trips without
// losing 64-bit precision.
type SnowflakeOption struct {
	name    string
	def     models.Snowflake
	mention func(models.Snowflake) string
}

// NewChannel creates a snowflake option displayed as a channel mention.
func NewChannel(name string, def models.Snowflake) *SnowflakeOption {
	return &SnowflakeOption{name: name, def: def, mention: models.Snowflake.MentionChannel}
}

// NewRole creates a snowflake option displayed as a role mention.
func NewRole(name string, def models.Snowflake) *SnowflakeOption {
	return &SnowflakeOption{name: name, def: def, mention: models.Snowflake.MentionRole}
}

func (o *SnowflakeOption) Name() string {
	return o.name
}

// Get returns the stored ID, or the default when unset or unreadable.
func (o *SnowflakeOption) Get(s Settings) models.Snowflake {
	if v, ok := s[o.name].(string); ok {
		if id, err := models.ParseSnowflake(v); err == nil {
			return id
		}
	}
	return o.def
}

func (o *SnowflakeOption) Set(s Settings, raw string) error {
	id, err := models.ParseSnowflake(raw)
	if err != nil {
		return &InvalidValueError{Option: o.name, Input: raw}
	}

	s[o.name] = id.String()
	return nil
}

func (o *SnowflakeOption) Display(s Settings) string {
	id := o.Get(s)
	if id.IsZero() {
		return "not set"
	}
	return o.mention(id)
}

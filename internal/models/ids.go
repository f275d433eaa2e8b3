package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Snowflake is an opaque Discord entity identifier. It is never used
// arithmetically; the zero value means "unset".
type Snowflake uint64

// ErrNotFound reports that an entity does not exist on the platform, as
// opposed to a transport failure while looking it up.
var ErrNotFound = errors.New("entity not found")

// ParseSnowflake parses a decimal ID, optionally wrapped in a Discord
// mention such as <@123>, <@!123>, <#123> or <@&123>.
func ParseSnowflake(s string) (Snowflake, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<") && strings.HasSuffix(trimmed, ">") {
		trimmed = strings.TrimSuffix(strings.TrimPrefix(trimmed, "<"), ">")
		trimmed = strings.TrimLeft(trimmed, "@#!&")
	}

	id, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid snowflake %q: %w", s, err)
	}

	return Snowflake(id), nil
}

// IsZero reports whether the snowflake is unset.
func (s Snowflake) IsZero() bool {
	return s == 0
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// MentionChannel formats the snowflake as a channel mention.
func (s Snowflake) MentionChannel() string {
	return "<#" + s.String() + ">"
}

// MentionUser formats the snowflake as a user mention.
func (s Snowflake) MentionUser() string {
	return "<@" + s.String() + ">"
}

// MentionRole formats the snowflake as a role mention.
func (s Snowflake) MentionRole() string {
	return "<@&" + s.String() + ">"
}

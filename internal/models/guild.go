// Package models defines the domain objects shared across the moderation
// core: identifiers, guilds, roles and members as already resolved from the
// platform by an adapter.
package models

import "time"

// Guild represents a Discord guild (server)
type Guild struct {
	ID      Snowflake
	Name    string
	OwnerID Snowflake
}

// Role carries the two properties relevant to moderation decisions. Position
// totally orders authority within a guild; higher means more senior.
type Role struct {
	ID       Snowflake
	Position int
}

// User is a platform user's display identity.
type User struct {
	ID            Snowflake
	Username      string
	Discriminator string
	AvatarURL     string
}

// Tag returns the classic name#discriminator form, or the plain username for
// accounts migrated off discriminators.
func (u *User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// GuildMember is a user's membership in one guild.
type GuildMember struct {
	UserID  Snowflake
	RoleIDs []Snowflake

	// CommunicationDisabledUntil is the member's current timeout deadline,
	// nil when the member is not timed out.
	CommunicationDisabledUntil *time.Time
}

// HasRole reports whether the member holds the given role.
func (m *GuildMember) HasRole(id Snowflake) bool {
	for _, r := range m.RoleIDs {
		if r == id {
			return true
		}
	}
	return false
}

// MaxRolePosition returns the highest position among the member's roles,
// looked up in the guild's role list. A member with no roles has effective
// position 0.
func MaxRolePosition(member *GuildMember, roles []Role) int {
	max := 0
	first := true
	for _, role := range roles {
		if !member.HasRole(role.ID) {
			continue
		}
		if first || role.Position > max {
			max = role.Position
			first = false
		}
	}
	return max
}

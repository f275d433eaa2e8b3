package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnowflake(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Snowflake
		wantErr bool
	}{
		{"plain id", "123456789012345678", 123456789012345678, false},
		{"user mention", "<@123>", 123, false},
		{"nickname mention", "<@!123>", 123, false},
		{"channel mention", "<#456>", 456, false},
		{"role mention", "<@&789>", 789, false},
		{"surrounding whitespace", "  42  ", 42, false},
		{"empty", "", 0, true},
		{"not a number", "abc", 0, true},
		{"negative", "-5", 0, true},
		{"bare brackets", "<>", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSnowflake(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSnowflake_Mentions(t *testing.T) {
	id := Snowflake(42)

	assert.Equal(t, "42", id.String())
	assert.Equal(t, "<#42>", id.MentionChannel())
	assert.Equal(t, "<@42>", id.MentionUser())
	assert.Equal(t, "<@&42>", id.MentionRole())
	assert.False(t, id.IsZero())
	assert.True(t, Snowflake(0).IsZero())
}

func TestUser_Tag(t *testing.T) {
	withDiscriminator := &User{Username: "alice", Discriminator: "1234"}
	assert.Equal(t, "alice#1234", withDiscriminator.Tag())

	migrated := &User{Username: "bob", Discriminator: "0"}
	assert.Equal(t, "bob", migrated.Tag())

	none := &User{Username: "carol"}
	assert.Equal(t, "carol", none.Tag())
}

func TestMaxRolePosition(t *testing.T) {
	roles := []Role{
		{ID: 1, Position: 5},
		{ID: 2, Position: 10},
		{ID: 3, Position: -3},
	}

	tests := []struct {
		name   string
		member *GuildMember
		want   int
	}{
		{"no roles", &GuildMember{UserID: 100}, 0},
		{"single role", &GuildMember{UserID: 100, RoleIDs: []Snowflake{1}}, 5},
		{"highest of several", &GuildMember{UserID: 100, RoleIDs: []Snowflake{1, 2}}, 10},
		{"negative position only", &GuildMember{UserID: 100, RoleIDs: []Snowflake{3}}, -3},
		{"unknown role ignored", &GuildMember{UserID: 100, RoleIDs: []Snowflake{99}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxRolePosition(tt.member, roles))
		})
	}
}

package testutil

import (
	"fmt"

	"github.com/wardenbot/warden/internal/models"
)

// GenerateUser creates a test user with the given ID.
func GenerateUser(id models.Snowflake) *models.User {
	return &models.User{
		ID:            id,
		Username:      fmt.Sprintf("testuser_%s", id),
		Discriminator: "1234",
		AvatarURL:     "https://cdn.example.com/avatars/" + id.String() + ".png",
	}
}

// GenerateMember creates a test guild member holding the given roles.
func GenerateMember(userID models.Snowflake, roleIDs ...models.Snowflake) *models.GuildMember {
	return &models.GuildMember{
		UserID:  userID,
		RoleIDs: roleIDs,
	}
}

// GenerateGuild creates a test guild owned by ownerID.
func GenerateGuild(id, ownerID models.Snowflake) *models.Guild {
	return &models.Guild{
		ID:      id,
		Name:    fmt.Sprintf("Test Guild %s", id),
		OwnerID: ownerID,
	}
}

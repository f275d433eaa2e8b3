// Package platform adapts a discordgo session to the collaborator
// interfaces the moderation core consumes: identity resolution, member
// mutation and audit record dispatch. All REST errors pass through
// uninterpreted except "unknown entity" responses, which map to
// models.ErrNotFound so callers can tell an absent member from a transport
// failure.
package platform

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/models"
)

// Discord implements the moderation collaborators over a discordgo session.
type Discord struct {
	session *discordgo.Session
	logger  *zap.Logger
}

// NewDiscord creates the adapter.
func NewDiscord(session *discordgo.Session, logger *zap.Logger) *Discord {
	return &Discord{session: session, logger: logger}
}

// Guild resolves a guild's moderation-relevant fields.
func (d *Discord) Guild(ctx context.Context, guildID models.Snowflake) (*models.Guild, error) {
	guild, err := d.session.Guild(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("fetch guild %s: %w", guildID, err))
	}

	ownerID, err := models.ParseSnowflake(guild.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("guild %s owner id: %w", guildID, err)
	}

	return &models.Guild{ID: guildID, Name: guild.Name, OwnerID: ownerID}, nil
}

// Roles resolves a guild's role list.
func (d *Discord) Roles(ctx context.Context, guildID models.Snowflake) ([]models.Role, error) {
	roles, err := d.session.GuildRoles(guildID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("fetch roles for guild %s: %w", guildID, err))
	}

	out := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		id, err := models.ParseSnowflake(role.ID)
		if err != nil {
			return nil, fmt.Errorf("role id in guild %s: %w", guildID, err)
		}
		out = append(out, models.Role{ID: id, Position: role.Position})
	}

	return out, nil
}

// Member resolves one user's membership in a guild.
func (d *Discord) Member(ctx context.Context, guildID, userID models.Snowflake) (*models.GuildMember, error) {
	member, err := d.session.GuildMember(guildID.String(), userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("fetch member %s in guild %s: %w", userID, guildID, err))
	}

	roleIDs := make([]models.Snowflake, 0, len(member.Roles))
	for _, raw := range member.Roles {
		id, err := models.ParseSnowflake(raw)
		if err != nil {
			return nil, fmt.Errorf("member %s role id: %w", userID, err)
		}
		roleIDs = append(roleIDs, id)
	}

	return &models.GuildMember{
		UserID:                     userID,
		RoleIDs:                    roleIDs,
		CommunicationDisabledUntil: member.CommunicationDisabledUntil,
	}, nil
}

// User resolves a user's display identity.
func (d *Discord) User(ctx context.Context, userID models.Snowflake) (*models.User, error) {
	user, err := d.session.User(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("fetch user %s: %w", userID, err))
	}
	return convertUser(user)
}

// BotUser resolves the bot's own identity.
func (d *Discord) BotUser(ctx context.Context) (*models.User, error) {
	user, err := d.session.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("fetch bot user: %w", err)
	}
	return convertUser(user)
}

// SetSuppression sets or clears the member's communication timeout. The
// reason lands in the guild's audit log.
func (d *Discord) SetSuppression(ctx context.Context, guildID, userID models.Snowflake, until *time.Time, reason string) error {
	err := d.session.GuildMemberTimeout(guildID.String(), userID.String(), until,
		discordgo.WithContext(ctx), discordgo.WithAuditLogReason(reason))
	if err != nil {
		return wrapNotFound(fmt.Errorf("set timeout for member %s in guild %s: %w", userID, guildID, err))
	}
	return nil
}

// SendRecord delivers an audit record as an embed.
func (d *Discord) SendRecord(ctx context.Context, channelID models.Snowflake, record *audit.Record) error {
	embed := &discordgo.MessageEmbed{
		Description: record.Description,
		Color:       record.Color,
		Timestamp:   record.Timestamp.Format(time.RFC3339),
		Author: &discordgo.MessageEmbedAuthor{
			Name:    record.Title,
			IconURL: record.Subject.AvatarURL,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text:    "By " + record.Actor.Tag(),
			IconURL: record.Actor.AvatarURL,
		},
	}

	_, err := d.session.ChannelMessageSendEmbed(channelID.String(), embed, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send audit record to channel %s: %w", channelID, err)
	}
	return nil
}

func convertUser(user *discordgo.User) (*models.User, error) {
	id, err := models.ParseSnowflake(user.ID)
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}

	return &models.User{
		ID:            id,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		AvatarURL:     user.AvatarURL(""),
	}, nil
}

// wrapNotFound folds the platform's "unknown entity" REST errors into
// models.ErrNotFound while keeping the original error in the chain.
func wrapNotFound(err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownUser, discordgo.ErrCodeUnknownMember,
			discordgo.ErrCodeUnknownGuild, discordgo.ErrCodeUnknownChannel:
			return fmt.Errorf("%w: %w", models.ErrNotFound, err)
		}
	}
	return err
}

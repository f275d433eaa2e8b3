package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
)

const defaultWelcomeMessage = "%s, welcome to %s!"

// onMemberJoin returns remembered roles when the guild opted in and sends
// the configured welcome message.
func (h *Handler) onMemberJoin(session *discordgo.Session, event *discordgo.GuildMemberAdd) {
	if event.User == nil {
		return
	}

	ctx := context.Background()
	log := h.logger.With(
		zap.String("guild_id", event.GuildID),
		zap.String("user_id", event.User.ID),
	)

	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return
	}

	cfg, err := h.guilds.Settings(ctx, guildID)
	if err != nil {
		log.Warn("failed to load settings on member join", zap.Error(err))
		return
	}

	if settings.ReturnRolesOnRejoin.Get(cfg) {
		if err := h.returnRoles(ctx, session, event); err != nil {
			log.Warn("failed to return roles", zap.Error(err))
		}
	}

	welcome := settings.WelcomeMessage.Get(cfg)
	channel := settings.PublicFeedbackChannel.Get(cfg)
	if channel.IsZero() || welcome == "off" || welcome == "disable" || welcome == "disabled" {
		return
	}
	if welcome == "default" || welcome == "reset" {
		welcome = defaultWelcomeMessage
	}

	guild, err := session.Guild(event.GuildID)
	if err != nil {
		log.Warn("failed to fetch guild for welcome message", zap.Error(err))
		return
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    fmt.Sprintf(welcome, event.User.Username, guild.Name),
			IconURL: event.User.AvatarURL(""),
		},
		Color: audit.ColorGreen,
	}

	if _, err := session.ChannelMessageSendEmbed(channel.String(), embed); err != nil {
		log.Warn("failed to send welcome message", zap.Error(err))
	}
}

// returnRoles reapplies the roles stored when the member last left.
func (h *Handler) returnRoles(ctx context.Context, session *discordgo.Session, event *discordgo.GuildMemberAdd) error {
	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return err
	}
	userID, err := models.ParseSnowflake(event.User.ID)
	if err != nil {
		return err
	}

	roleIDs, err := h.members.LoadMemberRoles(ctx, guildID, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(roleIDs) == 0 {
		return nil
	}

	roles := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		roles[i] = id.String()
	}

	_, err = session.GuildMemberEdit(event.GuildID, event.User.ID,
		&discordgo.GuildMemberParams{Roles: &roles}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("reapply roles: %w", err)
	}
	return nil
}

// onMemberRemove remembers the member's roles for a later rejoin.
func (h *Handler) onMemberRemove(_ *discordgo.Session, event *discordgo.GuildMemberRemove) {
	if event.User == nil {
		return
	}

	ctx := context.Background()

	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return
	}
	userID, err := models.ParseSnowflake(event.User.ID)
	if err != nil {
		return
	}

	roleIDs := make([]models.Snowflake, 0, len(event.Roles))
	for _, raw := range event.Roles {
		id, err := models.ParseSnowflake(raw)
		if err != nil {
			continue
		}
		roleIDs = append(roleIDs, id)
	}

	if err := h.members.SaveMemberRoles(ctx, guildID, userID, roleIDs); err != nil {
		h.logger.Warn("failed to save member roles",
			zap.String("guild_id", event.GuildID),
			zap.String("user_id", event.User.ID),
			zap.Error(err),
		)
	}
}

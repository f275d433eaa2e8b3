package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
)

// onEventCreate announces a newly scheduled event in the public feedback
// channel, pinging the configured notification role.
func (h *Handler) onEventCreate(session *discordgo.Session, event *discordgo.GuildScheduledEventCreate) {
	ctx := context.Background()

	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return
	}

	cfg, err := h.guilds.Settings(ctx, guildID)
	if err != nil {
		h.logger.Warn("failed to load settings on event create",
			zap.String("guild_id", event.GuildID), zap.Error(err))
		return
	}

	channel, message, ok := eventNotification(cfg, event.GuildScheduledEvent)
	if !ok {
		return
	}

	if _, err := session.ChannelMessageSendComplex(channel.String(), message, discordgo.WithContext(ctx)); err != nil {
		h.logger.Warn("failed to send event notification",
			zap.String("guild_id", event.GuildID),
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}

// eventNotification builds the announcement for a scheduled event. The role
// mention travels in the message content, since embed text never pings.
// Returns false when the guild has no public feedback channel configured.
func eventNotification(cfg settings.Settings, event *discordgo.GuildScheduledEvent) (models.Snowflake, *discordgo.MessageSend, bool) {
	channel := settings.PublicFeedbackChannel.Get(cfg)
	if channel.IsZero() {
		return 0, nil, false
	}

	var content string
	if role := settings.EventNotificationRole.Get(cfg); !role.IsZero() {
		content = role.MentionRole()
	}

	embed := &discordgo.MessageEmbed{
		Author:      &discordgo.MessageEmbedAuthor{Name: event.Name},
		Description: fmt.Sprintf("Starts at <t:%d:f>", event.ScheduledStartTime.Unix()),
		Color:       audit.ColorYellow,
	}
	if event.Description != "" {
		embed.Description = event.Description + "\n" + embed.Description
	}

	return channel, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}, true
}

// Package bot wires discordgo gateway events to the moderation core. It is
// deliberately thin: command handlers parse interaction input, call the
// pipeline or the guild data service, and let a responder render the
// outcome.
package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/guilds"
	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/settings"
)

// Handler owns the bot's gateway event handlers.
type Handler struct {
	pipeline *moderation.Pipeline
	guilds   *guilds.DataService
	members  MemberStore
	registry *settings.Registry
	logger   *zap.Logger
}

// MemberStore remembers the roles of members who leave so they can be
// returned on rejoin.
type MemberStore interface {
	SaveMemberRoles(ctx context.Context, guildID, userID models.Snowflake, roleIDs []models.Snowflake) error
	LoadMemberRoles(ctx context.Context, guildID, userID models.Snowflake) ([]models.Snowflake, error)
}

// New creates the bot handler set.
func New(pipeline *moderation.Pipeline, guildData *guilds.DataService, members MemberStore,
	registry *settings.Registry, logger *zap.Logger) *Handler {
	return &Handler{
		pipeline: pipeline,
		guilds:   guildData,
		members:  members,
		registry: registry,
		logger:   logger,
	}
}

// Register attaches all gateway handlers to the session. Call before Open.
func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onReady)
	session.AddHandler(h.onInteraction)
	session.AddHandler(h.onMemberJoin)
	session.AddHandler(h.onMemberRemove)
	session.AddHandler(h.onEventCreate)
}

// RegisterCommands upserts the bot's application commands. Call after Open,
// once the session knows its own application ID.
func (h *Handler) RegisterCommands(session *discordgo.Session) error {
	if session.State.User == nil {
		return fmt.Errorf("session is not ready, cannot register commands")
	}

	_, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, "", commands)
	if err != nil {
		return fmt.Errorf("register application commands: %w", err)
	}

	h.logger.Info("application commands registered", zap.Int("count", len(commands)))
	return nil
}

// onReady sends the optional startup notice to each guild that asked for
// one.
func (h *Handler) onReady(session *discordgo.Session, ready *discordgo.Ready) {
	ctx := context.Background()

	for _, guild := range ready.Guilds {
		guildID, err := models.ParseSnowflake(guild.ID)
		if err != nil {
			continue
		}

		cfg, err := h.guilds.Settings(ctx, guildID)
		if err != nil {
			h.logger.Warn("failed to load settings on ready",
				zap.String("guild_id", guild.ID), zap.Error(err))
			continue
		}

		if !settings.ReceiveStartupMessages.Get(cfg) {
			continue
		}

		channel := settings.PrivateFeedbackChannel.Get(cfg)
		if channel.IsZero() {
			continue
		}

		embed := &discordgo.MessageEmbed{
			Author: &discordgo.MessageEmbedAuthor{Name: "The bot is up and running."},
			Color:  audit.ColorBlue,
		}
		if _, err := session.ChannelMessageSendEmbed(channel.String(), embed); err != nil {
			h.logger.Warn("failed to send startup notice",
				zap.String("guild_id", guild.ID), zap.Error(err))
		}
	}

	h.logger.Info("gateway session ready", zap.Int("guilds", len(ready.Guilds)))
}

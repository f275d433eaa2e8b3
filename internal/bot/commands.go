package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/moderation"
	"github.com/wardenbot/warden/internal/settings"
)

var (
	moderateMembers = int64(discordgo.PermissionModerateMembers)
	dmDisabled      = false
)

var commands = []*discordgo.ApplicationCommand{
	{
		Name:                     "mute",
		Description:              "Mute a member",
		DefaultMemberPermissions: &moderateMembers,
		DMPermission:             &dmDisabled,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "target",
				Description: "Member to mute",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Mute reason",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "duration",
				Description: "Mute duration, e.g. 2h30m (omit for an indefinite mute)",
				Required:    false,
			},
		},
	},
	{
		Name:                     "unmute",
		Description:              "Unmute a member",
		DefaultMemberPermissions: &moderateMembers,
		DMPermission:             &dmDisabled,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "target",
				Description: "Member to unmute",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "reason",
				Description: "Unmute reason",
				Required:    true,
			},
		},
	},
	{
		Name:                     "settings",
		Description:              "Inspect or change the bot's settings for this server",
		DefaultMemberPermissions: &moderateMembers,
		DMPermission:             &dmDisabled,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List all settings and their current values",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "view",
				Description: "Show the current value of one setting",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Setting name",
						Required:    true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "edit",
				Description: "Change one setting",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "name",
						Description: "Setting name",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "value",
						Description: "New value",
						Required:    true,
					},
				},
			},
		},
	},
}

// onInteraction routes application command invocations.
func (h *Handler) onInteraction(session *discordgo.Session, event *discordgo.InteractionCreate) {
	if event.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx := context.Background()
	data := event.ApplicationCommandData()
	responder := newInteractionResponder(session, event.Interaction)

	var err error
	switch data.Name {
	case "mute":
		err = h.handleMute(ctx, event, data, responder)
	case "unmute":
		err = h.handleUnmute(ctx, event, data, responder)
	case "settings":
		err = h.handleSettings(ctx, event, data, responder)
	default:
		return
	}

	if err != nil {
		// Hard error: never leak detail to the channel
		h.logger.Error("command failed",
			zap.String("command", data.Name),
			zap.String("guild_id", event.GuildID),
			zap.Error(err),
		)
		if respondErr := responder.Failure(ctx, "Something went wrong while executing the command.", nil); respondErr != nil {
			h.logger.Warn("failed to send error response", zap.Error(respondErr))
		}
	}
}

func (h *Handler) handleMute(ctx context.Context, event *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData, responder moderation.Responder) error {

	req, err := h.moderationRequest(event, data)
	if err != nil {
		return err
	}

	length, err := h.muteLength(ctx, req.GuildID, optionValue(data.Options, "duration"), responder)
	if err != nil || length == nil {
		return err
	}

	return h.pipeline.Mute(ctx, *req, responder, *length)
}

func (h *Handler) handleUnmute(ctx context.Context, event *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData, responder moderation.Responder) error {

	req, err := h.moderationRequest(event, data)
	if err != nil {
		return err
	}

	return h.pipeline.Unmute(ctx, *req, responder)
}

// moderationRequest extracts the ids and reason shared by mute and unmute.
func (h *Handler) moderationRequest(event *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData) (*moderation.Request, error) {

	if event.Member == nil || event.Member.User == nil {
		return nil, fmt.Errorf("interaction has no guild member")
	}

	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return nil, fmt.Errorf("interaction guild id: %w", err)
	}

	channelID, err := models.ParseSnowflake(event.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("interaction channel id: %w", err)
	}

	actorID, err := models.ParseSnowflake(event.Member.User.ID)
	if err != nil {
		return nil, fmt.Errorf("interaction actor id: %w", err)
	}

	targetRaw := optionValue(data.Options, "target")
	targetID, err := models.ParseSnowflake(targetRaw)
	if err != nil {
		return nil, fmt.Errorf("target option: %w", err)
	}

	return &moderation.Request{
		GuildID:   guildID,
		ChannelID: channelID,
		ActorID:   actorID,
		TargetID:  targetID,
		Reason:    optionValue(data.Options, "reason"),
	}, nil
}

// muteLength resolves the duration option, falling back to the guild's
// default-mute-duration setting and finally to an indefinite mute. A nil
// length with a nil error means the input was invalid and has already been
// answered.
func (h *Handler) muteLength(ctx context.Context, guildID models.Snowflake, raw string,
	responder moderation.Responder) (*moderation.MuteLength, error) {

	if raw == "" {
		cfg, err := h.guilds.Settings(ctx, guildID)
		if err != nil {
			return nil, err
		}
		if d := settings.DefaultMuteDuration.Get(cfg); d > 0 {
			length := moderation.Timed(d)
			return &length, nil
		}
		length := moderation.Forever()
		return &length, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		// Expected user input mistake, not a fault
		return nil, responder.Failure(ctx, fmt.Sprintf("Invalid duration %q.", raw), nil)
	}

	length := moderation.Timed(d)
	return &length, nil
}

func (h *Handler) handleSettings(ctx context.Context, event *discordgo.InteractionCreate,
	data discordgo.ApplicationCommandInteractionData, responder moderation.Responder) error {

	guildID, err := models.ParseSnowflake(event.GuildID)
	if err != nil {
		return fmt.Errorf("interaction guild id: %w", err)
	}

	if len(data.Options) == 0 {
		return fmt.Errorf("settings command without subcommand")
	}
	sub := data.Options[0]

	switch sub.Name {
	case "list":
		var lines []string
		for _, name := range h.registry.Names() {
			opt, _ := h.registry.Lookup(name)
			display, err := h.guilds.Display(ctx, guildID, opt)
			if err != nil {
				return err
			}
			lines = append(lines, fmt.Sprintf("%s: %s", name, display))
		}
		return responder.Success(ctx, strings.Join(lines, "\n"), nil)

	case "view":
		name := optionValue(sub.Options, "name")
		opt, ok := h.registry.Lookup(name)
		if !ok {
			return responder.Failure(ctx, fmt.Sprintf("Unknown setting %q.", name), nil)
		}

		display, err := h.guilds.Display(ctx, guildID, opt)
		if err != nil {
			return err
		}
		return responder.Success(ctx, fmt.Sprintf("%s: %s", name, display), nil)

	case "edit":
		name := optionValue(sub.Options, "name")
		value := optionValue(sub.Options, "value")

		opt, ok := h.registry.Lookup(name)
		if !ok {
			return responder.Failure(ctx, fmt.Sprintf("Unknown setting %q.", name), nil)
		}

		err := h.guilds.SetOption(ctx, guildID, opt, value)
		var invalid *settings.InvalidValueError
		if errors.As(err, &invalid) {
			return responder.Failure(ctx, fmt.Sprintf("Invalid value %q for setting %q.", value, name), nil)
		}
		if err != nil {
			return err
		}

		display, err := h.guilds.Display(ctx, guildID, opt)
		if err != nil {
			return err
		}
		return responder.Success(ctx, fmt.Sprintf("%s is now %s", name, display), nil)

	default:
		return fmt.Errorf("unknown settings subcommand %q", sub.Name)
	}
}

// optionValue returns the string form of a named option, or "" when absent.
func optionValue(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			if s, ok := opt.Value.(string); ok {
				return s
			}
		}
	}
	return ""
}

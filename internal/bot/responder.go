package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/models"
)

// interactionResponder renders moderation outcomes as interaction replies.
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func newInteractionResponder(session *discordgo.Session, interaction *discordgo.Interaction) *interactionResponder {
	return &interactionResponder{session: session, interaction: interaction}
}

// Success replies with a green-accented embed.
func (r *interactionResponder) Success(ctx context.Context, message string, subject *models.User) error {
	return r.respond(ctx, message, subject, audit.ColorGreen)
}

// Failure replies with a red-accented embed.
func (r *interactionResponder) Failure(ctx context.Context, message string, subject *models.User) error {
	return r.respond(ctx, message, subject, audit.ColorRed)
}

func (r *interactionResponder) respond(ctx context.Context, message string, subject *models.User, color int) error {
	embed := &discordgo.MessageEmbed{Color: color}
	author := &discordgo.MessageEmbedAuthor{Name: message}
	if subject != nil {
		author.IconURL = subject.AvatarURL
	}
	embed.Author = author

	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("respond to interaction: %w", err)
	}
	return nil
}

// Package moderation orchestrates mute and unmute actions: it resolves the
// parties involved, runs the permission hierarchy check, applies the member
// mutation through the platform adapter, fans out an audit record and
// responds to the invoker. Permission refusals and unknown targets are
// expected outcomes that produce a user-facing response and a nil error;
// only backend failures propagate.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/hierarchy"
	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/profiler"
	"github.com/wardenbot/warden/internal/settings"
)

// maxSuppression is the longest communication timeout the platform accepts.
// An indefinite mute is applied as this window; the expiry scheduler renews
// it if the mute is still in force.
const maxSuppression = 28 * 24 * time.Hour

// MuteLength is the requested length of a mute: either a concrete duration
// or indefinite. Using a variant keeps negative-duration sentinels out of
// the API.
type MuteLength struct {
	Duration   time.Duration
	Indefinite bool
}

// Timed returns a mute length expiring after d.
func Timed(d time.Duration) MuteLength {
	return MuteLength{Duration: d}
}

// Forever returns an indefinite mute length.
func Forever() MuteLength {
	return MuteLength{Indefinite: true}
}

// IdentitySource resolves guild, role and member data from the platform.
// Member and User return models.ErrNotFound (possibly wrapped) when the
// entity does not exist, distinct from transport failures.
type IdentitySource interface {
	Guild(ctx context.Context, guildID models.Snowflake) (*models.Guild, error)
	Roles(ctx context.Context, guildID models.Snowflake) ([]models.Role, error)
	Member(ctx context.Context, guildID, userID models.Snowflake) (*models.GuildMember, error)
	User(ctx context.Context, userID models.Snowflake) (*models.User, error)
	BotUser(ctx context.Context) (*models.User, error)
}

// MemberMutator applies the communication-suppression deadline on a member.
// A nil until clears it. Failures are passed through uninterpreted; retries
// belong to the transport layer.
type MemberMutator interface {
	SetSuppression(ctx context.Context, guildID, userID models.Snowflake, until *time.Time, reason string) error
}

// Responder delivers the user-facing outcome of one invocation. The subject
// user's avatar accompanies the message.
type Responder interface {
	Success(ctx context.Context, message string, subject *models.User) error
	Failure(ctx context.Context, message string, subject *models.User) error
}

// SettingsSource supplies a guild's settings map.
type SettingsSource interface {
	Settings(ctx context.Context, guildID models.Snowflake) (settings.Settings, error)
}

// Request identifies one moderation invocation.
type Request struct {
	GuildID   models.Snowflake
	ChannelID models.Snowflake
	ActorID   models.Snowflake
	TargetID  models.Snowflake
	Reason    string
}

// Pipeline wires the moderation collaborators together.
type Pipeline struct {
	ids      IdentitySource
	mutator  MemberMutator
	cfg      SettingsSource
	audit    *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
	newTrace func() string
}

// NewPipeline creates a moderation pipeline.
func NewPipeline(ids IdentitySource, mutator MemberMutator, cfg SettingsSource,
	auditLogger *audit.Logger, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		ids:      ids,
		mutator:  mutator,
		cfg:      cfg,
		audit:    auditLogger,
		logger:   logger,
		now:      time.Now,
		newTrace: uuid.NewString,
	}
}

// Mute times the target out for the requested length. A denied permission
// check or an unknown target responds to the invoker and returns nil; only
// backend failures return an error.
func (p *Pipeline) Mute(ctx context.Context, req Request, responder Responder, length MuteLength) error {
	prof := profiler.New(p.logger)
	prof.Push("mute")
	return prof.ReportWithResult(p.run(ctx, prof, req, responder, "mute", &length))
}

// Unmute clears the target's timeout. Shape mirrors Mute.
func (p *Pipeline) Unmute(ctx context.Context, req Request, responder Responder) error {
	prof := profiler.New(p.logger)
	prof.Push("unmute")
	return prof.ReportWithResult(p.run(ctx, prof, req, responder, "unmute", nil))
}

// run executes the shared pipeline. A non-nil length mutes, nil unmutes.
func (p *Pipeline) run(ctx context.Context, prof *profiler.Profiler, req Request,
	responder Responder, action string, length *MuteLength) error {

	log := p.logger.With(
		zap.String("action", action),
		zap.String("trace_id", p.newTrace()),
		zap.String("guild_id", req.GuildID.String()),
		zap.String("actor_id", req.ActorID.String()),
		zap.String("target_id", req.TargetID.String()),
	)

	prof.Push("resolve")
	bot, err := p.ids.BotUser(ctx)
	if err != nil {
		return fmt.Errorf("resolve bot user: %w", err)
	}

	actor, err := p.ids.User(ctx, req.ActorID)
	if err != nil {
		return fmt.Errorf("resolve actor: %w", err)
	}

	cfg, err := p.cfg.Settings(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("load guild settings: %w", err)
	}

	targetMember, err := p.ids.Member(ctx, req.GuildID, req.TargetID)
	if errors.Is(err, models.ErrNotFound) {
		// Expected input condition: the invoker picked someone who already
		// left, not a system fault.
		log.Info("target is not a member of the guild")
		return responder.Failure(ctx, "User not found.", bot)
	}
	if err != nil {
		return fmt.Errorf("resolve target member: %w", err)
	}

	target, err := p.ids.User(ctx, req.TargetID)
	if err != nil {
		return fmt.Errorf("resolve target user: %w", err)
	}

	guild, err := p.ids.Guild(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("resolve guild: %w", err)
	}

	roles, err := p.ids.Roles(ctx, req.GuildID)
	if err != nil {
		return fmt.Errorf("resolve roles: %w", err)
	}

	actorMember, err := p.ids.Member(ctx, req.GuildID, req.ActorID)
	if err != nil {
		return fmt.Errorf("resolve actor member: %w", err)
	}

	botMember, err := p.ids.Member(ctx, req.GuildID, bot.ID)
	if err != nil {
		return fmt.Errorf("resolve bot member: %w", err)
	}
	prof.Pop()

	prof.Push("check")
	verdict, err := hierarchy.CheckInteraction(action, hierarchy.Input{
		Guild:  guild,
		Roles:  roles,
		Bot:    botMember,
		Actor:  actorMember,
		Target: targetMember,
	})
	if err != nil {
		return fmt.Errorf("permission check: %w", err)
	}
	if verdict.Denied {
		log.Info("permission check denied the action", zap.String("reason", verdict.Reason))
		return responder.Failure(ctx, verdict.Reason, bot)
	}
	prof.Pop()

	prof.Push("apply")
	var until *time.Time
	if length != nil {
		deadline := p.until(*length)
		until = &deadline
	}

	taggedReason := fmt.Sprintf("(%s) %s", actor.Tag(), req.Reason)
	if err := p.mutator.SetSuppression(ctx, req.GuildID, req.TargetID, until, taggedReason); err != nil {
		return fmt.Errorf("apply %s: %w", action, err)
	}
	prof.Pop()

	prof.Push("log")
	title, description, color := describe(action, target, req.Reason, length, until)
	p.audit.LogAction(ctx, cfg, req.ChannelID, actor, title, description, target, color, true)
	prof.Pop()

	prof.Push("respond")
	err = responder.Success(ctx, title, target)
	prof.Pop()
	if err != nil {
		return fmt.Errorf("respond: %w", err)
	}

	log.Info("moderation action applied")
	return nil
}

// until computes the suppression deadline, always in the future.
func (p *Pipeline) until(length MuteLength) time.Time {
	if length.Indefinite {
		return p.now().Add(maxSuppression)
	}
	return p.now().Add(length.Duration)
}

func describe(action string, target *models.User, reason string, length *MuteLength, until *time.Time) (title, description string, color int) {
	switch action {
	case "mute":
		title = fmt.Sprintf("%s was muted", target.Tag())
		if length != nil && length.Indefinite {
			description = fmt.Sprintf("Reason: %s\nDoes not expire automatically", reason)
		} else {
			description = fmt.Sprintf("Reason: %s\nExpires: <t:%d:f>", reason, until.Unix())
		}
		color = audit.ColorRed
	default:
		title = fmt.Sprintf("%s was unmuted", target.Tag())
		description = fmt.Sprintf("Reason: %s", reason)
		color = audit.ColorGreen
	}
	return title, description, color
}

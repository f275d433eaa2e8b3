// Package hierarchy implements the permission decision engine for
// member-on-member moderation actions. The check is a pure function over
// already-resolved guild data; callers fetch everything up front so a
// refusal can always be told apart from a lookup failure.
package hierarchy

import (
	"fmt"

	"github.com/wardenbot/warden/internal/models"
)

// Verdict is the outcome of a permission check. A denied verdict carries a
// user-displayable reason; it is an expected branch, not an error.
type Verdict struct {
	Denied bool
	Reason string
}

// Allow returns an allowing verdict.
func Allow() Verdict {
	return Verdict{}
}

// Deny returns a denying verdict with the given user-facing reason.
func Deny(reason string) Verdict {
	return Verdict{Denied: true, Reason: reason}
}

// Input carries the resolved data a check needs. All fields are required.
type Input struct {
	Guild  *models.Guild
	Roles  []models.Role
	Bot    *models.GuildMember
	Actor  *models.GuildMember
	Target *models.GuildMember
}

// CheckInteraction decides whether the actor may perform a moderation action
// against the target. Rules are evaluated in order, first match wins:
// self-targeting, targeting the bot and targeting the guild owner are always
// refused; then both the bot and the actor must outrank the target's highest
// role, where an equal position is not enough. The guild owner bypasses the
// actor seniority rule. The action verb is only used to word deny reasons.
//
// An error is returned only when the input is incomplete; it aborts the
// whole operation and must never be shown to the user as a refusal.
func CheckInteraction(action string, in Input) (Verdict, error) {
	if in.Guild == nil || in.Bot == nil || in.Actor == nil || in.Target == nil {
		return Verdict{}, fmt.Errorf("hierarchy: incomplete input for %q check", action)
	}

	if in.Actor.UserID == in.Target.UserID {
		return Deny(fmt.Sprintf("You cannot %s yourself.", action)), nil
	}

	if in.Target.UserID == in.Bot.UserID {
		return Deny(fmt.Sprintf("You cannot %s the bot.", action)), nil
	}

	if in.Target.UserID == in.Guild.OwnerID {
		return Deny(fmt.Sprintf("You cannot %s the owner of this server.", action)), nil
	}

	targetPos := models.MaxRolePosition(in.Target, in.Roles)
	botPos := models.MaxRolePosition(in.Bot, in.Roles)
	if targetPos >= botPos {
		return Deny(fmt.Sprintf("The bot's highest role is not above the target's, so it cannot %s them.", action)), nil
	}

	// The owner outranks everyone regardless of roles.
	if in.Actor.UserID == in.Guild.OwnerID {
		return Allow(), nil
	}

	actorPos := models.MaxRolePosition(in.Actor, in.Roles)
	if targetPos >= actorPos {
		return Deny(fmt.Sprintf("Your highest role is not above the target's, so you cannot %s them.", action)), nil
	}

	return Allow(), nil
}

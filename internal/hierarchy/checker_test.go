package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/testutil"
)

const (
	ownerID  = models.Snowflake(1)
	botID    = models.Snowflake(2)
	actorID  = models.Snowflake(3)
	targetID = models.Snowflake(4)
)

// input builds a check where the bot outranks everyone and the actor
// outranks the target, i.e. an allowed baseline that single-rule tests
// perturb.
func input() Input {
	return Input{
		Guild: testutil.GenerateGuild(100, ownerID),
		Roles: []models.Role{
			{ID: 10, Position: 100}, // bot role
			{ID: 11, Position: 50},  // actor role
			{ID: 12, Position: 10},  // target role
		},
		Bot:    testutil.GenerateMember(botID, 10),
		Actor:  testutil.GenerateMember(actorID, 11),
		Target: testutil.GenerateMember(targetID, 12),
	}
}

func TestCheckInteraction_Allows(t *testing.T) {
	verdict, err := CheckInteraction("mute", input())

	require.NoError(t, err)
	assert.False(t, verdict.Denied)
	assert.Empty(t, verdict.Reason)
}

func TestCheckInteraction_DeniesSelf(t *testing.T) {
	in := input()
	in.Target = testutil.GenerateMember(actorID, 12)

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.True(t, verdict.Denied)
	assert.Contains(t, verdict.Reason, "yourself")
}

func TestCheckInteraction_DeniesBotTarget(t *testing.T) {
	in := input()
	in.Target = testutil.GenerateMember(botID, 10)

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.True(t, verdict.Denied)
	assert.Contains(t, verdict.Reason, "bot")
}

func TestCheckInteraction_DeniesOwnerTarget(t *testing.T) {
	in := input()
	in.Target = testutil.GenerateMember(ownerID, 12)

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.True(t, verdict.Denied)
	assert.Contains(t, verdict.Reason, "owner")

	// Even the owner cannot act on themselves: self wins over owner rule
	in.Actor = testutil.GenerateMember(ownerID, 11)
	verdict, err = CheckInteraction("mute", in)
	require.NoError(t, err)
	assert.True(t, verdict.Denied)
	assert.Contains(t, verdict.Reason, "yourself")
}

func TestCheckInteraction_BotSeniority(t *testing.T) {
	tests := []struct {
		name      string
		botPos    int
		targetPos int
		denied    bool
	}{
		{"bot above target", 10, 5, false},
		{"tie denies", 10, 10, true},
		{"bot below target", 5, 10, true},
		{"negative positions", -1, -2, false},
		{"negative tie denies", -2, -2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input()
			in.Roles = []models.Role{
				{ID: 10, Position: tt.botPos},
				{ID: 11, Position: tt.botPos}, // actor mirrors the bot
				{ID: 12, Position: tt.targetPos},
			}

			verdict, err := CheckInteraction("mute", in)

			require.NoError(t, err)
			assert.Equal(t, tt.denied, verdict.Denied)
		})
	}
}

func TestCheckInteraction_ActorSeniority(t *testing.T) {
	tests := []struct {
		name      string
		actorPos  int
		targetPos int
		denied    bool
	}{
		{"actor above target", 10, 5, false},
		{"tie denies", 10, 10, true},
		{"actor below target", 5, 10, true},
		{"negative target still below", 1, -5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := input()
			in.Roles = []models.Role{
				{ID: 10, Position: 1000},
				{ID: 11, Position: tt.actorPos},
				{ID: 12, Position: tt.targetPos},
			}

			verdict, err := CheckInteraction("mute", in)

			require.NoError(t, err)
			assert.Equal(t, tt.denied, verdict.Denied)
		})
	}
}

func TestCheckInteraction_OwnerBypassesActorSeniority(t *testing.T) {
	in := input()
	in.Actor = testutil.GenerateMember(ownerID) // no roles at all
	in.Roles = []models.Role{
		{ID: 10, Position: 1000},
		{ID: 12, Position: 999},
	}

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.False(t, verdict.Denied, "the owner outranks everyone regardless of roles")
}

func TestCheckInteraction_OwnerDoesNotBypassBotSeniority(t *testing.T) {
	in := input()
	in.Actor = testutil.GenerateMember(ownerID)
	in.Roles = []models.Role{
		{ID: 10, Position: 5},
		{ID: 12, Position: 5},
	}

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.True(t, verdict.Denied, "bot seniority is checked before the owner bypass")
}

func TestCheckInteraction_MemberWithNoRolesHasPositionZero(t *testing.T) {
	in := input()
	in.Target = testutil.GenerateMember(targetID) // no roles
	in.Roles = []models.Role{
		{ID: 10, Position: 1},
		{ID: 11, Position: 1},
	}

	verdict, err := CheckInteraction("mute", in)

	require.NoError(t, err)
	assert.False(t, verdict.Denied)
}

func TestCheckInteraction_ReasonNamesAction(t *testing.T) {
	in := input()
	in.Target = testutil.GenerateMember(actorID)

	verdict, err := CheckInteraction("unmute", in)

	require.NoError(t, err)
	assert.Contains(t, verdict.Reason, "unmute")
}

func TestCheckInteraction_IncompleteInputIsError(t *testing.T) {
	in := input()
	in.Guild = nil

	_, err := CheckInteraction("mute", in)

	assert.Error(t, err)
}

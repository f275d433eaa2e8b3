package moderation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/audit"
	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
	"github.com/wardenbot/warden/internal/testutil"
)

const (
	guildID  = models.Snowflake(100)
	originID = models.Snowflake(101)
	ownerID  = models.Snowflake(1)
	botID    = models.Snowflake(2)
	actorID  = models.Snowflake(3)
	targetID = models.Snowflake(4)
)

// fakeWorld backs every pipeline collaborator with in-memory data. Errors
// injected per lookup let single tests break exactly one step.
type fakeWorld struct {
	guild   *models.Guild
	roles   []models.Role
	members map[models.Snowflake]*models.GuildMember
	users   map[models.Snowflake]*models.User
	cfg     settings.Settings

	memberErr   error
	settingsErr error

	mu           sync.Mutex
	suppressions []suppression
	mutateErr    error
}

type suppression struct {
	guildID models.Snowflake
	userID  models.Snowflake
	until   *time.Time
	reason  string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		guild: testutil.GenerateGuild(guildID, ownerID),
		roles: []models.Role{
			{ID: 10, Position: 100},
			{ID: 11, Position: 50},
			{ID: 12, Position: 10},
		},
		members: map[models.Snowflake]*models.GuildMember{
			botID:    testutil.GenerateMember(botID, 10),
			actorID:  testutil.GenerateMember(actorID, 11),
			targetID: testutil.GenerateMember(targetID, 12),
		},
		users: map[models.Snowflake]*models.User{
			botID:    testutil.GenerateUser(botID),
			actorID:  testutil.GenerateUser(actorID),
			targetID: testutil.GenerateUser(targetID),
		},
		cfg: settings.Settings{},
	}
}

func (w *fakeWorld) Guild(_ context.Context, id models.Snowflake) (*models.Guild, error) {
	if id != w.guild.ID {
		return nil, fmt.Errorf("guild %s: %w", id, models.ErrNotFound)
	}
	return w.guild, nil
}

func (w *fakeWorld) Roles(_ context.Context, _ models.Snowflake) ([]models.Role, error) {
	return w.roles, nil
}

func (w *fakeWorld) Member(_ context.Context, _ models.Snowflake, userID models.Snowflake) (*models.GuildMember, error) {
	if w.memberErr != nil && userID == targetID {
		return nil, w.memberErr
	}
	m, ok := w.members[userID]
	if !ok {
		return nil, fmt.Errorf("member %s: %w", userID, models.ErrNotFound)
	}
	return m, nil
}

func (w *fakeWorld) User(_ context.Context, userID models.Snowflake) (*models.User, error) {
	u, ok := w.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return u, nil
}

func (w *fakeWorld) BotUser(_ context.Context) (*models.User, error) {
	return w.users[botID], nil
}

func (w *fakeWorld) SetSuppression(_ context.Context, guildID, userID models.Snowflake, until *time.Time, reason string) error {
	if w.mutateErr != nil {
		return w.mutateErr
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.suppressions = append(w.suppressions, suppression{guildID, userID, until, reason})
	return nil
}

func (w *fakeWorld) Settings(_ context.Context, _ models.Snowflake) (settings.Settings, error) {
	if w.settingsErr != nil {
		return nil, w.settingsErr
	}
	return w.cfg, nil
}

type fakeResponder struct {
	successes []string
	failures  []string
	subjects  []*models.User
	err       error
}

func (r *fakeResponder) Success(_ context.Context, message string, subject *models.User) error {
	r.successes = append(r.successes, message)
	r.subjects = append(r.subjects, subject)
	return r.err
}

func (r *fakeResponder) Failure(_ context.Context, message string, subject *models.User) error {
	r.failures = append(r.failures, message)
	r.subjects = append(r.subjects, subject)
	return r.err
}

type discardDispatcher struct{}

func (discardDispatcher) SendRecord(context.Context, models.Snowflake, *audit.Record) error {
	return nil
}

var frozenNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPipeline(w *fakeWorld, dispatcher audit.Dispatcher) *Pipeline {
	if dispatcher == nil {
		dispatcher = discardDispatcher{}
	}
	log := zap.NewNop()
	p := NewPipeline(w, w, w, audit.NewLogger(dispatcher, log), log)
	p.now = func() time.Time { return frozenNow }
	p.newTrace = func() string { return "trace-fixed" }
	return p
}

func request() Request {
	return Request{
		GuildID:   guildID,
		ChannelID: originID,
		ActorID:   actorID,
		TargetID:  targetID,
		Reason:    "spamming",
	}
}

func TestMute_AppliesTimedSuppression(t *testing.T) {
	w := newFakeWorld()
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.NoError(t, err)
	require.Len(t, w.suppressions, 1)
	s := w.suppressions[0]
	assert.Equal(t, guildID, s.guildID)
	assert.Equal(t, targetID, s.userID)
	require.NotNil(t, s.until)
	assert.Equal(t, frozenNow.Add(time.Hour), *s.until)

	require.Len(t, r.successes, 1)
	assert.Equal(t, w.users[targetID].Tag()+" was muted", r.successes[0])
	assert.Empty(t, r.failures)
	assert.Same(t, w.users[targetID], r.subjects[0])
}

func TestMute_IndefiniteUsesMaxWindow(t *testing.T) {
	w := newFakeWorld()
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Forever())

	require.NoError(t, err)
	require.Len(t, w.suppressions, 1)
	require.NotNil(t, w.suppressions[0].until)
	assert.Equal(t, frozenNow.Add(28*24*time.Hour), *w.suppressions[0].until)
}

func TestMute_TagsReasonWithActor(t *testing.T) {
	w := newFakeWorld()
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.NoError(t, err)
	require.Len(t, w.suppressions, 1)
	want := fmt.Sprintf("(%s) spamming", w.users[actorID].Tag())
	assert.Equal(t, want, w.suppressions[0].reason)
}

func TestUnmute_ClearsSuppression(t *testing.T) {
	w := newFakeWorld()
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Unmute(context.Background(), request(), r)

	require.NoError(t, err)
	require.Len(t, w.suppressions, 1)
	assert.Nil(t, w.suppressions[0].until)

	require.Len(t, r.successes, 1)
	assert.Equal(t, w.users[targetID].Tag()+" was unmuted", r.successes[0])
}

func TestMute_TargetNotFoundIsUserFacing(t *testing.T) {
	w := newFakeWorld()
	delete(w.members, targetID)
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.NoError(t, err)
	assert.Empty(t, w.suppressions)
	require.Len(t, r.failures, 1)
	assert.Equal(t, "User not found.", r.failures[0])
	assert.Same(t, w.users[botID], r.subjects[0], "lookup failures are attributed to the bot")
}

func TestMute_DeniedCheckIsUserFacing(t *testing.T) {
	w := newFakeWorld()
	// Target outranks the actor.
	w.members[targetID] = testutil.GenerateMember(targetID, 10)
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.NoError(t, err)
	assert.Empty(t, w.suppressions)
	require.Len(t, r.failures, 1)
	assert.NotEmpty(t, r.failures[0])
	assert.Empty(t, r.successes)
}

func TestMute_BackendFailurePropagates(t *testing.T) {
	w := newFakeWorld()
	w.memberErr = errors.New("gateway timeout")
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.Error(t, err)
	assert.ErrorContains(t, err, "resolve target member")
	assert.Empty(t, r.failures, "backend failures are not reported through the responder")
	assert.Empty(t, r.successes)
}

func TestMute_MutatorFailurePropagates(t *testing.T) {
	w := newFakeWorld()
	w.mutateErr = errors.New("missing permissions")
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.Error(t, err)
	assert.ErrorContains(t, err, "apply mute")
	assert.Empty(t, r.successes)
}

func TestMute_SettingsFailurePropagates(t *testing.T) {
	w := newFakeWorld()
	w.settingsErr = errors.New("database down")
	p := newTestPipeline(w, nil)
	r := &fakeResponder{}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.Error(t, err)
	assert.ErrorContains(t, err, "load guild settings")
	assert.Empty(t, w.suppressions)
}

type channelDispatcher struct {
	mu      sync.Mutex
	records map[models.Snowflake]*audit.Record
}

func (d *channelDispatcher) SendRecord(_ context.Context, channelID models.Snowflake, r *audit.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.records == nil {
		d.records = map[models.Snowflake]*audit.Record{}
	}
	d.records[channelID] = r
	return nil
}

func TestMute_AuditRecordDescribesExpiry(t *testing.T) {
	w := newFakeWorld()
	feedback := models.Snowflake(900)
	w.cfg[settings.PublicFeedbackChannel.Name()] = feedback.String()
	d := &channelDispatcher{}
	p := newTestPipeline(w, d)

	err := p.Mute(context.Background(), request(), &fakeResponder{}, Timed(time.Hour))
	require.NoError(t, err)
	p.audit.Flush()

	record := d.records[feedback]
	require.NotNil(t, record)
	assert.Contains(t, record.Description, "Reason: spamming")
	expiry := frozenNow.Add(time.Hour)
	assert.Contains(t, record.Description, fmt.Sprintf("<t:%d:f>", expiry.Unix()))
	assert.Equal(t, audit.ColorRed, record.Color)
}

func TestMute_IndefiniteAuditRecordHasNoExpiry(t *testing.T) {
	w := newFakeWorld()
	feedback := models.Snowflake(900)
	w.cfg[settings.PublicFeedbackChannel.Name()] = feedback.String()
	d := &channelDispatcher{}
	p := newTestPipeline(w, d)

	err := p.Mute(context.Background(), request(), &fakeResponder{}, Forever())
	require.NoError(t, err)
	p.audit.Flush()

	record := d.records[feedback]
	require.NotNil(t, record)
	assert.Contains(t, record.Description, "Does not expire automatically")
	assert.NotContains(t, record.Description, "<t:")
}

func TestUnmute_AuditRecordIsGreen(t *testing.T) {
	w := newFakeWorld()
	feedback := models.Snowflake(900)
	w.cfg[settings.PublicFeedbackChannel.Name()] = feedback.String()
	d := &channelDispatcher{}
	p := newTestPipeline(w, d)

	err := p.Unmute(context.Background(), request(), &fakeResponder{})
	require.NoError(t, err)
	p.audit.Flush()

	record := d.records[feedback]
	require.NotNil(t, record)
	assert.Equal(t, audit.ColorGreen, record.Color)
	assert.Equal(t, "Reason: spamming", record.Description)
}

func TestMute_ResponderFailurePropagates(t *testing.T) {
	w := newFakeWorld()
	p := newTestPipeline(w, nil)
	r := &fakeResponder{err: errors.New("interaction expired")}

	err := p.Mute(context.Background(), request(), r, Timed(time.Hour))

	require.Error(t, err)
	assert.ErrorContains(t, err, "respond")
	assert.Len(t, w.suppressions, 1, "the action itself still went through")
}

// Package audit sends records of moderation actions to the guild's
// configured feedback channels. Dispatch is fire-and-forget: a slow or
// failing audit copy must never delay or fail the action it describes.
package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
)

// Embed accent colors used for action records.
const (
	ColorRed    = 0xED4245
	ColorGreen  = 0x57F287
	ColorYellow = 0xFEE75C
	ColorBlue   = 0x3498DB
)

// Record is one rendered audit entry. It is built per action and never
// stored.
type Record struct {
	Title       string
	Description string
	Actor       *models.User
	Subject     *models.User
	Color       int
	Timestamp   time.Time
}

// Dispatcher delivers a record to a channel. Implementations are expected
// over the platform's message API.
type Dispatcher interface {
	SendRecord(ctx context.Context, channelID models.Snowflake, record *Record) error
}

// Logger fans audit records out to the public and private feedback channels
// configured for a guild.
type Logger struct {
	dispatcher Dispatcher
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewLogger creates an audit logger sending through the given dispatcher.
func NewLogger(dispatcher Dispatcher, logger *zap.Logger) *Logger {
	return &Logger{dispatcher: dispatcher, logger: logger}
}

// LogAction queues an audit record for the guild's feedback channels and
// returns once the sends are queued, not delivered.
//
// No record is sent to the channel the action originated in: if both
// feedback channels are unset or equal to the origin, the action was already
// visible to its audience and nothing is built at all. The public copy is
// skipped when isPublic is false, and the private channel never receives a
// duplicate of the public one.
func (l *Logger) LogAction(ctx context.Context, cfg settings.Settings, origin models.Snowflake,
	actor *models.User, title, description string, subject *models.User, color int, isPublic bool) {

	public := settings.PublicFeedbackChannel.Get(cfg)
	private := settings.PrivateFeedbackChannel.Get(cfg)

	publicIdle := public.IsZero() || public == origin
	privateIdle := private.IsZero() || private == origin
	if publicIdle && privateIdle {
		return
	}

	record := &Record{
		Title:       title,
		Description: description,
		Actor:       actor,
		Subject:     subject,
		Color:       color,
		Timestamp:   time.Now(),
	}

	if isPublic && !publicIdle {
		l.dispatch(ctx, public, record)
	}

	if !privateIdle && private != public {
		l.dispatch(ctx, private, record)
	}
}

// dispatch sends in the background, detached from the caller's cancellation:
// the primary response must not wait on the audit copy.
func (l *Logger) dispatch(ctx context.Context, channelID models.Snowflake, record *Record) {
	sendCtx := context.WithoutCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := l.dispatcher.SendRecord(sendCtx, channelID, record); err != nil {
			l.logger.Warn("failed to deliver audit record",
				zap.String("channel_id", channelID.String()),
				zap.String("title", record.Title),
				zap.Error(err),
			)
		}
	}()
}

// Flush waits for queued dispatches to finish. Used on shutdown.
func (l *Logger) Flush() {
	l.wg.Wait()
}

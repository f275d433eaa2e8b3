// Package guilds owns per-guild settings state: lazy creation on first
// access, in-memory caching for the process lifetime and persistence after
// every mutation.
package guilds

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"

	"go.uber.org/zap"

	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
)

// Store persists guild settings. LoadSettings returns models.ErrNotFound
// (possibly wrapped) for guilds that have never stored anything.
type Store interface {
	LoadSettings(ctx context.Context, guildID models.Snowflake) (settings.Settings, error)
	SaveSettings(ctx context.Context, guildID models.Snowflake, s settings.Settings) error
}

// DataService hands out each guild's settings map and keeps it in sync with
// the store. It is the synchronization point for settings access: cached
// maps are never mutated in place, mutations build a copy and swap it in
// under the lock, and readers get their own copy, so handler goroutines can
// read concurrently with edits.
type DataService struct {
	store  Store
	logger *zap.Logger

	mu    sync.Mutex
	cache map[models.Snowflake]settings.Settings
}

// NewDataService creates a guild data service over the given store.
func NewDataService(store Store, logger *zap.Logger) *DataService {
	return &DataService{
		store:  store,
		logger: logger,
		cache:  make(map[models.Snowflake]settings.Settings),
	}
}

// Settings returns a snapshot of the guild's settings map, loading it from
// the store or creating an empty one on first access. The snapshot is the
// caller's own copy: it stays consistent for the length of one operation and
// never observes a concurrent edit. Guild settings are never evicted during
// the process lifetime.
func (d *DataService) Settings(ctx context.Context, guildID models.Snowflake) (settings.Settings, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg, err := d.settingsLocked(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return maps.Clone(cfg), nil
}

// settingsLocked returns the live cached map. Callers must hold d.mu and
// must not let the map escape the critical section.
func (d *DataService) settingsLocked(ctx context.Context, guildID models.Snowflake) (settings.Settings, error) {
	if cfg, ok := d.cache[guildID]; ok {
		return cfg, nil
	}

	cfg, err := d.store.LoadSettings(ctx, guildID)
	if errors.Is(err, models.ErrNotFound) {
		cfg = settings.Settings{}
	} else if err != nil {
		return nil, fmt.Errorf("load settings for guild %s: %w", guildID, err)
	}

	d.cache[guildID] = cfg
	return cfg, nil
}

// SetOption parses raw input through the option and persists the updated
// map. The update is applied to a copy and swapped into the cache only after
// the store accepted it, so a parse error or a save failure leaves the
// visible settings exactly as they were.
func (d *DataService) SetOption(ctx context.Context, guildID models.Snowflake, opt settings.Option, raw string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, err := d.settingsLocked(ctx, guildID)
	if err != nil {
		return err
	}

	updated := maps.Clone(current)
	if err := opt.Set(updated, raw); err != nil {
		return err
	}

	if err := d.store.SaveSettings(ctx, guildID, updated); err != nil {
		return fmt.Errorf("save settings for guild %s: %w", guildID, err)
	}

	d.cache[guildID] = updated

	d.logger.Info("guild option updated",
		zap.String("guild_id", guildID.String()),
		zap.String("option", opt.Name()),
	)
	return nil
}

// Display renders the current value of an option for the guild.
func (d *DataService) Display(ctx context.Context, guildID models.Snowflake, opt settings.Option) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cfg, err := d.settingsLocked(ctx, guildID)
	if err != nil {
		return "", err
	}
	return opt.Display(cfg), nil
}

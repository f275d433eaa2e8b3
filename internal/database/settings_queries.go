package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wardenbot/warden/internal/models"
	"github.com/wardenbot/warden/internal/settings"
)

// LoadSettings retrieves a guild's settings map. Returns models.ErrNotFound
// for guilds that have never persisted anything.
func (db *DB) LoadSettings(ctx context.Context, guildID models.Snowflake) (settings.Settings, error) {
	query := `
		SELECT settings
		FROM guild_settings
		WHERE guild_id = $1
	`

	var raw []byte
	err := db.QueryRowContext(ctx, query, int64(guildID)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings for guild %s: %w", guildID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	var cfg settings.Settings
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode guild settings: %w", err)
	}

	return cfg, nil
}

// SaveSettings inserts or updates a guild's settings map.
func (db *DB) SaveSettings(ctx context.Context, guildID models.Snowflake, cfg settings.Settings) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode guild settings: %w", err)
	}

	query := `
		INSERT INTO guild_settings (guild_id, settings)
		VALUES ($1, $2)
		ON CONFLICT (guild_id) DO UPDATE
		SET settings = EXCLUDED.settings,
		    updated_at = NOW()
	`

	if _, err := db.ExecContext(ctx, query, int64(guildID), raw); err != nil {
		return fmt.Errorf("failed to save guild settings: %w", err)
	}

	return nil
}

// DeleteSettings removes a guild's persisted settings. Used by data
// retention tooling, not by the bot's request paths.
func (db *DB) DeleteSettings(ctx context.Context, guildID models.Snowflake) error {
	query := `DELETE FROM guild_settings WHERE guild_id = $1`

	result, err := db.ExecContext(ctx, query, int64(guildID))
	if err != nil {
		return fmt.Errorf("failed to delete guild settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("settings for guild %s: %w", guildID, models.ErrNotFound)
	}

	return nil
}

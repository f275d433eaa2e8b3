package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/wardenbot/warden/internal/models"
)

// SaveMemberRoles stores the roles a member held when leaving a guild.
func (db *DB) SaveMemberRoles(ctx context.Context, guildID, userID models.Snowflake, roleIDs []models.Snowflake) error {
	ids := make(pq.Int64Array, len(roleIDs))
	for i, id := range roleIDs {
		ids[i] = int64(id)
	}

	query := `
		INSERT INTO guild_member_roles (guild_id, user_id, role_ids)
		VALUES ($1, $2, $3)
		ON CONFLICT (guild_id, user_id) DO UPDATE
		SET role_ids = EXCLUDED.role_ids,
		    updated_at = NOW()
	`

	if _, err := db.ExecContext(ctx, query, int64(guildID), int64(userID), ids); err != nil {
		return fmt.Errorf("failed to save member roles: %w", err)
	}

	return nil
}

// LoadMemberRoles retrieves the remembered roles for a member. Returns
// models.ErrNotFound when nothing was stored.
func (db *DB) LoadMemberRoles(ctx context.Context, guildID, userID models.Snowflake) ([]models.Snowflake, error) {
	query := `
		SELECT role_ids
		FROM guild_member_roles
		WHERE guild_id = $1 AND user_id = $2
	`

	var ids pq.Int64Array
	err := db.QueryRowContext(ctx, query, int64(guildID), int64(userID)).Scan(&ids)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("roles for member %s in guild %s: %w", userID, guildID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load member roles: %w", err)
	}

	roleIDs := make([]models.Snowflake, len(ids))
	for i, id := range ids {
		roleIDs[i] = models.Snowflake(id)
	}

	return roleIDs, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/habitloop/habitloop-server/internal/domain"
	"github.com/habitloop/habitloop-server/internal/store"
)

// GetUserSettings retrieves a user's settings.
// Returns store.ErrNotFound if none have been saved yet.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, theme, timezone, updated_at FROM user_settings WHERE user_id = ?`, userID)

	var settings domain.UserSettings
	var updatedAt string
	err := row.Scan(&settings.UserID, &settings.Theme, &settings.Timezone, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if settings.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &settings, nil
}

// execPutUserSettings upserts settings through db or tx. Shared with import.
func execPutUserSettings(ctx context.Context, e execer, settings *domain.UserSettings) error {
	_, err := e.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, theme, timezone, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = excluded.theme,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		settings.UserID,
		settings.Theme,
		settings.Timezone,
		formatTime(settings.UpdatedAt),
	)
	return err
}

// PutUserSettings creates or replaces a user's settings.
func (s *Store) PutUserSettings(ctx context.Context, settings *domain.UserSettings) error {
	return execPutUserSettings(ctx, s.db, settings)
}

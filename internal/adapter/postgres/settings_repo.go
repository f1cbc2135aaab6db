package postgres

import (
	"context"
	"database/sql"
	"errors"

	"meddiary/internal/domain"
)

// GetSettings returns a user's settings, or nil when none are stored.
func (d *DB) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	var s domain.Settings
	err := d.sql.QueryRowContext(ctx,
		"SELECT user_id, email, updated_at FROM settings WHERE user_id=$1;", userID,
	).Scan(&s.UserID, &s.Email, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSettings stores s, replacing any previous row for the user.
func (d *DB) UpsertSettings(ctx context.Context, s domain.Settings) error {
	_, err := d.sql.ExecContext(ctx, `
		INSERT INTO settings(user_id, email, updated_at) VALUES($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET email = EXCLUDED.email, updated_at = EXCLUDED.updated_at;`,
		s.UserID, s.Email, s.UpdatedAt.UTC())
	return err
}

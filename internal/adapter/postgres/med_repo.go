package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meddiary/internal/domain"

	"github.com/lib/pq"
)

const medColumns = "id, user_id, name, time, days, notes, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMedication(row rowScanner) (*domain.Medication, error) {
	var (
		m    domain.Medication
		days pq.StringArray
	)
	if err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Time, &days, &m.Notes, &m.CreatedAt); err != nil {
		return nil, err
	}
	rec, err := domain.ParseRecurrence(days)
	if err != nil {
		return nil, fmt.Errorf("medication %d: %w", m.ID, err)
	}
	m.Days = rec
	return &m, nil
}

// ListMedications returns a user's medications ordered by time of day.
func (d *DB) ListMedications(ctx context.Context, userID int64) ([]domain.Medication, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT "+medColumns+" FROM meds WHERE user_id=$1 ORDER BY time, id;", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// GetMedication returns a single medication owned by userID.
func (d *DB) GetMedication(ctx context.Context, userID, id int64) (*domain.Medication, error) {
	row := d.sql.QueryRowContext(ctx,
		"SELECT "+medColumns+" FROM meds WHERE id=$1 AND user_id=$2;", id, userID)
	m, err := scanMedication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return m, err
}

// CreateMedication inserts m and returns the stored row.
func (d *DB) CreateMedication(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	row := d.sql.QueryRowContext(ctx,
		"INSERT INTO meds(user_id, name, time, days, notes, created_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING "+medColumns+";",
		m.UserID, m.Name, m.Time, pq.Array(m.Days.Labels()), m.Notes, time.Now().UTC(),
	)
	return scanMedication(row)
}

// UpdateMedication overwrites the editable fields of m.
func (d *DB) UpdateMedication(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	row := d.sql.QueryRowContext(ctx,
		"UPDATE meds SET name=$1, time=$2, days=$3, notes=$4 WHERE id=$5 AND user_id=$6 RETURNING "+medColumns+";",
		m.Name, m.Time, pq.Array(m.Days.Labels()), m.Notes, m.ID, m.UserID,
	)
	updated, err := scanMedication(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return updated, err
}

// DeleteMedication removes a medication. Its intakes are left in place.
func (d *DB) DeleteMedication(ctx context.Context, userID, id int64) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM meds WHERE id=$1 AND user_id=$2;", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

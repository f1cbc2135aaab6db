package postgres

import (
	"context"
	"database/sql"
	"time"

	"meddiary/internal/domain"
)

// ListIntakes returns a user's intakes in [from, to] joined with their
// medication, newest first. Intakes of deleted medications carry no Med.
func (d *DB) ListIntakes(ctx context.Context, userID int64, from, to string) ([]domain.IntakeRecord, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT i.id, i.med_id, i.date, i.taken_at, m.name, m.time, m.notes
		FROM med_intakes i
		LEFT JOIN meds m ON m.id = i.med_id AND m.user_id = i.user_id
		WHERE i.user_id=$1 AND i.date >= $2 AND i.date <= $3
		ORDER BY i.date DESC, i.taken_at DESC;`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.IntakeRecord, 0)
	for rows.Next() {
		var (
			r                 domain.IntakeRecord
			name, clock, note sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.MedID, &r.Date, &r.TakenAt, &name, &clock, &note); err != nil {
			return nil, err
		}
		r.UserID = userID
		if name.Valid {
			r.Med = &domain.IntakeMed{Name: name.String, Time: clock.String, Notes: note.String}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// AddIntake records medID as taken on date. A second intake for the same
// medication and date fails with domain.ErrDuplicateIntake.
func (d *DB) AddIntake(ctx context.Context, userID, medID int64, date string, takenAt time.Time) (int64, error) {
	var id int64
	err := d.sql.QueryRowContext(ctx,
		"INSERT INTO med_intakes(user_id, med_id, date, taken_at) VALUES($1, $2, $3, $4) RETURNING id;",
		userID, medID, date, takenAt.UTC(),
	).Scan(&id)
	if isUniqueViolation(err) {
		return 0, domain.ErrDuplicateIntake
	}
	return id, err
}

// DeleteIntake removes the intake of medID on date and reports whether one
// existed.
func (d *DB) DeleteIntake(ctx context.Context, userID, medID int64, date string) (bool, error) {
	res, err := d.sql.ExecContext(ctx,
		"DELETE FROM med_intakes WHERE user_id=$1 AND med_id=$2 AND date=$3;", userID, medID, date)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateIntake is returned by stores that enforce one intake per
// (user, medication, date).
var ErrDuplicateIntake = errors.New("intake already recorded")

// IntakeMed is the medication data joined onto an intake record. It is nil
// when the medication has since been deleted.
type IntakeMed struct {
	Name  string `json:"name"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// IntakeRecord is a single "taken" event for a medication on a local date.
type IntakeRecord struct {
	ID      int64      `json:"id"`
	UserID  int64      `json:"userId"`
	MedID   int64      `json:"medId"`
	Date    string     `json:"date"`
	TakenAt time.Time  `json:"takenAt"`
	Med     *IntakeMed `json:"med,omitempty"`
}

// IntakeRepository is the port for intake persistence.
type IntakeRepository interface {
	// ListIntakes returns records with from <= date <= to, newest date first
	// and newest takenAt first within a date.
	ListIntakes(ctx context.Context, userID int64, from, to string) ([]IntakeRecord, error)
	AddIntake(ctx context.Context, userID, medID int64, date string, takenAt time.Time) (int64, error)
	DeleteIntake(ctx context.Context, userID, medID int64, date string) (bool, error)
}

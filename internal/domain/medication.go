package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound indicates the record does not exist for the requesting user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidMedication indicates a medication failed presence/format checks.
	ErrInvalidMedication = errors.New("invalid medication")
)

// Medication is a user's medication definition.
type Medication struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"userId"`
	Name      string     `json:"name"`
	Time      string     `json:"time"`
	Days      Recurrence `json:"days"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
}

// MedicationPatch carries the fields of a partial update. Nil fields are left
// untouched.
type MedicationPatch struct {
	Name  *string     `json:"name"`
	Time  *string     `json:"time"`
	Days  *Recurrence `json:"days"`
	Notes *string     `json:"notes"`
}

// Apply returns a copy of m with the patch applied.
func (p MedicationPatch) Apply(m Medication) Medication {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Time != nil {
		m.Time = *p.Time
	}
	if p.Days != nil {
		m.Days = *p.Days
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	return m
}

// Normalize trims free-text fields.
func (m *Medication) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Time = strings.TrimSpace(m.Time)
	m.Notes = strings.TrimSpace(m.Notes)
}

// Validate checks presence and format of the user-editable fields.
func (m Medication) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMedication)
	}
	if m.Time == "" {
		return fmt.Errorf("%w: time is required", ErrInvalidMedication)
	}
	if !ValidClock(m.Time) {
		return fmt.Errorf("%w: time must be HH:MM", ErrInvalidMedication)
	}
	if len(m.Days) == 0 {
		return fmt.Errorf("%w: at least one day is required", ErrInvalidMedication)
	}
	for _, tok := range m.Days {
		if tok.String() == "" {
			return fmt.Errorf("%w: %w", ErrInvalidMedication, ErrUnknownToken)
		}
	}
	if m.Days.Has(Even) && m.Days.Has(Odd) {
		return fmt.Errorf("%w: %s and %s are mutually exclusive", ErrInvalidMedication, LabelEven, LabelOdd)
	}
	return nil
}

// ValidClock reports whether s is a zero-padded 24h "HH:MM" time.
func ValidClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// MedicationRepository is the port for medication persistence. Every call is
// scoped to userID; records of other users are reported as ErrNotFound.
type MedicationRepository interface {
	ListMedications(ctx context.Context, userID int64) ([]Medication, error)
	GetMedication(ctx context.Context, userID, id int64) (*Medication, error)
	CreateMedication(ctx context.Context, m Medication) (*Medication, error)
	UpdateMedication(ctx context.Context, m Medication) (*Medication, error)
	DeleteMedication(ctx context.Context, userID, id int64) error
}

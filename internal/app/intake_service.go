package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meddiary/internal/domain"
	"meddiary/internal/metrics"
)

// ErrInvalidDay is returned for dates that are not "YYYY-MM-DD".
var ErrInvalidDay = errors.New("date must be YYYY-MM-DD")

// IntakeService records and removes "taken" marks.
type IntakeService struct {
	intakes domain.IntakeRepository
	meds    domain.MedicationRepository
	now     func() time.Time
}

// NewIntakeService creates an IntakeService backed by the given repositories.
func NewIntakeService(intakes domain.IntakeRepository, meds domain.MedicationRepository) *IntakeService {
	return &IntakeService{intakes: intakes, meds: meds, now: time.Now}
}

// TakenOn returns the set of medication ids with an intake on day.
func (s *IntakeService) TakenOn(ctx context.Context, userID int64, day string) (map[int64]bool, error) {
	if !domain.ValidDay(day) {
		return nil, ErrInvalidDay
	}
	records, err := s.intakes.ListIntakes(ctx, userID, day, day)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}
	taken := make(map[int64]bool, len(records))
	for _, r := range records {
		taken[r.MedID] = true
	}
	return taken, nil
}

// Mark records medID as taken on day. Marking twice is a no-op.
func (s *IntakeService) Mark(ctx context.Context, userID, medID int64, day string) error {
	if !domain.ValidDay(day) {
		return ErrInvalidDay
	}
	if _, err := s.meds.GetMedication(ctx, userID, medID); err != nil {
		return err
	}
	_, err := s.intakes.AddIntake(ctx, userID, medID, day, s.now())
	if err != nil && !errors.Is(err, domain.ErrDuplicateIntake) {
		return fmt.Errorf("add intake: %w", err)
	}
	metrics.IntakeToggles.WithLabelValues("mark").Inc()
	return nil
}

// Unmark removes the intake of medID on day. It reports whether a record was
// removed. Intakes of deleted medications can still be removed.
func (s *IntakeService) Unmark(ctx context.Context, userID, medID int64, day string) (bool, error) {
	if !domain.ValidDay(day) {
		return false, ErrInvalidDay
	}
	removed, err := s.intakes.DeleteIntake(ctx, userID, medID, day)
	if err != nil {
		return false, fmt.Errorf("delete intake: %w", err)
	}
	metrics.IntakeToggles.WithLabelValues("unmark").Inc()
	return removed, nil
}

// Toggle flips the taken state of medID on day and returns the new state.
func (s *IntakeService) Toggle(ctx context.Context, userID, medID int64, day string) (bool, error) {
	taken, err := s.TakenOn(ctx, userID, day)
	if err != nil {
		return false, err
	}
	if taken[medID] {
		_, err = s.Unmark(ctx, userID, medID, day)
		return false, err
	}
	if err := s.Mark(ctx, userID, medID, day); err != nil {
		return false, err
	}
	return true, nil
}

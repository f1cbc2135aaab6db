package app

import (
	"context"
	"fmt"

	"meddiary/internal/domain"
)

// ScheduleService builds the today and week views.
type ScheduleService struct {
	meds    domain.MedicationRepository
	intakes domain.IntakeRepository
}

// NewScheduleService creates a ScheduleService backed by the given repositories.
func NewScheduleService(meds domain.MedicationRepository, intakes domain.IntakeRepository) *ScheduleService {
	return &ScheduleService{meds: meds, intakes: intakes}
}

// TodayItem is a medication scheduled today and whether it was taken.
type TodayItem struct {
	Med   domain.Medication `json:"med"`
	Taken bool              `json:"taken"`
}

// TodayView lists the doses due on one date.
type TodayView struct {
	Date    string      `json:"date"`
	Weekday string      `json:"weekday"`
	Items   []TodayItem `json:"items"`
}

// WeekDay lists the medications scheduled on one date of the week.
type WeekDay struct {
	Date    string              `json:"date"`
	Weekday string              `json:"weekday"`
	Meds    []domain.Medication `json:"meds"`
}

// Today returns the medications due on today with their taken state.
func (s *ScheduleService) Today(ctx context.Context, userID int64, today string) (TodayView, error) {
	if !domain.ValidDay(today) {
		return TodayView{}, ErrInvalidDay
	}
	meds, err := s.meds.ListMedications(ctx, userID)
	if err != nil {
		return TodayView{}, fmt.Errorf("list medications: %w", err)
	}
	records, err := s.intakes.ListIntakes(ctx, userID, today, today)
	if err != nil {
		return TodayView{}, fmt.Errorf("list intakes: %w", err)
	}
	taken := make(map[int64]bool, len(records))
	for _, r := range records {
		taken[r.MedID] = true
	}

	due := domain.ScheduledOn(meds, today)
	items := make([]TodayItem, 0, len(due))
	for _, m := range due {
		items = append(items, TodayItem{Med: m, Taken: taken[m.ID]})
	}
	return TodayView{Date: today, Weekday: domain.WeekdayLabel(today), Items: items}, nil
}

// Week returns the Monday to Sunday plan of the week containing today.
func (s *ScheduleService) Week(ctx context.Context, userID int64, today string) ([]WeekDay, error) {
	if !domain.ValidDay(today) {
		return nil, ErrInvalidDay
	}
	meds, err := s.meds.ListMedications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	days := domain.WeekOf(today)
	week := make([]WeekDay, 0, len(days))
	for _, d := range days {
		week = append(week, WeekDay{Date: d, Weekday: domain.WeekdayLabel(d), Meds: domain.ScheduledOn(meds, d)})
	}
	return week, nil
}

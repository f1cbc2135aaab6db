package app

import (
	"context"
	"fmt"

	"meddiary/internal/domain"
)

const maxChartDays = 366

// ChartsService encapsulates chart data retrieval use cases.
type ChartsService struct {
	meds    domain.MedicationRepository
	intakes domain.IntakeRepository
}

// NewChartsService creates a ChartsService backed by the given repositories.
func NewChartsService(meds domain.MedicationRepository, intakes domain.IntakeRepository) *ChartsService {
	return &ChartsService{meds: meds, intakes: intakes}
}

// DayPoint is a single data point returned by GetDaily.
type DayPoint struct {
	Day       string   `json:"day"`
	Scheduled int      `json:"scheduled"`
	Taken     int      `json:"taken"`
	Adherence *float64 `json:"adherence"`
}

// GetDaily returns per-day adherence for the last days days ending today,
// oldest first. Adherence is nil on days with nothing scheduled.
func (s *ChartsService) GetDaily(ctx context.Context, userID int64, days int, today string) ([]DayPoint, error) {
	if !domain.ValidDay(today) {
		return nil, ErrInvalidDay
	}
	days = min(max(days, 1), maxChartDays)
	from := domain.AddDays(today, -(days - 1))

	meds, err := s.meds.ListMedications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	records, err := s.intakes.ListIntakes(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("list intakes: %w", err)
	}

	byDay := make(map[string]domain.DayOutcome, days)
	for _, d := range domain.Reconcile(meds, records, from, today) {
		byDay[d.Date] = d
	}

	points := make([]DayPoint, 0, days)
	for i := 0; i < days; i++ {
		day := domain.AddDays(from, i)
		sum := domain.Summarize([]domain.DayOutcome{byDay[day]})
		p := DayPoint{Day: day, Scheduled: sum.Scheduled, Taken: sum.Taken}
		if sum.Scheduled > 0 {
			ratio := float64(sum.Taken) / float64(sum.Scheduled)
			p.Adherence = &ratio
		}
		points = append(points, p)
	}
	return points, nil
}

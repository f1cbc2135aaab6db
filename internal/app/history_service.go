package app

import (
	"context"
	"errors"

	"meddiary/internal/domain"
	"meddiary/internal/metrics"

	"github.com/rs/zerolog"
)

// ErrInvalidRange is returned for malformed or reversed history ranges.
var ErrInvalidRange = errors.New("invalid date range")

const (
	defaultHistoryDays = 7
	maxHistoryDays     = 366 * 10
)

// HistoryQuery selects a page of the adherence history.
type HistoryQuery struct {
	From   string
	To     string
	Days   int
	Page   int
	Status domain.StatusFilter
}

// HistoryPage is one reconciled page of history. Summary covers the page
// before the status filter is applied.
type HistoryPage struct {
	From       string              `json:"from"`
	To         string              `json:"to"`
	Window     *domain.Window      `json:"window"`
	Page       int                 `json:"page"`
	TotalPages int                 `json:"totalPages"`
	Status     domain.StatusFilter `json:"status"`
	Records    int                 `json:"records"`
	Summary    domain.RangeSummary `json:"summary"`
	Days       []domain.DayOutcome `json:"days"`
}

// HistoryService reconciles schedules against intakes over date ranges.
type HistoryService struct {
	meds    domain.MedicationRepository
	intakes domain.IntakeRepository
	log     zerolog.Logger
}

// NewHistoryService creates a HistoryService backed by the given repositories.
func NewHistoryService(meds domain.MedicationRepository, intakes domain.IntakeRepository, log zerolog.Logger) *HistoryService {
	return &HistoryService{meds: meds, intakes: intakes, log: log}
}

// ResolveRange turns a query into an inclusive [from, to] range. Days takes
// precedence over explicit bounds and is capped at ten years; with neither,
// the last week ending today is used.
func ResolveRange(q HistoryQuery, today string) (from, to string, err error) {
	if q.Days > 0 {
		days := min(q.Days, maxHistoryDays)
		from, to = domain.AddDays(today, -(days - 1)), today
	} else {
		from, to = q.From, q.To
		if to == "" {
			to = today
		}
		if from == "" {
			from = domain.AddDays(to, -(defaultHistoryDays - 1))
		}
	}
	if !domain.ValidDay(from) || !domain.ValidDay(to) || from > to {
		return "", "", ErrInvalidRange
	}
	return from, to, nil
}

// Page returns page q.Page of the history. Today is never part of the
// result since its doses are still pending. Store failures degrade to an
// empty page.
func (s *HistoryService) Page(ctx context.Context, userID int64, q HistoryQuery, today string) (HistoryPage, error) {
	from, to, err := ResolveRange(q, today)
	if err != nil {
		return HistoryPage{}, err
	}
	status := domain.ParseStatusFilter(string(q.Status))
	page := HistoryPage{
		From:       from,
		To:         to,
		Page:       q.Page,
		TotalPages: domain.TotalPages(from, to, domain.PageDays),
		Status:     status,
		Days:       []domain.DayOutcome{},
	}

	w, ok := domain.PageWindow(from, to, q.Page, domain.PageDays)
	if !ok {
		return page, nil
	}
	page.Window = &w

	meds, err := s.meds.ListMedications(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("history: list medications failed")
		metrics.StoreErrors.WithLabelValues("list_medications").Inc()
		return page, nil
	}
	records, err := s.intakes.ListIntakes(ctx, userID, w.From, w.To)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", userID).Msg("history: list intakes failed")
		metrics.StoreErrors.WithLabelValues("list_intakes").Inc()
		return page, nil
	}

	for _, r := range records {
		if r.Date != today {
			page.Records++
		}
	}

	days := make([]domain.DayOutcome, 0, domain.RangeDays(w.From, w.To))
	for _, d := range domain.Reconcile(meds, records, w.From, w.To) {
		if d.Date != today {
			days = append(days, d)
		}
	}
	page.Summary = domain.Summarize(days)
	page.Days = domain.FilterDays(days, status)
	metrics.HistoryDays.Observe(float64(len(page.Days)))
	return page, nil
}

package app

import (
	"context"
	"errors"
	"time"

	"meddiary/internal/domain"
	"meddiary/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrReminderDisabled is returned when no reminder function is configured.
	ErrReminderDisabled = errors.New("reminder function not configured")
	// ErrReminderAlreadyRan is returned when a run already happened this minute.
	ErrReminderAlreadyRan = errors.New("reminder already triggered this minute")
)

const reminderKeyPrefix = "meds-reminder:"

// ReminderService triggers the external reminder function at most once per
// minute.
type ReminderService struct {
	trigger domain.ReminderTrigger
	limiter domain.RunLimiter
	log     zerolog.Logger
	now     func() time.Time
	newID   func() string
}

// NewReminderService creates a ReminderService. A nil trigger disables runs.
func NewReminderService(trigger domain.ReminderTrigger, limiter domain.RunLimiter, log zerolog.Logger) *ReminderService {
	return &ReminderService{
		trigger: trigger,
		limiter: limiter,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Run calls the reminder function and returns its response.
func (s *ReminderService) Run(ctx context.Context) (domain.ReminderResult, error) {
	if s.trigger == nil {
		metrics.ReminderRuns.WithLabelValues("disabled").Inc()
		return domain.ReminderResult{}, ErrReminderDisabled
	}

	key := reminderKeyPrefix + s.now().UTC().Format("2006-01-02T15:04")
	if s.limiter != nil {
		ok, err := s.limiter.Acquire(ctx, key, time.Minute)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("key", key).Msg("reminder limiter unavailable, running anyway")
		case !ok:
			metrics.ReminderRuns.WithLabelValues("skipped").Inc()
			return domain.ReminderResult{}, ErrReminderAlreadyRan
		}
	}

	runID := s.newID()
	log := s.log.With().Str("run_id", runID).Logger()
	res, err := s.trigger.Trigger(ctx, runID)
	if err != nil {
		metrics.ReminderRuns.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("reminder function failed")
		return domain.ReminderResult{}, err
	}
	metrics.ReminderRuns.WithLabelValues("ok").Inc()
	log.Info().Int("status", res.Status).Msg("reminder function triggered")
	return res, nil
}

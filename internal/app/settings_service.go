package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"meddiary/internal/domain"
)

// ErrInvalidEmail is returned when the reminder address is malformed.
var ErrInvalidEmail = errors.New("invalid email address")

// SettingsService manages per-user reminder settings.
type SettingsService struct {
	repo domain.SettingsRepository
}

// NewSettingsService creates a SettingsService backed by the given repository.
func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the user's settings, or empty settings when none are stored.
func (s *SettingsService) Get(ctx context.Context, userID int64) (domain.Settings, error) {
	st, err := s.repo.GetSettings(ctx, userID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	if st == nil {
		return domain.Settings{UserID: userID}, nil
	}
	return *st, nil
}

// SaveEmail stores the address reminders are sent to.
func (s *SettingsService) SaveEmail(ctx context.Context, userID int64, email string) (domain.Settings, error) {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return domain.Settings{}, ErrInvalidEmail
	}
	st := domain.Settings{UserID: userID, Email: email, UpdatedAt: time.Now().UTC()}
	if err := s.repo.UpsertSettings(ctx, st); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	return st, nil
}

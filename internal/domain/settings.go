package domain

import (
	"context"
	"time"
)

// Settings holds per-user preferences for reminders.
type Settings struct {
	UserID    int64     `json:"userId"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingsRepository is the port for settings persistence.
type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int64) (*Settings, error)
	UpsertSettings(ctx context.Context, s Settings) error
}

// ReminderResult is the response of the external reminder function.
type ReminderResult struct {
	Status int
	Body   string
}

// ReminderTrigger asks the external reminder function to send today's e-mails.
type ReminderTrigger interface {
	Trigger(ctx context.Context, runID string) (ReminderResult, error)
}

// RunLimiter grants a key at most once per ttl.
type RunLimiter interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

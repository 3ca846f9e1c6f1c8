package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidUser       = errors.New("invalid_user")
	ErrInvalidDaysBefore = errors.New("invalid_days_before")
)

type UpdateSettingsRequest struct {
	Enabled      *bool `json:"enabled,omitempty"`
	DaysBefore   *int  `json:"days_before,omitempty"`
	EmailEnabled *bool `json:"email_enabled,omitempty"`
}

type Service interface {
	// GetSettings returns the caller's settings, defaults when none exist.
	GetSettings(ctx context.Context) (ReminderSettings, error)
	UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (ReminderSettings, error)
	// Upcoming lists the caller's renewals due within the next 30 days,
	// soonest first. Renewals due today are excluded; the view exists to
	// warn ahead of a charge, not report one.
	Upcoming(ctx context.Context) ([]UpcomingRenewal, error)
	// Scan records reminder events for every subscription entering its
	// owner's lead window. Returns the number of events recorded; reruns
	// are idempotent.
	Scan(ctx context.Context) (int, error)
}

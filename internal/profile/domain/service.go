package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidUser     = errors.New("invalid_user")
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrPremiumRequired = errors.New("premium_required")
)

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type Service interface {
	// Get returns the caller's profile, creating a free-tier record on
	// first access.
	Get(ctx context.Context) (Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (Profile, error)
	// IsPremium reports whether the caller's effective tier is premium.
	IsPremium(ctx context.Context) (bool, error)
	// UpgradeToPremium grants premium until the given expiry. A nil expiry
	// grants it indefinitely.
	UpgradeToPremium(ctx context.Context, expiresAt *time.Time) (Profile, error)
}

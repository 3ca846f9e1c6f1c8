// Package domain contains the user profile and premium tier model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Tier is a profile's subscription tier.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

func (t Tier) Valid() bool {
	return t == TierFree || t == TierPremium
}

// Profile is the per-user account record. SubscriptionTier is what was
// granted; EffectiveTier accounts for expiry and is what gates consult.
type Profile struct {
	UserID           snowflake.ID `gorm:"primaryKey" json:"user_id"`
	Name             string       `gorm:"type:text" json:"name"`
	Email            string       `gorm:"type:text" json:"email"`
	SubscriptionTier Tier         `gorm:"type:text;not null;default:free" json:"subscription_tier"`
	PremiumExpiresAt *time.Time   `gorm:"" json:"premium_expires_at,omitempty"`
	CreatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }

// EffectiveTier downgrades an expired premium grant to free. A premium tier
// with no expiry never lapses.
func (p Profile) EffectiveTier(now time.Time) Tier {
	if p.SubscriptionTier != TierPremium {
		return TierFree
	}
	if p.PremiumExpiresAt != nil && p.PremiumExpiresAt.Before(now) {
		return TierFree
	}
	return TierPremium
}

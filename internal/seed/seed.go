// Package seed bootstraps the default records for self-hosted startup.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/smallbiznis/subsense/internal/profile/domain"
	"gorm.io/gorm"
)

// EnsureDefaultProfile creates the free-tier profile for the configured
// default user when none exists.
func EnsureDefaultProfile(db *gorm.DB, userID int64) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if userID <= 0 {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing profiledomain.Profile
		err := tx.WithContext(ctx).
			Where("user_id = ?", userID).
			Limit(1).
			Find(&existing).Error
		if err != nil {
			return err
		}
		if existing.UserID != 0 {
			return nil
		}

		now := time.Now().UTC()
		return tx.WithContext(ctx).Create(&profiledomain.Profile{
			UserID:           snowflake.ID(userID),
			Name:             "Default User",
			SubscriptionTier: profiledomain.TierFree,
			CreatedAt:        now,
			UpdatedAt:        now,
		}).Error
	})
}

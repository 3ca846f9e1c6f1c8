package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/profile/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Create(profile).Error
}

func (r *repo) Find(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.UserID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("user_id = ?", profile.UserID).
		Select("name", "email", "subscription_tier", "premium_expires_at", "updated_at").
		Updates(profile).Error
}

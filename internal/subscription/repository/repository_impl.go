package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/subscription/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).Create(subscription).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Limit(1).
		Find(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) FindByService(ctx context.Context, db *gorm.DB, userID snowflake.ID, serviceName string) (*domain.Subscription, error) {
	var subscription domain.Subscription
	err := db.WithContext(ctx).
		Where("user_id = ? AND service_name = ?", userID, serviceName).
		Limit(1).
		Find(&subscription).Error
	if err != nil {
		return nil, err
	}
	if subscription.ID == 0 {
		return nil, nil
	}
	return &subscription, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, userID snowflake.ID, filter domain.ListFilter) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	stmt := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ?", userID)
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	if filter.BillingCycle != "" {
		stmt = stmt.Where("billing_cycle = ?", filter.BillingCycle)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		stmt = stmt.Where("LOWER(service_name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if filter.DueFrom != nil {
		stmt = stmt.Where("next_billing_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		stmt = stmt.Where("next_billing_date <= ?", *filter.DueTo)
	}
	err := stmt.
		Order("created_at desc, id desc").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, subscription *domain.Subscription) error {
	return db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("user_id = ? AND id = ?", subscription.UserID, subscription.ID).
		Select("service_name", "category", "monthly_cost", "billing_cycle",
			"last_used_date", "next_billing_date", "usage_score", "usage_data", "updated_at").
		Updates(subscription).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&domain.Subscription{}).Error
}

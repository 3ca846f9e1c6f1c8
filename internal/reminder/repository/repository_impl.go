package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/reminder/domain"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindSettings(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*domain.ReminderSettings, error) {
	var settings domain.ReminderSettings
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&settings).Error
	if err != nil {
		return nil, err
	}
	if settings.UserID == 0 {
		return nil, nil
	}
	return &settings, nil
}

func (r *repo) SaveSettings(ctx context.Context, db *gorm.DB, settings *domain.ReminderSettings) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "days_before", "email_enabled", "updated_at",
			}),
		}).
		Create(settings).Error
}

func (r *repo) ListDue(ctx context.Context, db *gorm.DB, from, to time.Time) ([]subscriptiondomain.Subscription, error) {
	var subscriptions []subscriptiondomain.Subscription
	err := db.WithContext(ctx).
		Model(&subscriptiondomain.Subscription{}).
		Where("next_billing_date >= ? AND next_billing_date <= ?", from, to).
		Order("next_billing_date asc, id asc").
		Find(&subscriptions).Error
	if err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *repo) InsertEvent(ctx context.Context, db *gorm.DB, event *domain.ReminderEvent) error {
	return db.WithContext(ctx).Create(event).Error
}

func (r *repo) ListEvents(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) ([]domain.ReminderEvent, error) {
	var events []domain.ReminderEvent
	err := db.WithContext(ctx).
		Where("user_id = ? AND sent_at >= ?", userID, since).
		Order("sent_at desc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

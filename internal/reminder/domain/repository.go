package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"gorm.io/gorm"
)

type Repository interface {
	FindSettings(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*ReminderSettings, error)
	SaveSettings(ctx context.Context, db *gorm.DB, settings *ReminderSettings) error

	// ListDue returns subscriptions across all users whose next billing date
	// falls within [from, to].
	ListDue(ctx context.Context, db *gorm.DB, from, to time.Time) ([]subscriptiondomain.Subscription, error)

	InsertEvent(ctx context.Context, db *gorm.DB, event *ReminderEvent) error
	ListEvents(ctx context.Context, db *gorm.DB, userID snowflake.ID, since time.Time) ([]ReminderEvent, error)
}

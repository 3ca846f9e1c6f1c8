// Package domain contains renewal reminder settings and recorded events.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

// DefaultDaysBefore is the lead time applied when a user has no settings row.
const DefaultDaysBefore = 3

// ReminderSettings is the per-user reminder configuration.
type ReminderSettings struct {
	UserID       snowflake.ID `gorm:"primaryKey" json:"user_id"`
	Enabled      bool         `gorm:"not null;default:true" json:"enabled"`
	DaysBefore   int          `gorm:"not null;default:3" json:"days_before"`
	EmailEnabled bool         `gorm:"not null;default:false" json:"email_enabled"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (ReminderSettings) TableName() string { return "reminder_settings" }

// ReminderEvent records one delivered reminder. The unique index makes the
// scan idempotent: one event per subscription per billing date.
type ReminderEvent struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID         snowflake.ID `gorm:"not null;index" json:"user_id"`
	SubscriptionID snowflake.ID `gorm:"not null;uniqueIndex:idx_reminder_dedupe" json:"subscription_id"`
	BillingDate    time.Time    `gorm:"not null;uniqueIndex:idx_reminder_dedupe" json:"billing_date"`
	SentAt         time.Time    `gorm:"not null" json:"sent_at"`
}

// TableName sets the database table name.
func (ReminderEvent) TableName() string { return "reminder_events" }

// UpcomingRenewal is one row of the reminders view.
type UpcomingRenewal struct {
	Subscription subscriptiondomain.Subscription `json:"subscription"`
	DaysUntil    int                             `json:"days_until"`
}

// Package domain contains persistence models for tracked subscriptions.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BillingCycle is the cadence a subscription is charged at.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	return c == BillingCycleMonthly || c == BillingCycleYearly
}

// Categories offered in manual entry. The insights engine tolerates ad-hoc
// categories beyond this list (Gaming, Music, Education show up in imports).
const (
	CategoryStreaming    = "Streaming"
	CategoryDevelopment  = "Development"
	CategoryDesign       = "Design"
	CategoryProductivity = "Productivity"
	CategoryAI           = "AI"
	CategoryCloudStorage = "Cloud Storage"
	CategoryOther        = "Other"
)

// ManualCategories is the fixed set offered by the manual entry form.
var ManualCategories = []string{
	CategoryStreaming,
	CategoryDevelopment,
	CategoryDesign,
	CategoryProductivity,
	CategoryAI,
	CategoryCloudStorage,
	CategoryOther,
}

// Subscription is a tracked recurring service subscription. MonthlyCost is
// the per-cycle charge, not a monthly-normalized figure; readers must
// normalize through the insights engine.
type Subscription struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID          snowflake.ID      `gorm:"not null;index" json:"user_id"`
	ServiceName     string            `gorm:"type:text;not null" json:"service_name"`
	Category        string            `gorm:"type:text;not null" json:"category"`
	MonthlyCost     float64           `gorm:"not null;default:0" json:"monthly_cost"`
	BillingCycle    BillingCycle      `gorm:"type:text;not null" json:"billing_cycle"`
	LastUsedDate    *time.Time        `json:"last_used_date,omitempty"`
	NextBillingDate *time.Time        `json:"next_billing_date,omitempty"`
	UsageScore      int               `gorm:"not null;default:0" json:"usage_score"`
	UsageData       datatypes.JSONMap `gorm:"type:jsonb" json:"usage_data,omitempty"`
	Metadata        datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

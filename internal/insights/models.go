package insights

import (
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
)

// Summary is the headline stats block for the dashboard.
type Summary struct {
	Count            int     `json:"count"`
	TotalMonthly     float64 `json:"total_monthly"`
	TotalYearly      float64 `json:"total_yearly"`
	AverageCost      float64 `json:"average_cost"`
	UnusedCount      int     `json:"unused_count"`
	PotentialSavings float64 `json:"potential_savings"`
	UpcomingCount    int     `json:"upcoming_count"`
}

// CategoryTotal is one category rollup group. Percent is the group's share
// of total monthly spend over the same input set.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
	Percent  float64 `json:"percent"`
}

// Rollup groups monthly-equivalent spend by category, largest first.
type Rollup struct {
	Categories  []CategoryTotal `json:"categories"`
	TopCategory string          `json:"top_category,omitempty"`
}

// Advanced is the premium insights block.
type Advanced struct {
	UpcomingRenewals []subscriptiondomain.Subscription `json:"upcoming_renewals"`
	AverageCost      float64                           `json:"average_cost"`
	MonthlyCount     int                               `json:"monthly_count"`
	YearlyCount      int                               `json:"yearly_count"`
	MostExpensive    *subscriptiondomain.Subscription  `json:"most_expensive,omitempty"`
	TopCategory      string                            `json:"top_category,omitempty"`
}

// TrendBucket is one calendar month of the spend trend.
type TrendBucket struct {
	Month  string  `json:"month"` // short month name, e.g. "Jul"
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// CalendarDay holds the renewals landing on one day of the target month.
type CalendarDay struct {
	Day           int                               `json:"day"`
	Subscriptions []subscriptiondomain.Subscription `json:"subscriptions,omitempty"`
}

// MonthRenewal is a renewal within the target month annotated for display.
type MonthRenewal struct {
	Subscription subscriptiondomain.Subscription `json:"subscription"`
	DaysUntil    int                             `json:"days_until"`
	IsUpcoming   bool                            `json:"is_upcoming"`
}

// CalendarMonth is the full calendar view of a target (year, month).
type CalendarMonth struct {
	Year            int            `json:"year"`
	Month           int            `json:"month"`
	DaysInMonth     int            `json:"days_in_month"`
	StartingWeekday int            `json:"starting_weekday"` // 0 = Sunday
	Days            []CalendarDay  `json:"days"`
	Renewals        []MonthRenewal `json:"renewals"`
}

// Package insights derives dashboard metrics from tracked subscriptions.
// Every computation is a pure function of the input set and the injected
// clock; nothing here touches storage.
package insights

import (
	"math"
	"sort"
	"time"

	"github.com/smallbiznis/subsense/internal/clock"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// UnusedAfterDays is the inactivity threshold: strictly more elapsed days
// than this marks a subscription unused.
const UnusedAfterDays = 30

// UpcomingWindowDays bounds the upcoming-renewal window, inclusive on both
// ends (due today counts, due in eight days does not).
const UpcomingWindowDays = 7

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
}

type Engine struct {
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Engine {
	return &Engine{
		log:   p.Log.Named("insights"),
		clock: p.Clock,
	}
}

// MonthlyEquivalent normalizes a subscription's per-cycle cost to a monthly
// figure. Yearly costs divide by twelve; unknown cycles pass through as
// monthly so a bad row degrades the total instead of sinking the dashboard.
func MonthlyEquivalent(s subscriptiondomain.Subscription) float64 {
	cost := sanitizeCost(s.MonthlyCost)
	if s.BillingCycle == subscriptiondomain.BillingCycleYearly {
		return cost / 12
	}
	return cost
}

// TotalMonthly sums monthly-equivalent spend over the set.
func (e *Engine) TotalMonthly(subs []subscriptiondomain.Subscription) float64 {
	var total float64
	for _, s := range subs {
		total += MonthlyEquivalent(s)
	}
	return total
}

// TotalYearly is twelve times the monthly-equivalent total.
func (e *Engine) TotalYearly(subs []subscriptiondomain.Subscription) float64 {
	return e.TotalMonthly(subs) * 12
}

// AverageCost is the mean monthly-equivalent cost, zero for an empty set.
func (e *Engine) AverageCost(subs []subscriptiondomain.Subscription) float64 {
	if len(subs) == 0 {
		return 0
	}
	return e.TotalMonthly(subs) / float64(len(subs))
}

// CategoryRollup groups monthly-equivalent spend by category, ordered by
// total descending with category name as the tie break. Percent shares are
// taken against the set's monthly total and are zero when that total is.
func (e *Engine) CategoryRollup(subs []subscriptiondomain.Subscription) Rollup {
	totals := make(map[string]*CategoryTotal)
	for _, s := range subs {
		category := s.Category
		if category == "" {
			category = subscriptiondomain.CategoryOther
		}
		ct, ok := totals[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			totals[category] = ct
		}
		ct.Total += MonthlyEquivalent(s)
		ct.Count++
	}

	grand := e.TotalMonthly(subs)
	out := Rollup{Categories: make([]CategoryTotal, 0, len(totals))}
	for _, ct := range totals {
		if grand > 0 {
			ct.Percent = ct.Total / grand * 100
		}
		out.Categories = append(out.Categories, *ct)
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		a, b := out.Categories[i], out.Categories[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Category < b.Category
	})
	if len(out.Categories) > 0 {
		out.TopCategory = out.Categories[0].Category
	}
	return out
}

// Unused returns subscriptions whose last recorded use is more than
// UnusedAfterDays whole days ago. A subscription with no recorded use is
// never flagged: absence of data is not evidence of abandonment.
func (e *Engine) Unused(subs []subscriptiondomain.Subscription) []subscriptiondomain.Subscription {
	now := e.clock.Now()
	var out []subscriptiondomain.Subscription
	for _, s := range subs {
		if s.LastUsedDate == nil {
			continue
		}
		if daysBetween(*s.LastUsedDate, now) > UnusedAfterDays {
			out = append(out, s)
		}
	}
	return out
}

// PotentialSavings sums the raw per-cycle cost of unused subscriptions. The
// figure is deliberately not normalized: it answers "what would cancelling
// these stop charging you", and a yearly charge stops in full.
func (e *Engine) PotentialSavings(subs []subscriptiondomain.Subscription) float64 {
	var total float64
	for _, s := range e.Unused(subs) {
		total += sanitizeCost(s.MonthlyCost)
	}
	return total
}

// Upcoming returns subscriptions renewing within the next UpcomingWindowDays
// days, today included. Past-due and undated subscriptions are excluded.
func (e *Engine) Upcoming(subs []subscriptiondomain.Subscription) []subscriptiondomain.Subscription {
	now := e.clock.Now()
	var out []subscriptiondomain.Subscription
	for _, s := range subs {
		if s.NextBillingDate == nil {
			continue
		}
		days := daysBetween(now, *s.NextBillingDate)
		if days >= 0 && days <= UpcomingWindowDays {
			out = append(out, s)
		}
	}
	return out
}

// MostExpensive picks the subscription with the highest raw per-cycle cost.
// Comparison is on the charge as billed, so a 120/year plan outranks an
// 11/month one. Later entries win ties. Nil for an empty set.
func (e *Engine) MostExpensive(subs []subscriptiondomain.Subscription) *subscriptiondomain.Subscription {
	var best *subscriptiondomain.Subscription
	var bestCost float64
	for i := range subs {
		cost := sanitizeCost(subs[i].MonthlyCost)
		if best == nil || cost >= bestCost {
			best = &subs[i]
			bestCost = cost
		}
	}
	if best == nil {
		return nil
	}
	picked := *best
	return &picked
}

// MonthlyTrend buckets spend into the current calendar month and the two
// before it, oldest first. A subscription contributes its raw per-cycle cost
// to every bucket whose month had already started when it was created.
func (e *Engine) MonthlyTrend(subs []subscriptiondomain.Subscription) []TrendBucket {
	now := e.clock.Now()
	buckets := make([]TrendBucket, 0, 3)
	for offset := -2; offset <= 0; offset++ {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, offset, 0)
		bucket := TrendBucket{
			Month: first.Month().String()[:3],
			Year:  first.Year(),
		}
		for _, s := range subs {
			if !s.CreatedAt.After(first) {
				bucket.Amount += sanitizeCost(s.MonthlyCost)
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// Calendar lays the target month out as a grid plus a flat renewal list.
// Renewal matching is by calendar date of NextBillingDate; DaysUntil is
// relative to the clock and may be negative for past days of the month.
func (e *Engine) Calendar(subs []subscriptiondomain.Subscription, year int, month time.Month) CalendarMonth {
	now := e.clock.Now()
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	out := CalendarMonth{
		Year:            year,
		Month:           int(month),
		DaysInMonth:     daysInMonth,
		StartingWeekday: int(first.Weekday()),
		Days:            make([]CalendarDay, daysInMonth),
	}
	for i := range out.Days {
		out.Days[i].Day = i + 1
	}

	for _, s := range subs {
		if s.NextBillingDate == nil {
			continue
		}
		due := *s.NextBillingDate
		if due.Year() != year || due.Month() != month {
			continue
		}
		day := due.Day()
		out.Days[day-1].Subscriptions = append(out.Days[day-1].Subscriptions, s)

		days := daysBetween(now, due)
		out.Renewals = append(out.Renewals, MonthRenewal{
			Subscription: s,
			DaysUntil:    days,
			IsUpcoming:   days >= 0 && days <= UpcomingWindowDays,
		})
	}

	sort.SliceStable(out.Renewals, func(i, j int) bool {
		return out.Renewals[i].Subscription.NextBillingDate.Day() < out.Renewals[j].Subscription.NextBillingDate.Day()
	})
	return out
}

// Summarize produces the headline stats block.
func (e *Engine) Summarize(subs []subscriptiondomain.Subscription) Summary {
	return Summary{
		Count:            len(subs),
		TotalMonthly:     e.TotalMonthly(subs),
		TotalYearly:      e.TotalYearly(subs),
		AverageCost:      e.AverageCost(subs),
		UnusedCount:      len(e.Unused(subs)),
		PotentialSavings: e.PotentialSavings(subs),
		UpcomingCount:    len(e.Upcoming(subs)),
	}
}

// Advanced produces the premium insights block.
func (e *Engine) Advanced(subs []subscriptiondomain.Subscription) Advanced {
	out := Advanced{
		UpcomingRenewals: e.Upcoming(subs),
		AverageCost:      e.AverageCost(subs),
		MostExpensive:    e.MostExpensive(subs),
		TopCategory:      e.CategoryRollup(subs).TopCategory,
	}
	for _, s := range subs {
		if s.BillingCycle == subscriptiondomain.BillingCycleYearly {
			out.YearlyCount++
		} else {
			out.MonthlyCount++
		}
	}
	return out
}

// sanitizeCost clamps non-finite and negative costs to zero so one corrupt
// row cannot poison an aggregate.
func sanitizeCost(cost float64) float64 {
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return 0
	}
	return cost
}

// daysBetween counts whole calendar days from one instant's date to
// another's, ignoring time of day. Negative when to precedes from.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

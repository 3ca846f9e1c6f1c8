package insights

import (
	"math"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/clock"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, time.August, 15, 10, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(Params{Log: zap.NewNop(), Clock: clock.NewFakeClock(testNow)})
}

func ts(t time.Time) *time.Time { return &t }

func sub(id int64, name string, cost float64, cycle subscriptiondomain.BillingCycle) subscriptiondomain.Subscription {
	return subscriptiondomain.Subscription{
		ID:           snowflake.ID(id),
		ServiceName:  name,
		Category:     subscriptiondomain.CategoryOther,
		MonthlyCost:  cost,
		BillingCycle: cycle,
		CreatedAt:    testNow.AddDate(-1, 0, 0),
	}
}

func TestMonthlyEquivalent(t *testing.T) {
	monthly := sub(1, "Netflix", 649, subscriptiondomain.BillingCycleMonthly)
	yearly := sub(2, "GitHub", 120, subscriptiondomain.BillingCycleYearly)

	assert.Equal(t, 649.0, MonthlyEquivalent(monthly))
	assert.Equal(t, 10.0, MonthlyEquivalent(yearly))
}

func TestMonthlyEquivalentSanitizesBadCosts(t *testing.T) {
	for _, cost := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -50} {
		s := sub(1, "Broken", cost, subscriptiondomain.BillingCycleMonthly)
		assert.Equal(t, 0.0, MonthlyEquivalent(s))
	}
}

func TestTotals(t *testing.T) {
	e := newTestEngine(t)
	subs := []subscriptiondomain.Subscription{
		sub(1, "Netflix", 649, subscriptiondomain.BillingCycleMonthly),
		sub(2, "GitHub", 120, subscriptiondomain.BillingCycleYearly),
	}

	assert.InDelta(t, 659.0, e.TotalMonthly(subs), 1e-9)
	assert.InDelta(t, 7908.0, e.TotalYearly(subs), 1e-9)
	assert.InDelta(t, 329.5, e.AverageCost(subs), 1e-9)
}

func TestAverageCostEmptySet(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, 0.0, e.AverageCost(nil))
	assert.Equal(t, 0.0, e.TotalMonthly(nil))
}

func TestCategoryRollup(t *testing.T) {
	e := newTestEngine(t)
	netflix := sub(1, "Netflix", 600, subscriptiondomain.BillingCycleMonthly)
	netflix.Category = subscriptiondomain.CategoryStreaming
	spotify := sub(2, "Spotify", 200, subscriptiondomain.BillingCycleMonthly)
	spotify.Category = subscriptiondomain.CategoryStreaming
	figma := sub(3, "Figma", 200, subscriptiondomain.BillingCycleMonthly)
	figma.Category = subscriptiondomain.CategoryDesign

	out := e.CategoryRollup([]subscriptiondomain.Subscription{netflix, spotify, figma})

	require.Len(t, out.Categories, 2)
	assert.Equal(t, subscriptiondomain.CategoryStreaming, out.TopCategory)
	assert.Equal(t, subscriptiondomain.CategoryStreaming, out.Categories[0].Category)
	assert.Equal(t, 800.0, out.Categories[0].Total)
	assert.Equal(t, 2, out.Categories[0].Count)
	assert.InDelta(t, 80.0, out.Categories[0].Percent, 1e-9)
	assert.InDelta(t, 20.0, out.Categories[1].Percent, 1e-9)
}

func TestCategoryRollupZeroTotal(t *testing.T) {
	e := newTestEngine(t)
	free := sub(1, "Free Tier", 0, subscriptiondomain.BillingCycleMonthly)

	out := e.CategoryRollup([]subscriptiondomain.Subscription{free})

	require.Len(t, out.Categories, 1)
	assert.Equal(t, 0.0, out.Categories[0].Percent)
}

func TestUnusedBoundary(t *testing.T) {
	e := newTestEngine(t)

	at30 := sub(1, "Edge", 100, subscriptiondomain.BillingCycleMonthly)
	at30.LastUsedDate = ts(testNow.AddDate(0, 0, -30))
	at31 := sub(2, "Stale", 100, subscriptiondomain.BillingCycleMonthly)
	at31.LastUsedDate = ts(testNow.AddDate(0, 0, -31))
	never := sub(3, "Unknown", 100, subscriptiondomain.BillingCycleMonthly)

	out := e.Unused([]subscriptiondomain.Subscription{at30, at31, never})

	require.Len(t, out, 1)
	assert.Equal(t, "Stale", out[0].ServiceName)
}

func TestUnusedIgnoresTimeOfDay(t *testing.T) {
	e := newTestEngine(t)

	// 30 days back on the calendar but more than 30*24h ago on the clock.
	s := sub(1, "Edge", 100, subscriptiondomain.BillingCycleMonthly)
	s.LastUsedDate = ts(time.Date(2026, time.July, 16, 23, 59, 0, 0, time.UTC))

	assert.Empty(t, e.Unused([]subscriptiondomain.Subscription{s}))
}

func TestPotentialSavingsUsesRawCost(t *testing.T) {
	e := newTestEngine(t)

	yearly := sub(1, "Adobe", 4999, subscriptiondomain.BillingCycleYearly)
	yearly.LastUsedDate = ts(testNow.AddDate(0, 0, -90))
	active := sub(2, "Netflix", 649, subscriptiondomain.BillingCycleMonthly)
	active.LastUsedDate = ts(testNow.AddDate(0, 0, -2))

	// The full yearly charge counts, not the normalized monthly slice.
	assert.Equal(t, 4999.0, e.PotentialSavings([]subscriptiondomain.Subscription{yearly, active}))
}

func TestUpcomingWindow(t *testing.T) {
	e := newTestEngine(t)

	mk := func(id int64, name string, daysAhead int) subscriptiondomain.Subscription {
		s := sub(id, name, 100, subscriptiondomain.BillingCycleMonthly)
		s.NextBillingDate = ts(testNow.AddDate(0, 0, daysAhead))
		return s
	}
	subs := []subscriptiondomain.Subscription{
		mk(1, "Yesterday", -1),
		mk(2, "Today", 0),
		mk(3, "Week", 7),
		mk(4, "TooFar", 8),
		sub(5, "Undated", 100, subscriptiondomain.BillingCycleMonthly),
	}

	out := e.Upcoming(subs)

	require.Len(t, out, 2)
	assert.Equal(t, "Today", out[0].ServiceName)
	assert.Equal(t, "Week", out[1].ServiceName)
}

func TestMostExpensiveRawCostAndTieBreak(t *testing.T) {
	e := newTestEngine(t)

	subs := []subscriptiondomain.Subscription{
		sub(1, "Monthly11", 11, subscriptiondomain.BillingCycleMonthly),
		sub(2, "Yearly120", 120, subscriptiondomain.BillingCycleYearly),
		sub(3, "AlsoYearly120", 120, subscriptiondomain.BillingCycleYearly),
	}

	got := e.MostExpensive(subs)

	// Raw per-cycle comparison, and the later of two equal costs wins.
	require.NotNil(t, got)
	assert.Equal(t, "AlsoYearly120", got.ServiceName)
}

func TestMostExpensiveEmpty(t *testing.T) {
	e := newTestEngine(t)
	assert.Nil(t, e.MostExpensive(nil))
}

func TestMonthlyTrend(t *testing.T) {
	e := newTestEngine(t)

	old := sub(1, "Old", 100, subscriptiondomain.BillingCycleMonthly)
	old.CreatedAt = time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	julyAdd := sub(2, "July", 50, subscriptiondomain.BillingCycleMonthly)
	julyAdd.CreatedAt = time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	midAugust := sub(3, "MidAugust", 25, subscriptiondomain.BillingCycleMonthly)
	midAugust.CreatedAt = time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)

	out := e.MonthlyTrend([]subscriptiondomain.Subscription{old, julyAdd, midAugust})

	require.Len(t, out, 3)
	assert.Equal(t, "Jun", out[0].Month)
	assert.Equal(t, "Jul", out[1].Month)
	assert.Equal(t, "Aug", out[2].Month)
	assert.Equal(t, 2026, out[0].Year)

	assert.Equal(t, 100.0, out[0].Amount)
	// Created exactly on the first of July counts for July.
	assert.Equal(t, 150.0, out[1].Amount)
	// Created mid August misses the August bucket.
	assert.Equal(t, 150.0, out[2].Amount)
}

func TestCalendar(t *testing.T) {
	e := newTestEngine(t)

	due20 := sub(1, "Netflix", 649, subscriptiondomain.BillingCycleMonthly)
	due20.NextBillingDate = ts(time.Date(2026, time.August, 20, 9, 0, 0, 0, time.UTC))
	due3 := sub(2, "Spotify", 199, subscriptiondomain.BillingCycleMonthly)
	due3.NextBillingDate = ts(time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC))
	otherMonth := sub(3, "GitHub", 10, subscriptiondomain.BillingCycleMonthly)
	otherMonth.NextBillingDate = ts(time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC))

	out := e.Calendar([]subscriptiondomain.Subscription{due20, due3, otherMonth}, 2026, time.August)

	assert.Equal(t, 31, out.DaysInMonth)
	assert.Equal(t, int(time.Saturday), out.StartingWeekday)
	require.Len(t, out.Days, 31)
	require.Len(t, out.Days[19].Subscriptions, 1)
	assert.Equal(t, "Netflix", out.Days[19].Subscriptions[0].ServiceName)
	assert.Empty(t, out.Days[0].Subscriptions)

	require.Len(t, out.Renewals, 2)
	assert.Equal(t, "Spotify", out.Renewals[0].Subscription.ServiceName)
	assert.Equal(t, -12, out.Renewals[0].DaysUntil)
	assert.False(t, out.Renewals[0].IsUpcoming)
	assert.Equal(t, "Netflix", out.Renewals[1].Subscription.ServiceName)
	assert.Equal(t, 5, out.Renewals[1].DaysUntil)
	assert.True(t, out.Renewals[1].IsUpcoming)
}

func TestSummarize(t *testing.T) {
	e := newTestEngine(t)

	stale := sub(1, "Stale", 300, subscriptiondomain.BillingCycleMonthly)
	stale.LastUsedDate = ts(testNow.AddDate(0, 0, -60))
	soon := sub(2, "Soon", 120, subscriptiondomain.BillingCycleYearly)
	soon.NextBillingDate = ts(testNow.AddDate(0, 0, 3))

	got := e.Summarize([]subscriptiondomain.Subscription{stale, soon})

	assert.Equal(t, 2, got.Count)
	assert.InDelta(t, 310.0, got.TotalMonthly, 1e-9)
	assert.InDelta(t, 3720.0, got.TotalYearly, 1e-9)
	assert.InDelta(t, 155.0, got.AverageCost, 1e-9)
	assert.Equal(t, 1, got.UnusedCount)
	assert.Equal(t, 300.0, got.PotentialSavings)
	assert.Equal(t, 1, got.UpcomingCount)
}

func TestAdvanced(t *testing.T) {
	e := newTestEngine(t)

	netflix := sub(1, "Netflix", 649, subscriptiondomain.BillingCycleMonthly)
	netflix.Category = subscriptiondomain.CategoryStreaming
	netflix.NextBillingDate = ts(testNow.AddDate(0, 0, 2))
	github := sub(2, "GitHub", 120, subscriptiondomain.BillingCycleYearly)
	github.Category = subscriptiondomain.CategoryDevelopment

	got := e.Advanced([]subscriptiondomain.Subscription{netflix, github})

	require.Len(t, got.UpcomingRenewals, 1)
	assert.Equal(t, "Netflix", got.UpcomingRenewals[0].ServiceName)
	assert.Equal(t, 1, got.MonthlyCount)
	assert.Equal(t, 1, got.YearlyCount)
	require.NotNil(t, got.MostExpensive)
	assert.Equal(t, "Netflix", got.MostExpensive.ServiceName)
	assert.Equal(t, subscriptiondomain.CategoryStreaming, got.TopCategory)
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2026, time.August, 15, 23, 0, 0, 0, time.UTC)
	b := time.Date(2026, time.August, 16, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, daysBetween(a, b))
	assert.Equal(t, -1, daysBetween(b, a))
	assert.Equal(t, 0, daysBetween(a, a))
}

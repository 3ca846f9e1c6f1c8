package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/reminder/domain"
	"github.com/smallbiznis/subsense/internal/reminder/repository"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/smallbiznis/subsense/internal/usercontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC)

const testUserID int64 = 42

type harness struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node
	fake *clock.FakeClock
	t    *testing.T
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&subscriptiondomain.Subscription{},
		&domain.ReminderSettings{},
		&domain.ReminderEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(testNow)
	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
		Repo:  repository.Provide(),
	})
	return &harness{svc: svc, db: db, node: node, fake: fake, t: t}
}

func (h *harness) seedSub(userID int64, name string, daysAhead int) subscriptiondomain.Subscription {
	h.t.Helper()
	due := testNow.AddDate(0, 0, daysAhead).Truncate(24 * time.Hour)
	sub := subscriptiondomain.Subscription{
		ID:              h.node.Generate(),
		UserID:          snowflake.ID(userID),
		ServiceName:     name,
		Category:        subscriptiondomain.CategoryOther,
		MonthlyCost:     100,
		BillingCycle:    subscriptiondomain.BillingCycleMonthly,
		NextBillingDate: &due,
		CreatedAt:       testNow,
		UpdatedAt:       testNow,
	}
	require.NoError(h.t, h.db.Create(&sub).Error)
	return sub
}

func (h *harness) eventCount() int64 {
	h.t.Helper()
	var n int64
	require.NoError(h.t, h.db.Model(&domain.ReminderEvent{}).Count(&n).Error)
	return n
}

func testCtx() context.Context {
	return usercontext.WithUserID(context.Background(), testUserID)
}

func TestGetSettingsDefaults(t *testing.T) {
	h := newHarness(t)

	settings, err := h.svc.GetSettings(testCtx())
	require.NoError(t, err)
	assert.True(t, settings.Enabled)
	assert.Equal(t, domain.DefaultDaysBefore, settings.DaysBefore)
	assert.False(t, settings.EmailEnabled)
}

func TestUpdateSettings(t *testing.T) {
	h := newHarness(t)

	days := 7
	enabled := false
	settings, err := h.svc.UpdateSettings(testCtx(), domain.UpdateSettingsRequest{
		DaysBefore: &days,
		Enabled:    &enabled,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, settings.DaysBefore)
	assert.False(t, settings.Enabled)

	// Persisted: a second read returns the stored row, not defaults.
	settings, err = h.svc.GetSettings(testCtx())
	require.NoError(t, err)
	assert.Equal(t, 7, settings.DaysBefore)

	bad := 0
	_, err = h.svc.UpdateSettings(testCtx(), domain.UpdateSettingsRequest{DaysBefore: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidDaysBefore)
}

func TestUpcomingWindow(t *testing.T) {
	h := newHarness(t)

	h.seedSub(testUserID, "Today", 0)
	h.seedSub(testUserID, "Soon", 5)
	h.seedSub(testUserID, "Edge", 30)
	h.seedSub(testUserID, "TooFar", 31)
	h.seedSub(testUserID+1, "OtherUser", 5)

	out, err := h.svc.Upcoming(testCtx())
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, "Soon", out[0].Subscription.ServiceName)
	assert.Equal(t, 5, out[0].DaysUntil)
	assert.Equal(t, "Edge", out[1].Subscription.ServiceName)
	assert.Equal(t, 30, out[1].DaysUntil)
}

func TestScanRecordsWithinLeadWindow(t *testing.T) {
	h := newHarness(t)

	h.seedSub(testUserID, "DueTomorrow", 1)
	h.seedSub(testUserID, "DueIn3", 3)
	h.seedSub(testUserID, "DueIn4", 4)
	h.seedSub(testUserID, "DueToday", 0)

	recorded, err := h.svc.Scan(context.Background())
	require.NoError(t, err)

	// Default lead is 3 days; today and day 4 stay out.
	assert.Equal(t, 2, recorded)
	assert.EqualValues(t, 2, h.eventCount())
}

func TestScanIsIdempotent(t *testing.T) {
	h := newHarness(t)

	h.seedSub(testUserID, "DueTomorrow", 1)

	recorded, err := h.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)

	recorded, err = h.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, recorded)
	assert.EqualValues(t, 1, h.eventCount())
}

func TestScanHonorsDisabledSettings(t *testing.T) {
	h := newHarness(t)

	enabled := false
	_, err := h.svc.UpdateSettings(testCtx(), domain.UpdateSettingsRequest{Enabled: &enabled})
	require.NoError(t, err)

	h.seedSub(testUserID, "DueTomorrow", 1)

	recorded, err := h.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, recorded)
}

func TestScanRecordsAgainForNewBillingDate(t *testing.T) {
	h := newHarness(t)

	sub := h.seedSub(testUserID, "DueTomorrow", 1)

	recorded, err := h.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)

	// Next cycle: same subscription, new billing date.
	nextDue := testNow.AddDate(0, 1, 1).Truncate(24 * time.Hour)
	require.NoError(t, h.db.Model(&subscriptiondomain.Subscription{}).
		Where("id = ?", sub.ID).
		Update("next_billing_date", nextDue).Error)
	h.fake.Advance(30 * 24 * time.Hour)

	recorded, err = h.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, recorded)
	assert.EqualValues(t, 2, h.eventCount())
}

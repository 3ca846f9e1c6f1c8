package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/smallbiznis/subsense/internal/clock"
	reminderdomain "github.com/smallbiznis/subsense/internal/reminder/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type reminderStub struct {
	scans    atomic.Int64
	recorded int
	err      error
}

func (r *reminderStub) GetSettings(context.Context) (reminderdomain.ReminderSettings, error) {
	return reminderdomain.ReminderSettings{}, nil
}

func (r *reminderStub) UpdateSettings(context.Context, reminderdomain.UpdateSettingsRequest) (reminderdomain.ReminderSettings, error) {
	return reminderdomain.ReminderSettings{}, nil
}

func (r *reminderStub) Upcoming(context.Context) ([]reminderdomain.UpcomingRenewal, error) {
	return nil, nil
}

func (r *reminderStub) Scan(context.Context) (int, error) {
	r.scans.Add(1)
	return r.recorded, r.err
}

func newTestScheduler(t *testing.T, stub *reminderStub) *Scheduler {
	t.Helper()
	return New(Params{
		Log:         zap.NewNop(),
		Clock:       clock.NewFakeClock(time.Date(2026, time.August, 15, 9, 0, 0, 0, time.UTC)),
		ReminderSvc: stub,
		Config:      Config{RunInterval: 10 * time.Millisecond, RunTimeout: time.Second},
	})
}

func TestRunOnce(t *testing.T) {
	stub := &reminderStub{recorded: 3}
	sched := newTestScheduler(t, stub)

	sched.RunOnce(context.Background())

	assert.EqualValues(t, 1, stub.scans.Load())
}

func TestRunOnceSurvivesScanError(t *testing.T) {
	stub := &reminderStub{err: errors.New("db down")}
	sched := newTestScheduler(t, stub)

	assert.NotPanics(t, func() { sched.RunOnce(context.Background()) })
}

func TestRunForeverStopsOnCancel(t *testing.T) {
	stub := &reminderStub{}
	sched := newTestScheduler(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.RunForever(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return stub.scans.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, time.Hour, cfg.RunInterval)
	assert.Equal(t, 5*time.Minute, cfg.RunTimeout)
}

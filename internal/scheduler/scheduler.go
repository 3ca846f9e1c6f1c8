// Package scheduler drives the periodic reminder scan.
package scheduler

import (
	"context"
	"time"

	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/observability"
	reminderdomain "github.com/smallbiznis/subsense/internal/reminder/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	ReminderSvc reminderdomain.Service
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	reminderSvc reminderdomain.Service
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		reminderSvc: p.ReminderSvc,
	}
}

// RunForever loops the reminder scan until the context is cancelled.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single reminder scan with its own timeout.
func (s *Scheduler) RunOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.cfg.RunTimeout)
	defer cancel()

	start := s.clock.Now()
	recorded, err := s.reminderSvc.Scan(ctx)
	elapsed := s.clock.Now().Sub(start)

	metrics := observability.Scheduler()
	metrics.ObserveRun("reminder_scan", elapsed, err)
	metrics.AddRemindersRecorded(recorded)

	if err != nil {
		s.log.Error("reminder scan failed",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		return
	}
	if recorded > 0 {
		s.log.Info("reminder scan complete",
			zap.Int("recorded", recorded),
			zap.Duration("elapsed", elapsed),
		)
	}
}

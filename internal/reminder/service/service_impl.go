package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/reminder/domain"
	"github.com/smallbiznis/subsense/internal/usercontext"
	"github.com/smallbiznis/subsense/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// upcomingHorizonDays bounds the reminders view.
const upcomingHorizonDays = 30

// maxDaysBefore caps the configurable lead time at the view horizon.
const maxDaysBefore = 30

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reminder.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) GetSettings(ctx context.Context) (domain.ReminderSettings, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ReminderSettings{}, domain.ErrInvalidUser
	}

	settings, err := s.repo.FindSettings(ctx, s.db, userID)
	if err != nil {
		return domain.ReminderSettings{}, err
	}
	if settings != nil {
		return *settings, nil
	}
	return defaultSettings(userID, s.clock.Now()), nil
}

func (s *Service) UpdateSettings(ctx context.Context, req domain.UpdateSettingsRequest) (domain.ReminderSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return domain.ReminderSettings{}, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.DaysBefore != nil {
		if *req.DaysBefore < 1 || *req.DaysBefore > maxDaysBefore {
			return domain.ReminderSettings{}, domain.ErrInvalidDaysBefore
		}
		settings.DaysBefore = *req.DaysBefore
	}
	if req.EmailEnabled != nil {
		settings.EmailEnabled = *req.EmailEnabled
	}
	settings.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveSettings(ctx, s.db, &settings); err != nil {
		return domain.ReminderSettings{}, err
	}
	return settings, nil
}

func (s *Service) Upcoming(ctx context.Context) ([]domain.UpcomingRenewal, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, domain.ErrInvalidUser
	}

	now := s.clock.Now()
	today := truncateToDay(now)
	due, err := s.repo.ListDue(ctx, s.db, today, today.AddDate(0, 0, upcomingHorizonDays))
	if err != nil {
		return nil, err
	}

	var out []domain.UpcomingRenewal
	for _, subscription := range due {
		if subscription.UserID != userID || subscription.NextBillingDate == nil {
			continue
		}
		days := daysBetween(now, *subscription.NextBillingDate)
		if days <= 0 {
			continue
		}
		out = append(out, domain.UpcomingRenewal{Subscription: subscription, DaysUntil: days})
	}
	return out, nil
}

func (s *Service) Scan(ctx context.Context) (int, error) {
	now := s.clock.Now()
	today := truncateToDay(now)
	due, err := s.repo.ListDue(ctx, s.db, today, today.AddDate(0, 0, maxDaysBefore))
	if err != nil {
		return 0, err
	}

	settingsByUser := make(map[snowflake.ID]domain.ReminderSettings)
	recorded := 0
	for _, subscription := range due {
		if subscription.NextBillingDate == nil {
			continue
		}

		settings, ok := settingsByUser[subscription.UserID]
		if !ok {
			found, err := s.repo.FindSettings(ctx, s.db, subscription.UserID)
			if err != nil {
				return recorded, err
			}
			if found != nil {
				settings = *found
			} else {
				settings = defaultSettings(subscription.UserID, now)
			}
			settingsByUser[subscription.UserID] = settings
		}
		if !settings.Enabled {
			continue
		}

		days := daysBetween(now, *subscription.NextBillingDate)
		if days <= 0 || days > settings.DaysBefore {
			continue
		}

		event := domain.ReminderEvent{
			ID:             s.genID.Generate(),
			UserID:         subscription.UserID,
			SubscriptionID: subscription.ID,
			BillingDate:    truncateToDay(*subscription.NextBillingDate),
			SentAt:         now,
		}
		if err := s.repo.InsertEvent(ctx, s.db, &event); err != nil {
			// Already reminded for this billing date.
			if db.IsDuplicateKeyErr(err) {
				continue
			}
			return recorded, err
		}
		recorded++
		s.log.Info("reminder recorded",
			zap.String("subscription_id", subscription.ID.String()),
			zap.String("service", subscription.ServiceName),
			zap.Int("days_until", days),
		)
	}
	return recorded, nil
}

func defaultSettings(userID snowflake.ID, now time.Time) domain.ReminderSettings {
	return domain.ReminderSettings{
		UserID:     userID,
		Enabled:    true,
		DaysBefore: domain.DefaultDaysBefore,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(truncateToDay(to).Sub(truncateToDay(from)).Hours() / 24)
}

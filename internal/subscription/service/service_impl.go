package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/smallbiznis/subsense/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

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
		log:   p.Log.Named("subscription.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateSubscriptionRequest) (domain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Subscription{}, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.ServiceName)
	if name == "" {
		return domain.Subscription{}, domain.ErrInvalidServiceName
	}
	if !req.BillingCycle.Valid() {
		return domain.Subscription{}, domain.ErrInvalidBillingCycle
	}
	if req.MonthlyCost < 0 || math.IsNaN(req.MonthlyCost) || math.IsInf(req.MonthlyCost, 0) {
		return domain.Subscription{}, domain.ErrNegativeCost
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.CategoryOther
	}

	now := s.clock.Now()
	subscription := domain.Subscription{
		ID:              s.genID.Generate(),
		UserID:          userID,
		ServiceName:     name,
		Category:        category,
		MonthlyCost:     req.MonthlyCost,
		BillingCycle:    req.BillingCycle,
		LastUsedDate:    req.LastUsedDate,
		NextBillingDate: req.NextBillingDate,
		UsageData:       datatypes.JSONMap{},
		Metadata:        toJSONMap(req.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if subscription.NextBillingDate == nil {
		due := defaultNextBilling(now, req.BillingCycle)
		subscription.NextBillingDate = &due
	}

	if err := s.repo.Insert(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}

	s.log.Info("subscription created",
		zap.String("subscription_id", subscription.ID.String()),
		zap.String("service", subscription.ServiceName),
		zap.String("cycle", string(subscription.BillingCycle)),
	)
	return subscription, nil
}

func (s *Service) List(ctx context.Context, req domain.ListSubscriptionRequest) (domain.ListSubscriptionResponse, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.ListSubscriptionResponse{}, domain.ErrInvalidUser
	}

	subscriptions, err := s.repo.List(ctx, s.db, userID, domain.ListFilter{
		Category:     strings.TrimSpace(req.Category),
		BillingCycle: strings.TrimSpace(req.BillingCycle),
		Search:       strings.TrimSpace(req.Search),
	})
	if err != nil {
		return domain.ListSubscriptionResponse{}, err
	}
	return domain.ListSubscriptionResponse{Subscriptions: subscriptions}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Subscription{}, domain.ErrInvalidUser
	}
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.Subscription{}, domain.ErrSubscriptionNotFound
	}

	subscription, err := s.repo.FindByID(ctx, s.db, userID, parsed)
	if err != nil {
		return domain.Subscription{}, err
	}
	if subscription == nil {
		return domain.Subscription{}, domain.ErrSubscriptionNotFound
	}
	return *subscription, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateSubscriptionRequest) (domain.Subscription, error) {
	subscription, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}

	if req.ServiceName != nil {
		name := strings.TrimSpace(*req.ServiceName)
		if name == "" {
			return domain.Subscription{}, domain.ErrInvalidServiceName
		}
		subscription.ServiceName = name
	}
	if req.Category != nil {
		subscription.Category = strings.TrimSpace(*req.Category)
		if subscription.Category == "" {
			subscription.Category = domain.CategoryOther
		}
	}
	if req.MonthlyCost != nil {
		if *req.MonthlyCost < 0 || math.IsNaN(*req.MonthlyCost) || math.IsInf(*req.MonthlyCost, 0) {
			return domain.Subscription{}, domain.ErrNegativeCost
		}
		subscription.MonthlyCost = *req.MonthlyCost
	}
	if req.BillingCycle != nil {
		if !req.BillingCycle.Valid() {
			return domain.Subscription{}, domain.ErrInvalidBillingCycle
		}
		subscription.BillingCycle = *req.BillingCycle
	}
	if req.NextBillingDate != nil {
		subscription.NextBillingDate = req.NextBillingDate
	}
	subscription.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}
	return subscription, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	subscription, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, subscription.UserID, subscription.ID)
}

// MarkUsed stamps last_used_date with today's date.
func (s *Service) MarkUsed(ctx context.Context, id string) (domain.Subscription, error) {
	subscription, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, err
	}

	now := s.clock.Now()
	today := truncateToDay(now)
	subscription.LastUsedDate = &today
	subscription.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, &subscription); err != nil {
		return domain.Subscription{}, err
	}
	return subscription, nil
}

// RecordUsage stores a usage snapshot against the subscription matching
// serviceName and refreshes last_used_date.
func (s *Service) RecordUsage(ctx context.Context, serviceName string, score int, data map[string]any) (domain.Subscription, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Subscription{}, domain.ErrInvalidUser
	}

	subscription, err := s.repo.FindByService(ctx, s.db, userID, strings.TrimSpace(serviceName))
	if err != nil {
		return domain.Subscription{}, err
	}
	if subscription == nil {
		return domain.Subscription{}, domain.ErrSubscriptionNotFound
	}

	now := s.clock.Now()
	today := truncateToDay(now)
	subscription.LastUsedDate = &today
	subscription.UsageScore = score
	subscription.UsageData = toJSONMap(data)
	subscription.UpdatedAt = now

	if err := s.repo.Update(ctx, s.db, subscription); err != nil {
		return domain.Subscription{}, err
	}
	return *subscription, nil
}

// defaultNextBilling mirrors the receipt importer fallback: 30 days out for
// monthly plans, 365 for yearly.
func defaultNextBilling(now time.Time, cycle domain.BillingCycle) time.Time {
	days := 30
	if cycle == domain.BillingCycleYearly {
		days = 365
	}
	return truncateToDay(now.AddDate(0, 0, days))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toJSONMap(m map[string]any) datatypes.JSONMap {
	if m == nil {
		return datatypes.JSONMap{}
	}
	return datatypes.JSONMap(m)
}

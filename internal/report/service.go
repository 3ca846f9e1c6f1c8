// Package report renders subscription exports: CSV tables for any tier and
// the PDF spend report for premium accounts.
package report

import (
	"context"

	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/insights"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Insights      *insights.Engine
	Subscriptions subscriptiondomain.Service
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	insights      *insights.Engine
	subscriptions subscriptiondomain.Service
}

func New(p Params) *Service {
	return &Service{
		log:           p.Log.Named("report.service"),
		clock:         p.Clock,
		insights:      p.Insights,
		subscriptions: p.Subscriptions,
	}
}

func (s *Service) SubscriptionsCSV(ctx context.Context) ([]byte, error) {
	subs, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return SubscriptionsCSV(subs)
}

func (s *Service) UsageCSV(ctx context.Context) ([]byte, error) {
	subs, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return UsageCSV(subs)
}

func (s *Service) SpendReportPDF(ctx context.Context) ([]byte, error) {
	subs, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return SpendReportPDF(PDFData{
		GeneratedAt:   s.clock.Now().Format("2006-01-02"),
		Summary:       s.insights.Summarize(subs),
		Rollup:        s.insights.CategoryRollup(subs),
		Subscriptions: subs,
	})
}

func (s *Service) list(ctx context.Context) ([]subscriptiondomain.Subscription, error) {
	resp, err := s.subscriptions.List(ctx, subscriptiondomain.ListSubscriptionRequest{})
	if err != nil {
		return nil, err
	}
	return resp.Subscriptions, nil
}

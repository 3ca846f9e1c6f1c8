// Package usage refreshes subscription usage signals from activity providers.
package usage

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/subsense/internal/clock"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/smallbiznis/subsense/internal/usage/github"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidUsername = errors.New("invalid_username")

type TrackGitHubRequest struct {
	Username string `json:"username"`
	// ServiceName picks the subscription to refresh; defaults to "GitHub".
	ServiceName string `json:"service_name,omitempty"`
}

type TrackResult struct {
	Subscription subscriptiondomain.Subscription `json:"subscription"`
	Activity     github.Activity                 `json:"activity"`
	Score        int                             `json:"score"`
}

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	GitHub        *github.Client
	Subscriptions subscriptiondomain.Service
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	github        *github.Client
	subscriptions subscriptiondomain.Service
}

func New(p Params) *Service {
	return &Service{
		log:           p.Log.Named("usage.service"),
		clock:         p.Clock,
		github:        p.GitHub,
		subscriptions: p.Subscriptions,
	}
}

// TrackGitHub pulls the user's recent GitHub activity, scores it and stores
// the snapshot on the matching subscription.
func (s *Service) TrackGitHub(ctx context.Context, req TrackGitHubRequest) (TrackResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return TrackResult{}, ErrInvalidUsername
	}
	serviceName := strings.TrimSpace(req.ServiceName)
	if serviceName == "" {
		serviceName = "GitHub"
	}

	activity, err := s.github.FetchActivity(ctx, username, s.clock.Now())
	if err != nil {
		return TrackResult{}, err
	}
	score := activity.Score()

	data := map[string]any{
		"provider":      "github",
		"username":      activity.Username,
		"active_repos":  activity.ActiveRepos,
		"total_commits": activity.TotalCommits,
		"fetched_at":    activity.FetchedAt,
	}
	subscription, err := s.subscriptions.RecordUsage(ctx, serviceName, score, data)
	if err != nil {
		return TrackResult{}, err
	}

	s.log.Info("usage tracked",
		zap.String("service", serviceName),
		zap.String("username", username),
		zap.Int("score", score),
	)
	return TrackResult{Subscription: subscription, Activity: activity, Score: score}, nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/smallbiznis/subsense/internal/clock"
	"github.com/smallbiznis/subsense/internal/profile/domain"
	"github.com/smallbiznis/subsense/internal/usercontext"
	"github.com/smallbiznis/subsense/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("profile.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Profile, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return domain.Profile{}, domain.ErrInvalidUser
	}

	profile, err := s.repo.Find(ctx, s.db, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile != nil {
		return *profile, nil
	}

	// First access provisions a free-tier record.
	now := s.clock.Now()
	created := domain.Profile{
		UserID:           userID,
		SubscriptionTier: domain.TierFree,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &created); err != nil {
		if db.IsDuplicateKeyErr(err) {
			if existing, findErr := s.repo.Find(ctx, s.db, userID); findErr == nil && existing != nil {
				return *existing, nil
			}
		}
		return domain.Profile{}, err
	}
	s.log.Info("profile provisioned", zap.String("user_id", userID.String()))
	return created, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (domain.Profile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	if req.Name != nil {
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		profile.Email = strings.TrimSpace(*req.Email)
	}
	profile.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &profile); err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

func (s *Service) IsPremium(ctx context.Context) (bool, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return profile.EffectiveTier(s.clock.Now()) == domain.TierPremium, nil
}

func (s *Service) UpgradeToPremium(ctx context.Context, expiresAt *time.Time) (domain.Profile, error) {
	profile, err := s.Get(ctx)
	if err != nil {
		return domain.Profile{}, err
	}

	profile.SubscriptionTier = domain.TierPremium
	profile.PremiumExpiresAt = expiresAt
	profile.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &profile); err != nil {
		return domain.Profile{}, err
	}
	s.log.Info("profile upgraded",
		zap.String("user_id", profile.UserID.String()),
		zap.Timep("premium_expires_at", expiresAt),
	)
	return profile, nil
}

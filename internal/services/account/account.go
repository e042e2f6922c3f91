// Package account reports the subscription state of the current user:
// plan, limits, usage counters and usage percentages.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/models"
)

// UserProvider supplies the user snapshot and usage counters.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UsageCounts(ctx context.Context, userUID string) (models.Usage, error)
}

// Cache describes the caching methods the service uses.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// UsageSummary is the account dashboard payload.
type UsageSummary struct {
	Plan             models.Plan                        `json:"plan"`
	PaymentStatus    models.PaymentStatus               `json:"payment_status"`
	TrialExpiresAt   *time.Time                         `json:"trial_expires_at,omitempty"`
	PremiumExpiresAt *time.Time                         `json:"premium_expires_at,omitempty"`
	HasPremium       bool                               `json:"has_premium_access"`
	Limits           entitlement.Limits                 `json:"limits"`
	Usage            models.Usage                       `json:"usage"`
	Percentages      map[entitlement.Resource]float64   `json:"usage_percentage"`
}

// Service assembles the usage summary.
type Service struct {
	users  UserProvider
	cache  Cache
	engine *entitlement.Engine
	log    *slog.Logger
}

// New creates an account Service.
func New(users UserProvider, cache Cache, engine *entitlement.Engine, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		cache:  cache,
		engine: engine,
		log:    log,
	}
}

// Usage returns the subscription summary of a user. The summary is
// cached briefly; resource services invalidate the key on writes.
func (s *Service) Usage(ctx context.Context, userUID string) (*UsageSummary, error) {
	cacheKey := fmt.Sprintf("usage:%s", userUID)
	var cached *UsageSummary
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && cached != nil {
		return cached, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	usage, err := s.users.UsageCounts(ctx, userUID)
	if err != nil {
		return nil, err
	}

	summary := &UsageSummary{
		Plan:             user.Plan,
		PaymentStatus:    user.PaymentStatus,
		TrialExpiresAt:   user.TrialExpiresAt,
		PremiumExpiresAt: user.PremiumExpiresAt,
		HasPremium:       s.engine.HasPremiumAccess(*user),
		Limits:           s.engine.CurrentLimits(*user),
		Usage:            usage,
		Percentages:      s.engine.UsagePercentage(*user, usage),
	}
	if err := s.cache.Set(cacheKey, summary, 5*time.Minute); err != nil {
		s.log.Warn("failed to cache usage summary", slog.String("key", cacheKey), sl.Err(err))
	}
	return summary, nil
}

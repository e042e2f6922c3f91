package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agenciahub/agenciahub/internal/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestCanCreate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(func() time.Time { return now })
	future := timePtr(now.AddDate(0, 0, 5))

	tests := []struct {
		name        string
		resource    Resource
		user        models.User
		usage       models.Usage
		wantAllowed bool
		wantMessage string
	}{
		{
			name:        "free plan below client limit",
			resource:    ResourceClients,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Clients: 2},
			wantAllowed: true,
		},
		{
			name:        "free plan at client limit",
			resource:    ResourceClients,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Clients: 3},
			wantAllowed: false,
			wantMessage: "clients limit of 3 reached for the free plan",
		},
		{
			name:        "free plan over client limit",
			resource:    ResourceClients,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Clients: 7},
			wantAllowed: false,
			wantMessage: "clients limit of 3 reached for the free plan",
		},
		{
			name:        "free plan at diagnostic limit",
			resource:    ResourceDiagnostics,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Diagnostics: 1},
			wantAllowed: false,
			wantMessage: "diagnostics limit of 1 reached for the free plan",
		},
		{
			name:        "free plan at task limit",
			resource:    ResourceTasks,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Tasks: 10},
			wantAllowed: false,
		},
		{
			name:        "free plan at meeting limit",
			resource:    ResourceMeetings,
			user:        models.User{Plan: models.PlanFree},
			usage:       models.Usage{Meetings: 5},
			wantAllowed: false,
		},
		{
			name:        "trial plan is unlimited",
			resource:    ResourceClients,
			user:        models.User{Plan: models.PlanTrial, TrialExpiresAt: future},
			usage:       models.Usage{Clients: 1000},
			wantAllowed: true,
		},
		{
			name:        "premium plan is unlimited",
			resource:    ResourceTasks,
			user:        models.User{Plan: models.PlanPremium},
			usage:       models.Usage{Tasks: 1000},
			wantAllowed: true,
		},
		{
			name:        "unknown plan fails closed",
			resource:    ResourceClients,
			user:        models.User{Plan: "golden"},
			usage:       models.Usage{},
			wantAllowed: false,
			wantMessage: `unknown plan "golden"`,
		},
		{
			name:        "trial without expiry date fails closed",
			resource:    ResourceClients,
			user:        models.User{Plan: models.PlanTrial},
			usage:       models.Usage{},
			wantAllowed: false,
			wantMessage: "trial plan without expiry date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := engine.CanCreate(tt.resource, tt.user, tt.usage)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, d.Message)
			}
		})
	}
}

func TestIsTrialExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(func() time.Time { return now })

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "trial still running",
			user: models.User{Plan: models.PlanTrial, TrialExpiresAt: timePtr(now.Add(time.Hour))},
			want: false,
		},
		{
			name: "trial expires exactly now",
			user: models.User{Plan: models.PlanTrial, TrialExpiresAt: timePtr(now)},
			want: false,
		},
		{
			name: "trial lapsed",
			user: models.User{Plan: models.PlanTrial, TrialExpiresAt: timePtr(now.Add(-time.Second))},
			want: true,
		},
		{
			name: "trial without expiry counts as expired",
			user: models.User{Plan: models.PlanTrial},
			want: true,
		},
		{
			name: "free plan never trial-expires",
			user: models.User{Plan: models.PlanFree},
			want: false,
		},
		{
			name: "premium plan never trial-expires",
			user: models.User{Plan: models.PlanPremium, TrialExpiresAt: timePtr(now.Add(-time.Hour))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsTrialExpired(tt.user))
		})
	}
}

func TestIsPremiumExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(func() time.Time { return now })

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "premium still running",
			user: models.User{Plan: models.PlanPremium, PremiumExpiresAt: timePtr(now.Add(time.Hour))},
			want: false,
		},
		{
			name: "premium lapsed",
			user: models.User{Plan: models.PlanPremium, PremiumExpiresAt: timePtr(now.Add(-time.Hour))},
			want: true,
		},
		{
			name: "premium without expiry never expires",
			user: models.User{Plan: models.PlanPremium},
			want: false,
		},
		{
			name: "trial plan never premium-expires",
			user: models.User{Plan: models.PlanTrial, PremiumExpiresAt: timePtr(now.Add(-time.Hour))},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.IsPremiumExpired(tt.user))
		})
	}
}

func TestHasPremiumAccess(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := NewWithClock(func() time.Time { return now })
	future := timePtr(now.Add(time.Hour))
	past := timePtr(now.Add(-time.Hour))

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "active premium",
			user: models.User{Plan: models.PlanPremium, PaymentStatus: models.PaymentActive, PremiumExpiresAt: future},
			want: true,
		},
		{
			name: "premium with pending payment",
			user: models.User{Plan: models.PlanPremium, PaymentStatus: models.PaymentPending, PremiumExpiresAt: future},
			want: false,
		},
		{
			name: "expired premium",
			user: models.User{Plan: models.PlanPremium, PaymentStatus: models.PaymentActive, PremiumExpiresAt: past},
			want: false,
		},
		{
			name: "trial user has no premium access",
			user: models.User{Plan: models.PlanTrial, PaymentStatus: models.PaymentActive},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.HasPremiumAccess(tt.user))
		})
	}
}

func TestCurrentLimits(t *testing.T) {
	engine := New()

	free := engine.CurrentLimits(models.User{Plan: models.PlanFree})
	assert.Equal(t, 3, free.Clients)
	assert.Equal(t, 1, free.Diagnostics)
	assert.Equal(t, 10, free.Tasks)
	assert.Equal(t, 5, free.Meetings)

	trial := engine.CurrentLimits(models.User{Plan: models.PlanTrial})
	assert.Equal(t, Unlimited, trial.Clients)
	assert.Equal(t, 7, trial.TrialDays)

	// Unknown plans fall back to the free tier.
	unknown := engine.CurrentLimits(models.User{Plan: "golden"})
	assert.Equal(t, free, unknown)
}

func TestUsagePercentage(t *testing.T) {
	engine := New()

	t.Run("free plan", func(t *testing.T) {
		pct := engine.UsagePercentage(
			models.User{Plan: models.PlanFree},
			models.Usage{Clients: 2, Diagnostics: 1, Tasks: 5, Meetings: 20},
		)
		assert.InDelta(t, 66.67, pct[ResourceClients], 0.01)
		assert.InDelta(t, 100, pct[ResourceDiagnostics], 0.01)
		assert.InDelta(t, 50, pct[ResourceTasks], 0.01)
		// Usage above the limit is clamped at 100.
		assert.InDelta(t, 100, pct[ResourceMeetings], 0.01)
	})

	t.Run("unlimited resources report zero", func(t *testing.T) {
		pct := engine.UsagePercentage(
			models.User{Plan: models.PlanPremium},
			models.Usage{Clients: 9999, Diagnostics: 9999, Tasks: 9999, Meetings: 9999},
		)
		for _, r := range Resources {
			assert.Zero(t, pct[r])
		}
	})
}

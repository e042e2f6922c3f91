package entitlement

import (
	"fmt"
	"time"

	"github.com/agenciahub/agenciahub/internal/models"
)

// Decision is the outcome of a policy check. Message is set on denial
// and is safe to surface to the client as a 403 body.
type Decision struct {
	Allowed bool
	Message string
}

// allow is the positive decision with no message.
var allow = Decision{Allowed: true}

func deny(format string, args ...any) Decision {
	return Decision{Message: fmt.Sprintf(format, args...)}
}

// Engine evaluates plan entitlements. The zero value is not usable;
// construct with New. The clock is injectable so expiry checks can be
// tested against a fixed instant.
type Engine struct {
	now func() time.Time
}

// New creates an Engine using the wall clock.
func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock creates an Engine with a custom time source.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// CanCreate reports whether the user may create one more resource of
// the given type under their plan quota. It does not consider trial or
// premium expiry, which are separate checks applied earlier in the
// middleware chain. A malformed entitlement record (unknown plan, or a
// trial plan without an expiry date) fails closed.
func (e *Engine) CanCreate(r Resource, user models.User, usage models.Usage) Decision {
	if !user.Plan.Valid() {
		return deny("unknown plan %q", user.Plan)
	}
	if user.Plan == models.PlanTrial && user.TrialExpiresAt == nil {
		return deny("trial plan without expiry date")
	}

	limit := LimitsFor(user.Plan).For(r)
	if limit == Unlimited {
		return allow
	}
	if usageFor(usage, r) < limit {
		return allow
	}
	return deny("%s limit of %d reached for the %s plan", r, limit, user.Plan)
}

// IsTrialExpired reports whether the user's trial window has lapsed.
// Always false for non-trial plans. A trial user without an expiry date
// is a broken record and counts as expired.
func (e *Engine) IsTrialExpired(user models.User) bool {
	if user.Plan != models.PlanTrial {
		return false
	}
	if user.TrialExpiresAt == nil {
		return true
	}
	return e.now().After(*user.TrialExpiresAt)
}

// IsPremiumExpired reports whether the user's premium window has lapsed.
// False for non-premium plans. A premium user without an expiry date
// never expires.
func (e *Engine) IsPremiumExpired(user models.User) bool {
	if user.Plan != models.PlanPremium || user.PremiumExpiresAt == nil {
		return false
	}
	return e.now().After(*user.PremiumExpiresAt)
}

// HasPremiumAccess reports whether the user currently holds
// premium-grade access: premium plan, active payment, not expired.
func (e *Engine) HasPremiumAccess(user models.User) bool {
	return user.Plan == models.PlanPremium &&
		user.PaymentStatus == models.PaymentActive &&
		!e.IsPremiumExpired(user)
}

// CurrentLimits returns the quota table applied to the user.
func (e *Engine) CurrentLimits(user models.User) Limits {
	return LimitsFor(user.Plan)
}

// UsagePercentage returns, per resource, how much of the quota is
// consumed as a value in [0, 100]. Unlimited resources always report 0;
// usage beyond the limit is clamped at 100.
func (e *Engine) UsagePercentage(user models.User, usage models.Usage) map[Resource]float64 {
	limits := LimitsFor(user.Plan)
	result := make(map[Resource]float64, len(Resources))
	for _, r := range Resources {
		limit := limits.For(r)
		if limit == Unlimited || limit == 0 {
			result[r] = 0
			continue
		}
		pct := float64(usageFor(usage, r)) / float64(limit) * 100
		if pct > 100 {
			pct = 100
		}
		result[r] = pct
	}
	return result
}

func usageFor(u models.Usage, r Resource) int {
	switch r {
	case ResourceClients:
		return u.Clients
	case ResourceDiagnostics:
		return u.Diagnostics
	case ResourceTasks:
		return u.Tasks
	case ResourceMeetings:
		return u.Meetings
	}
	return 0
}

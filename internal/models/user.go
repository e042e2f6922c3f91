// Package models contains the domain structures shared by the business
// logic and the storage layer: users with their plan entitlement data,
// clients, tasks, meetings, diagnostics and timeline events.
package models

import "time"

// Plan is the subscription tier of a user. It selects the limit table
// applied by the entitlement engine.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanTrial   Plan = "trial"
	PlanPremium Plan = "premium"
)

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanTrial || p == PlanPremium
}

// PaymentStatus is the billing state of a user, independent of the plan.
// An expired or cancelled status revokes premium access even when no
// quota is exceeded.
type PaymentStatus string

const (
	PaymentActive    PaymentStatus = "active"
	PaymentPending   PaymentStatus = "pending"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentExpired   PaymentStatus = "expired"
)

// User represents a registered agency operator. TrialExpiresAt is set
// only for trial users, PremiumExpiresAt only for premium users; a nil
// premium expiry means the subscription does not expire.
type User struct {
	UID              string
	Email            string
	Username         string
	PasswordHash     string
	Role             string
	Plan             Plan
	PaymentStatus    PaymentStatus
	TrialExpiresAt   *time.Time
	PremiumExpiresAt *time.Time
	CreatedAt        time.Time
}

// Usage holds the live resource counts owned by a user. The counters are
// derived by the storage layer (COUNT of live rows) and are never
// mutated by policy code.
type Usage struct {
	Clients     int `json:"clients"`
	Diagnostics int `json:"diagnostics"`
	Tasks       int `json:"tasks"`
	Meetings    int `json:"meetings"`
}

// DummyRegisterRequest receives registration data from a JSON request.
type DummyRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}

// DummyLoginRequest receives login credentials from a JSON request.
type DummyLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Package entitlement decides what a user's subscription plan allows:
// per-resource creation quotas, trial and premium expiry, and usage
// reporting. The package is a pure policy evaluator. It reads a user
// snapshot and answers questions, never touching storage or mutating
// its inputs.
package entitlement

import "github.com/agenciahub/agenciahub/internal/models"

// Resource identifies a quota-gated resource type.
type Resource string

const (
	ResourceClients     Resource = "clients"
	ResourceDiagnostics Resource = "diagnostics"
	ResourceTasks       Resource = "tasks"
	ResourceMeetings    Resource = "meetings"
)

// Resources lists every quota-gated resource type.
var Resources = []Resource{ResourceClients, ResourceDiagnostics, ResourceTasks, ResourceMeetings}

// Unlimited is the sentinel limit value meaning no quota applies.
const Unlimited = -1

// Limits is the per-plan quota table: one limit per resource type plus
// the trial window length. A limit of Unlimited disables the quota.
type Limits struct {
	Clients     int `json:"clients"`
	Diagnostics int `json:"diagnostics"`
	Tasks       int `json:"tasks"`
	Meetings    int `json:"meetings"`
	TrialDays   int `json:"trial_days,omitempty"`
}

// For returns the limit for a single resource type.
func (l Limits) For(r Resource) int {
	switch r {
	case ResourceClients:
		return l.Clients
	case ResourceDiagnostics:
		return l.Diagnostics
	case ResourceTasks:
		return l.Tasks
	case ResourceMeetings:
		return l.Meetings
	}
	return 0
}

// planLimits maps each plan to its immutable quota table. Unknown plans
// fall back to the free tier, the most restrictive one.
var planLimits = map[models.Plan]Limits{
	models.PlanFree: {
		Clients:     3,
		Diagnostics: 1,
		Tasks:       10,
		Meetings:    5,
	},
	models.PlanTrial: {
		Clients:     Unlimited,
		Diagnostics: Unlimited,
		Tasks:       Unlimited,
		Meetings:    Unlimited,
		TrialDays:   7,
	},
	models.PlanPremium: {
		Clients:     Unlimited,
		Diagnostics: Unlimited,
		Tasks:       Unlimited,
		Meetings:    Unlimited,
	},
}

// LimitsFor returns the quota table of a plan, defaulting to the free
// tier for unknown plans.
func LimitsFor(plan models.Plan) Limits {
	if l, ok := planLimits[plan]; ok {
		return l
	}
	return planLimits[models.PlanFree]
}

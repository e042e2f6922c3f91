// Package metrics exposes the prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PolicyDenials counts rejected requests by denial reason
// (quota_exceeded, trial_expired, premium_expired, schedule_conflict).
var PolicyDenials = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "agenciahub_policy_denials_total",
		Help: "Requests rejected by entitlement or scheduling policy.",
	},
	[]string{"reason"},
)

// Denial reasons.
const (
	ReasonQuotaExceeded    = "quota_exceeded"
	ReasonTrialExpired     = "trial_expired"
	ReasonPremiumExpired   = "premium_expired"
	ReasonScheduleConflict = "schedule_conflict"
)

// Package errs defines the sentinel errors the services return and the
// handlers translate into HTTP status codes: policy denials map to 403,
// scheduling conflicts to 409, validation failures to 400 and missing
// records to 404.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a record does not exist or is owned
	// by another user.
	ErrNotFound = errors.New("not found")

	// ErrTrialExpired is returned when the trial window of the user has
	// lapsed.
	ErrTrialExpired = errors.New("trial expired, access denied")

	// ErrPremiumExpired is returned when the premium subscription of
	// the user has lapsed.
	ErrPremiumExpired = errors.New("premium subscription expired, access denied")

	// ErrQuotaExceeded is the base error wrapped by QuotaError.
	ErrQuotaExceeded = errors.New("plan quota exceeded")

	// ErrScheduleConflict is returned when a candidate meeting overlaps
	// an existing one.
	ErrScheduleConflict = errors.New("a meeting is already scheduled in this time slot")

	// ErrPastDate is returned when a meeting is booked at or before the
	// current instant.
	ErrPastDate = errors.New("meeting must be scheduled in the future")

	// ErrInvalidStatus is returned for an unknown meeting status value.
	ErrInvalidStatus = errors.New("invalid meeting status")

	// ErrInvalidDate is returned when a date field fails to parse.
	ErrInvalidDate = errors.New("invalid date format")
)

// QuotaError carries the human-readable denial message produced by the
// entitlement engine. It matches ErrQuotaExceeded under errors.Is.
type QuotaError struct {
	Message string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("plan quota exceeded: %s", e.Message)
}

// Unwrap makes errors.Is(err, ErrQuotaExceeded) hold.
func (e *QuotaError) Unwrap() error {
	return ErrQuotaExceeded
}

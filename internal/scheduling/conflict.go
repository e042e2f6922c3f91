// Package scheduling implements conflict detection for meeting booking:
// a candidate interval is rejected when it overlaps any active meeting
// of the same user. The package is a pure leaf and operates on a
// snapshot of meetings handed in by the caller.
package scheduling

import (
	"time"

	"github.com/agenciahub/agenciahub/internal/models"
)

// Overlaps reports whether the half-open intervals [aStart, aStart+aDur)
// and [bStart, bStart+bDur) intersect. Touching endpoints, where one
// meeting starts exactly when another ends, do not overlap.
func Overlaps(aStart time.Time, aDur time.Duration, bStart time.Time, bDur time.Duration) bool {
	aEnd := aStart.Add(aDur)
	bEnd := bStart.Add(bDur)
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// FindConflict returns the first existing meeting whose interval
// overlaps the candidate, or nil when the slot is free. Cancelled and
// completed meetings are skipped, as is the candidate itself when it is
// being rescheduled (matched by ID).
func FindConflict(candidate models.Meeting, existing []models.Meeting) *models.Meeting {
	dur := time.Duration(candidate.DurationMinutes) * time.Minute
	for i := range existing {
		m := existing[i]
		if m.ID == candidate.ID {
			continue
		}
		if !m.Active() {
			continue
		}
		if Overlaps(candidate.DateTime, dur, m.DateTime, time.Duration(m.DurationMinutes)*time.Minute) {
			return &existing[i]
		}
	}
	return nil
}

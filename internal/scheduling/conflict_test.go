package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agenciahub/agenciahub/internal/models"
)

var base = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		aStart time.Time
		aDur   int
		bStart time.Time
		bDur   int
		want   bool
	}{
		{
			name:   "identical intervals",
			aStart: base, aDur: 60,
			bStart: base, bDur: 60,
			want: true,
		},
		{
			name:   "partial overlap",
			aStart: base, aDur: 60,
			bStart: base.Add(30 * time.Minute), bDur: 60,
			want: true,
		},
		{
			name:   "containment",
			aStart: base, aDur: 120,
			bStart: base.Add(30 * time.Minute), bDur: 30,
			want: true,
		},
		{
			name:   "touching endpoints do not overlap",
			aStart: base, aDur: 60,
			bStart: base.Add(60 * time.Minute), bDur: 60,
			want: false,
		},
		{
			name:   "touching endpoints reversed",
			aStart: base.Add(60 * time.Minute), aDur: 60,
			bStart: base, bDur: 60,
			want: false,
		},
		{
			name:   "disjoint",
			aStart: base, aDur: 30,
			bStart: base.Add(2 * time.Hour), bDur: 30,
			want: false,
		},
		{
			name:   "one minute of overlap",
			aStart: base, aDur: 61,
			bStart: base.Add(60 * time.Minute), bDur: 60,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aDur := time.Duration(tt.aDur) * time.Minute
			bDur := time.Duration(tt.bDur) * time.Minute
			assert.Equal(t, tt.want, Overlaps(tt.aStart, aDur, tt.bStart, bDur))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.bStart, bDur, tt.aStart, aDur))
		})
	}
}

func TestFindConflict(t *testing.T) {
	existing := []models.Meeting{
		{ID: "m1", DateTime: base, DurationMinutes: 60, Status: models.MeetingScheduled},
		{ID: "m2", DateTime: base.Add(2 * time.Hour), DurationMinutes: 30, Status: models.MeetingConfirmed},
		{ID: "m3", DateTime: base.Add(30 * time.Minute), DurationMinutes: 60, Status: models.MeetingCancelled},
		{ID: "m4", DateTime: base.Add(30 * time.Minute), DurationMinutes: 60, Status: models.MeetingCompleted},
	}

	t.Run("overlap with scheduled meeting", func(t *testing.T) {
		candidate := models.Meeting{ID: "new", DateTime: base.Add(30 * time.Minute), DurationMinutes: 30}
		conflict := FindConflict(candidate, existing)
		assert.NotNil(t, conflict)
		assert.Equal(t, "m1", conflict.ID)
	})

	t.Run("cancelled and completed meetings are ignored", func(t *testing.T) {
		// Overlaps only m3 and m4, both terminal.
		candidate := models.Meeting{ID: "new", DateTime: base.Add(70 * time.Minute), DurationMinutes: 15}
		assert.Nil(t, FindConflict(candidate, existing))
	})

	t.Run("back to back booking is allowed", func(t *testing.T) {
		candidate := models.Meeting{ID: "new", DateTime: base.Add(60 * time.Minute), DurationMinutes: 30}
		assert.Nil(t, FindConflict(candidate, existing))
	})

	t.Run("reschedule excludes the meeting itself", func(t *testing.T) {
		candidate := models.Meeting{ID: "m1", DateTime: base.Add(15 * time.Minute), DurationMinutes: 60}
		assert.Nil(t, FindConflict(candidate, existing))
	})

	t.Run("reschedule still conflicts with others", func(t *testing.T) {
		candidate := models.Meeting{ID: "m1", DateTime: base.Add(2 * time.Hour), DurationMinutes: 60}
		conflict := FindConflict(candidate, existing)
		assert.NotNil(t, conflict)
		assert.Equal(t, "m2", conflict.ID)
	})

	t.Run("no meetings no conflict", func(t *testing.T) {
		candidate := models.Meeting{ID: "new", DateTime: base, DurationMinutes: 60}
		assert.Nil(t, FindConflict(candidate, nil))
	})
}

package models

import "time"

// Meeting statuses. Cancelled and completed are terminal: meetings in
// those states never take part in conflict detection.
const (
	MeetingScheduled = "scheduled"
	MeetingConfirmed = "confirmed"
	MeetingCompleted = "completed"
	MeetingCancelled = "cancelled"
)

// Meeting duration bounds in minutes.
const (
	MeetingMinDuration = 15
	MeetingMaxDuration = 480
)

// Meeting is a booked appointment of an agency operator, optionally tied
// to a client. DateTime is the start instant; the occupied interval is
// [DateTime, DateTime+DurationMinutes).
type Meeting struct {
	ID              string
	UserUID         string
	ClientID        *string
	Title           string
	Description     string
	DateTime        time.Time
	DurationMinutes int
	Status          string
	CreatedAt       time.Time
}

// End returns the exclusive end instant of the meeting interval.
func (m Meeting) End() time.Time {
	return m.DateTime.Add(time.Duration(m.DurationMinutes) * time.Minute)
}

// Active reports whether the meeting participates in conflict detection.
func (m Meeting) Active() bool {
	return m.Status != MeetingCancelled && m.Status != MeetingCompleted
}

// ValidMeetingStatus reports whether s is one of the four known meeting
// statuses.
func ValidMeetingStatus(s string) bool {
	switch s {
	case MeetingScheduled, MeetingConfirmed, MeetingCompleted, MeetingCancelled:
		return true
	}
	return false
}

// MeetingReminder carries the data the reminder pipeline needs to
// notify an operator about an upcoming meeting.
type MeetingReminder struct {
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	Title           string    `json:"title"`
	DateTime        time.Time `json:"date_time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// DummyMeeting receives booking data from a JSON request. DateTime
// arrives as RFC 3339 so it can be parsed and validated by the service.
type DummyMeeting struct {
	ClientID        string `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description,omitempty" validate:"omitempty"`
	DateTime        string `json:"date_time" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=15,lte=480"`
}

// DummyMeetingStatus receives a quick status update from a JSON request.
type DummyMeetingStatus struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled"`
}

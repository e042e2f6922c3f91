package models

import "time"

// Timeline event kinds appended by the resource services.
const (
	EventClientCreated     = "client_created"
	EventClientUpdated     = "client_updated"
	EventClientRemoved     = "client_removed"
	EventTaskCreated       = "task_created"
	EventTaskCompleted     = "task_completed"
	EventMeetingBooked     = "meeting_booked"
	EventMeetingStatus     = "meeting_status_changed"
	EventDiagnosticCreated = "diagnostic_created"
)

// TimelineEvent is an append-only record of something that happened to a
// client account. The timeline handler returns them newest first.
type TimelineEvent struct {
	ID          int
	UserUID     string
	ClientID    *string
	Kind        string
	Description string
	OccurredAt  time.Time
}

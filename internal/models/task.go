package models

import "time"

// Task statuses.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

// Task is a unit of work tracked for a client. ClientID may be nil for
// internal tasks not bound to any client.
type Task struct {
	ID          string
	UserUID     string
	ClientID    *string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// DummyTask receives task data from a JSON request. DueDate arrives as a
// string in the 02-01-2006 format so it can be parsed and validated by
// the service.
type DummyTask struct {
	ClientID    string `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty" validate:"omitempty"`
	Priority    string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"due_date,omitempty" validate:"omitempty"`
}

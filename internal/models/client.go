package models

import "time"

// Client is a customer account managed by an agency operator. Every
// client belongs to exactly one user; there is no cross-user visibility.
type Client struct {
	ID            string
	UserUID       string
	Name          string
	Company       string
	Email         string
	Phone         string
	MonthlyBudget int
	Status        string
	Notes         string
	CreatedAt     time.Time
}

// Client statuses.
const (
	ClientActive   = "active"
	ClientPaused   = "paused"
	ClientArchived = "archived"
)

// DummyClient receives client data from a JSON request before it is
// validated and converted into a Client.
type DummyClient struct {
	Name          string `json:"name" validate:"required"`
	Company       string `json:"company,omitempty" validate:"omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         string `json:"phone,omitempty" validate:"omitempty"`
	MonthlyBudget int    `json:"monthly_budget,omitempty" validate:"omitempty,gte=0"`
	Notes         string `json:"notes,omitempty" validate:"omitempty"`
}

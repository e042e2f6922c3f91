package models

import "time"

// Diagnostic is a business diagnostic generated from the debriefing
// wizard answers of a client. Scores are 0..100 per analysed area.
type Diagnostic struct {
	ID        string
	UserUID   string
	ClientID  *string
	Answers   map[string]string
	Summary   string
	Scores    map[string]int
	CreatedAt time.Time
}

// Diagnostic score areas.
const (
	AreaAcquisition = "acquisition"
	AreaRetention   = "retention"
	AreaPositioning = "positioning"
)

// DummyDiagnostic receives the debriefing answers from a JSON request.
// Answers maps question keys to the free-form answers of the wizard.
type DummyDiagnostic struct {
	ClientID string            `json:"client_id,omitempty" validate:"omitempty,uuid"`
	Answers  map[string]string `json:"answers" validate:"required,min=1"`
}

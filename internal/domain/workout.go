package domain

import "time"

// Workout is one calendar day of exercises as returned by the backend.
// A workout may be planned (generated or coach-assigned) or logged from
// scans; the backend owns the distinction, the client only renders it.
type Workout struct {
	ID        string     `json:"_id"`
	Date      string     `json:"date"` // "YYYY-MM-DD" local date
	Planned   bool       `json:"planned,omitempty"`
	Completed bool       `json:"completed,omitempty"`
	Exercises []Exercise `json:"exercises"`
	CreatedAt time.Time  `json:"createdAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt,omitempty"`
}

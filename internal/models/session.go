package models

import "time"

// SessionState tracks the attendance-window state machine. Idle means no
// session object exists yet for the occurrence; it is never stored.
type SessionState string

const (
	SessionIdle   SessionState = "IDLE"
	SessionActive SessionState = "ACTIVE"
	SessionClosed SessionState = "CLOSED"
)

// Session is one live attendance-taking window for a single class slot
// occurrence on a single calendar date.
type Session struct {
	ID          string       `json:"id"`
	ClassSlotID string       `json:"class_slot_id"`
	Date        time.Time    `json:"date"`
	State       SessionState `json:"state"`
	OpenedAt    time.Time    `json:"opened_at"`
	ClosedAt    *time.Time   `json:"closed_at,omitempty"`
}

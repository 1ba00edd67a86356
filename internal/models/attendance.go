package models

import (
	"strings"
	"time"
)

// AttendanceStatus is the recorded state of one student in one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
)

// ParseStatus normalises a status label like "present".
func ParseStatus(raw string) AttendanceStatus {
	return AttendanceStatus(strings.ToUpper(strings.TrimSpace(raw)))
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	default:
		return false
	}
}

// Attended reports whether the status counts toward attendance.
func (s AttendanceStatus) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// Mark is one student's attendance record within a session. MarkedAt is nil
// for Absent marks; there is nothing to timestamp when nobody checked in.
type Mark struct {
	StudentID string           `json:"student_id"`
	SessionID string           `json:"session_id"`
	Status    AttendanceStatus `json:"status"`
	MarkedAt  *time.Time       `json:"marked_at,omitempty"`
}

// DateRange bounds ledger and statistics queries. Zero From or To leaves
// that side unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether the date falls inside the range, inclusive on
// both ends by calendar day.
func (r DateRange) Contains(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	if !r.From.IsZero() && day.Before(r.From.Truncate(24*time.Hour)) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To.Truncate(24*time.Hour)) {
		return false
	}
	return true
}

// CommittedMark is a ledger entry: a Mark plus the session context it was
// finalized under.
type CommittedMark struct {
	Mark
	ClassSlotID string    `json:"class_slot_id"`
	ClassID     string    `json:"class_id"`
	Date        time.Time `json:"date"`
}

// RecordFilter scopes ledger queries. Zero fields are ignored.
type RecordFilter struct {
	ClassID string
	Status  AttendanceStatus
	Range   DateRange
}

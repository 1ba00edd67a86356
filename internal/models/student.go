package models

import "time"

// Student represents a learner registered in the institution. ID and
// RollNumber are fixed at registration; contact fields may change later.
type Student struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	RollNumber       string    `json:"roll_number"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	EmergencyContact string    `json:"emergency_contact,omitempty"`
	EmergencyPhone   string    `json:"emergency_phone,omitempty"`
	ClassID          string    `json:"class_id"`
	Section          string    `json:"section,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// FullName joins the student's first and last names.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

package models

import "math"

// AttendanceRate is a derived statistic: attended occurrences over scheduled
// occurrences. Never stored, always recomputed from the ledger and the
// schedule.
type AttendanceRate struct {
	AttendedCount int     `json:"attended_count"`
	TotalCount    int     `json:"total_count"`
	Rate          float64 `json:"rate"`
}

// Percent returns the display percentage, rounded half-up.
func (r AttendanceRate) Percent() int {
	return RoundPercent(r.Rate)
}

// RoundPercent converts a 0..1 rate into a whole display percentage,
// rounding halves up.
func RoundPercent(rate float64) int {
	return int(math.Floor(rate*100 + 0.5))
}

// MonthlyRate is one month's attendance percentage for dashboard charts.
type MonthlyRate struct {
	Year    int    `json:"year"`
	Month   string `json:"month"`
	Percent int    `json:"percent"`
}

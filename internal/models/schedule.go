package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday enumerates the seven schedule days.
type Weekday string

const (
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
	Sunday    Weekday = "SUNDAY"
)

var weekdays = map[Weekday]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// ParseWeekday normalises a day label like "Monday".
func ParseWeekday(raw string) (Weekday, error) {
	day := Weekday(strings.ToUpper(strings.TrimSpace(raw)))
	if !day.Valid() {
		return "", fmt.Errorf("unknown weekday %q", raw)
	}
	return day, nil
}

// Valid returns true when the day is one of the seven enumerators.
func (d Weekday) Valid() bool {
	_, ok := weekdays[d]
	return ok
}

// Time returns the matching time.Weekday.
func (d Weekday) Time() time.Weekday {
	return weekdays[d]
}

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" in 24h form.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(raw), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", raw)
	}
	return TimeOfDay(h*60 + m), nil
}

// String renders the time back as "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Before reports strict ordering.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t < other
}

// ClassSlot is one recurring weekly schedule entry.
type ClassSlot struct {
	ID        string    `json:"id"`
	Day       Weekday   `json:"day"`
	StartTime TimeOfDay `json:"start_time"`
	EndTime   TimeOfDay `json:"end_time"`
	ClassID   string    `json:"class_id"`
	Room      string    `json:"room"`
	Section   string    `json:"section,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Overlaps reports whether two slots collide in time on the same day in the
// same room. Touching boundaries (one ends when the other starts) do not
// overlap.
func (s ClassSlot) Overlaps(other ClassSlot) bool {
	if s.Day != other.Day || !strings.EqualFold(s.Room, other.Room) {
		return false
	}
	return s.StartTime < other.EndTime && other.StartTime < s.EndTime
}

// OccursOn reports whether the slot recurs on the given calendar date.
func (s ClassSlot) OccursOn(date time.Time) bool {
	return s.Day.Time() == date.Weekday()
}

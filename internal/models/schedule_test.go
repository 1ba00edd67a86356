package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(9*60+5), got)
	assert.Equal(t, "09:05", got.String())

	for _, raw := range []string{"", "9am", "24:00", "12:60", "-1:00"} {
		_, err := ParseTimeOfDay(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" monday ")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)
	assert.Equal(t, time.Monday, day.Time())

	_, err = ParseWeekday("Funday")
	assert.Error(t, err)
}

func TestSlotOverlaps(t *testing.T) {
	base := ClassSlot{Day: Monday, StartTime: 9 * 60, EndTime: 10 * 60, Room: "Room 205"}

	assert.True(t, base.Overlaps(ClassSlot{Day: Monday, StartTime: 9*60 + 30, EndTime: 11 * 60, Room: "room 205"}))
	assert.False(t, base.Overlaps(ClassSlot{Day: Monday, StartTime: 10 * 60, EndTime: 11 * 60, Room: "Room 205"}), "boundary touch")
	assert.False(t, base.Overlaps(ClassSlot{Day: Tuesday, StartTime: 9 * 60, EndTime: 10 * 60, Room: "Room 205"}))
	assert.False(t, base.Overlaps(ClassSlot{Day: Monday, StartTime: 9 * 60, EndTime: 10 * 60, Room: "Lab 1"}))
}

func TestSlotOccursOn(t *testing.T) {
	slot := ClassSlot{Day: Tuesday}
	assert.True(t, slot.OccursOn(time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC)))
	assert.False(t, slot.OccursOn(time.Date(2024, 8, 7, 0, 0, 0, 0, time.UTC)))
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		From: time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, r.Contains(time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 8, 31, 23, 0, 0, 0, time.UTC)), "inclusive by calendar day")
	assert.False(t, r.Contains(time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)))

	assert.True(t, DateRange{}.Contains(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)), "zero range is unbounded")
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/pkg/config"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
)

func TestAddSlot(t *testing.T) {
	e := newTestEnv(t)

	slot, err := e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "monday",
		StartTime: "09:00",
		EndTime:   "10:30",
		ClassID:   "physics-101",
		Room:      "Room 205",
		Section:   "A",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, "09:00", slot.StartTime.String())
	assert.Equal(t, "MONDAY", string(slot.Day))
}

func TestAddSlotEndBeforeStart(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "08:00",
		ClassID:   "physics-101",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestAddSlotMissingFields(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.scheduleSvc.AddSlot(context.Background(), SlotRequest{Day: "Monday"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "Funday",
		StartTime: "09:00",
		EndTime:   "10:00",
		ClassID:   "physics-101",
	})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestRoomOverlapEnforced(t *testing.T) {
	e := newTestEnv(t)
	e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205"})

	_, err := e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "Monday",
		StartTime: "10:00",
		EndTime:   "11:00",
		ClassID:   "chemistry-202",
		Room:      "Room 205",
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))

	// back-to-back bookings do not overlap
	_, err = e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "Monday",
		StartTime: "10:30",
		EndTime:   "11:30",
		ClassID:   "chemistry-202",
		Room:      "Room 205",
	})
	require.NoError(t, err)

	// same time, another room is fine
	_, err = e.scheduleSvc.AddSlot(context.Background(), SlotRequest{
		Day:       "Monday",
		StartTime: "09:00",
		EndTime:   "10:30",
		ClassID:   "chemistry-202",
		Room:      "Lab 1",
	})
	require.NoError(t, err)
}

func TestRoomOverlapWarnPolicy(t *testing.T) {
	e := newTestEnv(t)
	warnSvc := NewScheduleService(e.schedule, config.OverlapWarn, nil,
		func() time.Time { return e.now }, zap.NewNop(), nil)

	_, err := warnSvc.AddSlot(context.Background(), SlotRequest{
		Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205",
	})
	require.NoError(t, err)
	_, err = warnSvc.AddSlot(context.Background(), SlotRequest{
		Day: "Monday", StartTime: "10:00", EndTime: "11:00", ClassID: "chemistry-202", Room: "Room 205",
	})
	require.NoError(t, err, "warn policy admits the clash")
}

func TestUpdateSlot(t *testing.T) {
	e := newTestEnv(t)
	slot := e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205"})

	updated, err := e.scheduleSvc.UpdateSlot(context.Background(), slot.ID, SlotRequest{
		Day:       "Tuesday",
		StartTime: "09:00",
		EndTime:   "10:30",
		ClassID:   "physics-101",
		Room:      "Room 205",
	})
	require.NoError(t, err)
	assert.Equal(t, slot.ID, updated.ID)
	assert.Equal(t, "TUESDAY", string(updated.Day))

	_, err = e.scheduleSvc.UpdateSlot(context.Background(), "missing", SlotRequest{
		Day: "Monday", StartTime: "09:00", EndTime: "10:00", ClassID: "physics-101",
	})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestUpdateSlotKeepsOwnRoomBooking(t *testing.T) {
	e := newTestEnv(t)
	slot := e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205"})

	// shifting its own time inside the same room must not conflict with itself
	_, err := e.scheduleSvc.UpdateSlot(context.Background(), slot.ID, SlotRequest{
		Day: "Monday", StartTime: "09:30", EndTime: "11:00", ClassID: "physics-101", Room: "Room 205",
	})
	require.NoError(t, err)
}

func TestDeleteSlotIdempotent(t *testing.T) {
	e := newTestEnv(t)
	slot := e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101"})
	ctx := context.Background()

	require.NoError(t, e.scheduleSvc.DeleteSlot(ctx, slot.ID))
	require.NoError(t, e.scheduleSvc.DeleteSlot(ctx, slot.ID), "second delete is a no-op")

	_, err := e.scheduleSvc.Slot(ctx, slot.ID)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestSlotsForDaySorted(t *testing.T) {
	e := newTestEnv(t)
	e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "11:00", EndTime: "12:30", ClassID: "chemistry-202", Room: "Lab 1"})
	e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205"})
	e.addSlot(t, SlotRequest{Day: "Monday", StartTime: "09:00", EndTime: "10:00", ClassID: "chemistry-202", Room: "Lab 2"})
	e.addSlot(t, SlotRequest{Day: "Tuesday", StartTime: "08:00", EndTime: "09:00", ClassID: "physics-101", Room: "Room 205"})

	slots, err := e.scheduleSvc.SlotsForDay(context.Background(), "Monday")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "09:00", slots[0].StartTime.String())
	// tie on start time keeps insertion order
	assert.Equal(t, "Room 205", slots[0].Room)
	assert.Equal(t, "Lab 2", slots[1].Room)
	assert.Equal(t, "11:00", slots[2].StartTime.String())

	_, err = e.scheduleSvc.SlotsForDay(context.Background(), "Noday")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

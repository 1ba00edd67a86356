package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/beacon-edu/beacon-core/internal/models"
)

// ScheduleStore holds the weekly class slots in memory.
type ScheduleStore struct {
	mu    sync.RWMutex
	slots map[string]models.ClassSlot
	order []string
}

// NewScheduleStore builds an empty schedule.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{slots: make(map[string]models.ClassSlot)}
}

// Insert stores the slot, generating an ID when absent, and returns the
// stored copy.
func (s *ScheduleStore) Insert(slot models.ClassSlot) models.ClassSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if _, exists := s.slots[slot.ID]; !exists {
		s.order = append(s.order, slot.ID)
	}
	s.slots[slot.ID] = slot
	return slot
}

// Get looks up a slot.
func (s *ScheduleStore) Get(id string) (models.ClassSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[id]
	return slot, ok
}

// Update replaces an existing slot. Returns false when the id is unknown.
func (s *ScheduleStore) Update(slot models.ClassSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot.ID]; !ok {
		return false
	}
	s.slots[slot.ID] = slot
	return true
}

// Delete removes a slot. Deleting an absent id is a no-op.
func (s *ScheduleStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[id]; !ok {
		return
	}
	delete(s.slots, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SlotsForDay lists slots for a day sorted by start time, ties broken by
// insertion order.
func (s *ScheduleStore) SlotsForDay(day models.Weekday) []models.ClassSlot {
	out := s.filter(func(slot models.ClassSlot) bool { return slot.Day == day })
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

// SlotsForClass lists slots for a class, optionally narrowed to a section,
// in insertion order.
func (s *ScheduleStore) SlotsForClass(classID, section string) []models.ClassSlot {
	return s.filter(func(slot models.ClassSlot) bool {
		if slot.ClassID != classID {
			return false
		}
		return section == "" || slot.Section == "" || slot.Section == section
	})
}

// FindOverlap returns the first stored slot colliding with the candidate in
// the same room on the same day, skipping excludeID.
func (s *ScheduleStore) FindOverlap(candidate models.ClassSlot, excludeID string) (models.ClassSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		slot := s.slots[id]
		if slot.ID == excludeID {
			continue
		}
		if slot.Overlaps(candidate) {
			return slot, true
		}
	}
	return models.ClassSlot{}, false
}

func (s *ScheduleStore) filter(keep func(models.ClassSlot) bool) []models.ClassSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ClassSlot
	for _, id := range s.order {
		if slot := s.slots[id]; keep(slot) {
			out = append(out, slot)
		}
	}
	return out
}

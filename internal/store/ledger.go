package store

import (
	"errors"
	"iter"
	"sort"
	"sync"

	"github.com/beacon-edu/beacon-core/internal/models"
)

// ErrSessionCommitted is returned when a session's marks are committed a
// second time.
var ErrSessionCommitted = errors.New("session already committed")

// Ledger is the append-only record of finalized attendance marks. Marks for
// a committed session are never mutated again.
type Ledger struct {
	mu        sync.RWMutex
	bySession map[string][]models.CommittedMark
	sessions  map[string]models.Session
	sessOrder []string
}

// NewLedger builds an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		bySession: make(map[string][]models.CommittedMark),
		sessions:  make(map[string]models.Session),
	}
}

// Commit appends the finalized marks of one session. Fails when the session
// was already committed.
func (l *Ledger) Commit(session models.Session, slot models.ClassSlot, marks []models.Mark) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.bySession[session.ID]; exists {
		return ErrSessionCommitted
	}
	committed := make([]models.CommittedMark, len(marks))
	for i, mark := range marks {
		committed[i] = models.CommittedMark{
			Mark:        mark,
			ClassSlotID: session.ClassSlotID,
			ClassID:     slot.ClassID,
			Date:        session.Date,
		}
	}
	l.bySession[session.ID] = committed
	l.sessions[session.ID] = session
	l.sessOrder = append(l.sessOrder, session.ID)
	return nil
}

// HasSession reports whether a session's marks have been committed.
func (l *Ledger) HasSession(sessionID string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.bySession[sessionID]
	return ok
}

// MarksForSession returns the full committed set for one session.
func (l *Ledger) MarksForSession(sessionID string) ([]models.CommittedMark, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	marks, ok := l.bySession[sessionID]
	if !ok {
		return nil, false
	}
	out := make([]models.CommittedMark, len(marks))
	copy(out, marks)
	return out, true
}

// MarksForStudent returns a restartable, chronologically ordered sequence of
// one student's committed marks, optionally bounded by a date range. Each
// iteration walks a snapshot taken when it starts.
func (l *Ledger) MarksForStudent(studentID string, r models.DateRange) iter.Seq[models.CommittedMark] {
	return func(yield func(models.CommittedMark) bool) {
		for _, mark := range l.studentSnapshot(studentID, r) {
			if !yield(mark) {
				return
			}
		}
	}
}

// Sessions lists committed session records in commit order.
func (l *Ledger) Sessions() []models.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Session, 0, len(l.sessOrder))
	for _, id := range l.sessOrder {
		out = append(out, l.sessions[id])
	}
	return out
}

// Query returns committed marks matching the filter, in commit order.
func (l *Ledger) Query(filter models.RecordFilter) []models.CommittedMark {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []models.CommittedMark
	for _, id := range l.sessOrder {
		for _, mark := range l.bySession[id] {
			if filter.ClassID != "" && mark.ClassID != filter.ClassID {
				continue
			}
			if filter.Status != "" && mark.Status != filter.Status {
				continue
			}
			if !filter.Range.Contains(mark.Date) {
				continue
			}
			out = append(out, mark)
		}
	}
	return out
}

func (l *Ledger) studentSnapshot(studentID string, r models.DateRange) []models.CommittedMark {
	l.mu.RLock()
	var out []models.CommittedMark
	for _, id := range l.sessOrder {
		for _, mark := range l.bySession[id] {
			if mark.StudentID != studentID || !r.Contains(mark.Date) {
				continue
			}
			out = append(out, mark)
		}
	}
	l.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

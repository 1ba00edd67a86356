package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon-edu/beacon-core/internal/models"
)

func committedSession(id string, date time.Time) (models.Session, models.ClassSlot) {
	session := models.Session{
		ID:          id,
		ClassSlotID: "slot-1",
		Date:        date,
		State:       models.SessionClosed,
	}
	slot := models.ClassSlot{ID: "slot-1", ClassID: "physics-101"}
	return session, slot
}

func TestLedgerCommitOnce(t *testing.T) {
	l := NewLedger()
	session, slot := committedSession("s1", time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC))
	marks := []models.Mark{
		{StudentID: "alice", SessionID: "s1", Status: models.StatusPresent},
		{StudentID: "bob", SessionID: "s1", Status: models.StatusAbsent},
	}

	require.NoError(t, l.Commit(session, slot, marks))
	assert.True(t, l.HasSession("s1"))

	err := l.Commit(session, slot, marks)
	assert.ErrorIs(t, err, ErrSessionCommitted)
}

func TestLedgerMarksForSession(t *testing.T) {
	l := NewLedger()
	session, slot := committedSession("s1", time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, l.Commit(session, slot, []models.Mark{
		{StudentID: "alice", SessionID: "s1", Status: models.StatusPresent},
	}))

	marks, ok := l.MarksForSession("s1")
	require.True(t, ok)
	require.Len(t, marks, 1)
	assert.Equal(t, "physics-101", marks[0].ClassID)
	assert.Equal(t, session.Date, marks[0].Date)

	_, ok = l.MarksForSession("missing")
	assert.False(t, ok)
}

func TestLedgerMarksForStudentChronological(t *testing.T) {
	l := NewLedger()

	// commit out of date order
	laterSession, slot := committedSession("s2", time.Date(2024, 8, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, l.Commit(laterSession, slot, []models.Mark{
		{StudentID: "alice", SessionID: "s2", Status: models.StatusLate},
	}))
	earlierSession, _ := committedSession("s1", time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, l.Commit(earlierSession, slot, []models.Mark{
		{StudentID: "alice", SessionID: "s1", Status: models.StatusPresent},
		{StudentID: "bob", SessionID: "s1", Status: models.StatusAbsent},
	}))

	var got []models.CommittedMark
	for mark := range l.MarksForStudent("alice", models.DateRange{}) {
		got = append(got, mark)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].SessionID)
	assert.Equal(t, "s2", got[1].SessionID)

	// restartable
	count := 0
	for range l.MarksForStudent("alice", models.DateRange{}) {
		count++
	}
	assert.Equal(t, 2, count)

	// bounded range
	var bounded []models.CommittedMark
	for mark := range l.MarksForStudent("alice", models.DateRange{
		From: time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC),
	}) {
		bounded = append(bounded, mark)
	}
	require.Len(t, bounded, 1)
	assert.Equal(t, "s2", bounded[0].SessionID)
}

func TestLedgerQuery(t *testing.T) {
	l := NewLedger()
	session, slot := committedSession("s1", time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, l.Commit(session, slot, []models.Mark{
		{StudentID: "alice", SessionID: "s1", Status: models.StatusPresent},
		{StudentID: "bob", SessionID: "s1", Status: models.StatusAbsent},
	}))

	assert.Len(t, l.Query(models.RecordFilter{ClassID: "physics-101"}), 2)
	assert.Len(t, l.Query(models.RecordFilter{Status: models.StatusAbsent}), 1)
	assert.Empty(t, l.Query(models.RecordFilter{ClassID: "chemistry-202"}))
}

func TestLedgerSessions(t *testing.T) {
	l := NewLedger()
	first, slot := committedSession("s1", time.Date(2024, 8, 6, 0, 0, 0, 0, time.UTC))
	second, _ := committedSession("s2", time.Date(2024, 8, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, l.Commit(first, slot, nil))
	require.NoError(t, l.Commit(second, slot, nil))

	sessions := l.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "s1", sessions[0].ID)
	assert.Equal(t, "s2", sessions[1].ID)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	"github.com/beacon-edu/beacon-core/internal/store"
	"github.com/beacon-edu/beacon-core/pkg/config"
)

// testEnv wires real in-memory stores with a controllable clock.
type testEnv struct {
	now time.Time

	roster   *store.RosterStore
	schedule *store.ScheduleStore
	ledger   *store.Ledger

	rosterSvc   *RosterService
	scheduleSvc *ScheduleService
	sessionSvc  *SessionService
	statsSvc    *StatsService
	reportSvc   *ReportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	e := &testEnv{
		// a Tuesday
		now:      time.Date(2024, 8, 6, 10, 0, 0, 0, time.UTC),
		roster:   store.NewRosterStore(),
		schedule: store.NewScheduleStore(),
		ledger:   store.NewLedger(),
	}
	clock := func() time.Time { return e.now }
	log := zap.NewNop()
	e.rosterSvc = NewRosterService(e.roster, nil, clock, log)
	e.scheduleSvc = NewScheduleService(e.schedule, config.OverlapEnforce, nil, clock, log, nil)
	e.sessionSvc = NewSessionService(e.roster, e.schedule, e.ledger, SessionConfig{}, clock, log, nil)
	e.statsSvc = NewStatsService(e.roster, e.schedule, e.ledger, log)
	e.reportSvc = NewReportService(e.roster, e.ledger, log)

	e.roster.AddClass(models.Class{ID: "physics-101", Name: "Physics 101", Sections: []string{"A", "B"}})
	e.roster.AddClass(models.Class{ID: "chemistry-202", Name: "Chemistry 202", Sections: []string{"A"}})
	return e
}

func (e *testEnv) addStudent(t *testing.T, first, last, roll, classID, section string) models.Student {
	t.Helper()
	student, err := e.rosterSvc.AddStudent(context.Background(), AddStudentRequest{
		FirstName:  first,
		LastName:   last,
		RollNumber: roll,
		Email:      roll + "@school.edu",
		ClassID:    classID,
		Section:    section,
	})
	require.NoError(t, err)
	return *student
}

func (e *testEnv) addSlot(t *testing.T, req SlotRequest) models.ClassSlot {
	t.Helper()
	slot, err := e.scheduleSvc.AddSlot(context.Background(), req)
	require.NoError(t, err)
	return *slot
}

// physicsClass seeds the canonical fixture: three section-A students and one
// Tuesday slot for Physics 101.
func (e *testEnv) physicsClass(t *testing.T) (models.ClassSlot, []models.Student) {
	t.Helper()
	students := []models.Student{
		e.addStudent(t, "Alice", "Johnson", "PHY001", "physics-101", "A"),
		e.addStudent(t, "Bob", "Smith", "PHY002", "physics-101", "A"),
		e.addStudent(t, "Charlie", "Brown", "PHY003", "physics-101", "A"),
	}
	slot := e.addSlot(t, SlotRequest{
		Day:       "Tuesday",
		StartTime: "10:00",
		EndTime:   "11:30",
		ClassID:   "physics-101",
		Room:      "Room 205",
		Section:   "A",
	})
	return slot, students
}

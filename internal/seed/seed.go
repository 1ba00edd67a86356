// Package seed loads the demo fixtures: the sample roster and weekly
// schedule the Beacon screens ship with.
package seed

import (
	"context"
	"fmt"
	"strings"

	"github.com/beacon-edu/beacon-core/internal/models"
	"github.com/beacon-edu/beacon-core/internal/service"
	"github.com/beacon-edu/beacon-core/internal/store"
)

// Fixture holds the entities created by Apply.
type Fixture struct {
	Classes  []models.Class
	Students []models.Student
	Slots    []models.ClassSlot
}

var classes = []models.Class{
	{ID: "physics-101", Name: "Physics 101", Sections: []string{"A", "B", "C"}},
	{ID: "chemistry-202", Name: "Chemistry 202", Sections: []string{"A", "B", "C"}},
	{ID: "biology-150", Name: "Biology 150", Sections: []string{"A", "B", "C"}},
	{ID: "math-300", Name: "Mathematics 300", Sections: []string{"A", "B", "C"}},
}

var students = []struct {
	first, last, roll string
}{
	{"Alice", "Johnson", "PHY001"},
	{"Bob", "Smith", "PHY002"},
	{"Charlie", "Brown", "PHY003"},
	{"Diana", "Prince", "PHY004"},
	{"Ethan", "Hunt", "PHY005"},
	{"Fiona", "Clark", "PHY006"},
	{"George", "Miller", "PHY007"},
	{"Hannah", "Davis", "PHY008"},
}

var slots = []service.SlotRequest{
	{Day: "Monday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205", Section: "A"},
	{Day: "Monday", StartTime: "11:00", EndTime: "12:30", ClassID: "chemistry-202", Room: "Lab 1", Section: "B"},
	{Day: "Tuesday", StartTime: "10:00", EndTime: "11:30", ClassID: "biology-150", Room: "Room 301", Section: "C"},
	{Day: "Wednesday", StartTime: "09:00", EndTime: "10:30", ClassID: "physics-101", Room: "Room 205", Section: "A"},
	{Day: "Wednesday", StartTime: "14:00", EndTime: "15:30", ClassID: "chemistry-202", Room: "Lab 1", Section: "B"},
	{Day: "Friday", StartTime: "10:00", EndTime: "11:30", ClassID: "biology-150", Room: "Room 301", Section: "C"},
}

// Apply registers the demo classes, students and schedule through the
// regular service operations.
func Apply(ctx context.Context, rosterStore *store.RosterStore, roster *service.RosterService, schedule *service.ScheduleService) (*Fixture, error) {
	fixture := &Fixture{Classes: classes}
	for _, class := range classes {
		rosterStore.AddClass(class)
	}

	for _, st := range students {
		created, err := roster.AddStudent(ctx, service.AddStudentRequest{
			FirstName:  st.first,
			LastName:   st.last,
			RollNumber: st.roll,
			Email:      fmt.Sprintf("%s.%s@school.edu", strings.ToLower(st.first), strings.ToLower(st.last)),
			ClassID:    "physics-101",
			Section:    "A",
		})
		if err != nil {
			return nil, fmt.Errorf("seed student %s: %w", st.roll, err)
		}
		fixture.Students = append(fixture.Students, *created)
	}

	for _, req := range slots {
		created, err := schedule.AddSlot(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("seed slot %s %s: %w", req.Day, req.StartTime, err)
		}
		fixture.Slots = append(fixture.Slots, *created)
	}
	return fixture, nil
}

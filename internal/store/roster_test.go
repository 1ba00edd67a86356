package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beacon-edu/beacon-core/internal/models"
)

func TestRosterInsertStudent(t *testing.T) {
	s := NewRosterStore()
	stored := s.InsertStudent(models.Student{FirstName: "Alice", RollNumber: "PHY001", ClassID: "physics-101"})
	require.NotEmpty(t, stored.ID)

	got, ok := s.StudentByID(stored.ID)
	require.True(t, ok)
	assert.Equal(t, stored, got)
	assert.Equal(t, 1, s.CountStudents())
}

func TestRollNumberTaken(t *testing.T) {
	s := NewRosterStore()
	s.InsertStudent(models.Student{RollNumber: "PHY001", ClassID: "physics-101"})

	assert.True(t, s.RollNumberTaken("physics-101", "PHY001"))
	assert.True(t, s.RollNumberTaken("physics-101", "phy001"), "roll comparison is case-insensitive")
	assert.False(t, s.RollNumberTaken("chemistry-202", "PHY001"), "uniqueness is scoped to the class")
	assert.False(t, s.RollNumberTaken("physics-101", "PHY002"))
}

func TestStudentsByClassSnapshot(t *testing.T) {
	s := NewRosterStore()
	s.InsertStudent(models.Student{ID: "a", RollNumber: "PHY001", ClassID: "physics-101", Section: "A"})
	s.InsertStudent(models.Student{ID: "b", RollNumber: "PHY002", ClassID: "physics-101", Section: "B"})
	s.InsertStudent(models.Student{ID: "c", RollNumber: "CHE001", ClassID: "chemistry-202"})

	seq := s.StudentsByClass("physics-101", "")
	var ids []string
	for student := range seq {
		ids = append(ids, student.ID)
	}
	assert.Equal(t, []string{"a", "b"}, ids, "registration order is preserved")

	// inserting mid-iteration does not corrupt an in-flight pass, and a
	// restarted pass observes the addition
	s.InsertStudent(models.Student{ID: "d", RollNumber: "PHY003", ClassID: "physics-101"})
	count := 0
	for range seq {
		count++
	}
	assert.Equal(t, 3, count)

	assert.Equal(t, 1, s.CountByClass("physics-101", "A"))
}

func TestClassLookup(t *testing.T) {
	s := NewRosterStore()
	s.AddClass(models.Class{ID: "physics-101", Name: "Physics 101"})

	class, ok := s.ClassByID("physics-101")
	require.True(t, ok)
	assert.Equal(t, "Physics 101", class.Name)

	_, ok = s.ClassByID("missing")
	assert.False(t, ok)
}

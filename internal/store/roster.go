package store

import (
	"iter"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/beacon-edu/beacon-core/internal/models"
)

// RosterStore holds students and classes in memory. Classes are reference
// data registered up front; students are appended over time.
type RosterStore struct {
	mu       sync.RWMutex
	classes  map[string]models.Class
	students map[string]models.Student
	order    []string
}

// NewRosterStore builds an empty roster.
func NewRosterStore() *RosterStore {
	return &RosterStore{
		classes:  make(map[string]models.Class),
		students: make(map[string]models.Student),
	}
}

// AddClass registers or replaces a class definition.
func (s *RosterStore) AddClass(class models.Class) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[class.ID] = class
}

// ClassByID looks up a class.
func (s *RosterStore) ClassByID(id string) (models.Class, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	class, ok := s.classes[id]
	return class, ok
}

// InsertStudent stores the student, generating an ID when absent, and
// returns the stored copy.
func (s *RosterStore) InsertStudent(student models.Student) models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if _, exists := s.students[student.ID]; !exists {
		s.order = append(s.order, student.ID)
	}
	s.students[student.ID] = student
	return student
}

// StudentByID looks up a student.
func (s *RosterStore) StudentByID(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[id]
	return student, ok
}

// RollNumberTaken reports whether a roll number is already used inside a
// class.
func (s *RosterStore) RollNumberTaken(classID, rollNumber string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, student := range s.students {
		if student.ClassID == classID && strings.EqualFold(student.RollNumber, rollNumber) {
			return true
		}
	}
	return false
}

// StudentsByClass returns a restartable sequence of students in a class,
// optionally narrowed to one section, in registration order. Each iteration
// walks a snapshot taken when it starts.
func (s *RosterStore) StudentsByClass(classID, section string) iter.Seq[models.Student] {
	return func(yield func(models.Student) bool) {
		for _, student := range s.snapshot() {
			if student.ClassID != classID {
				continue
			}
			if section != "" && student.Section != section {
				continue
			}
			if !yield(student) {
				return
			}
		}
	}
}

// CountByClass counts enrolled students for a class/section.
func (s *RosterStore) CountByClass(classID, section string) int {
	n := 0
	for range s.StudentsByClass(classID, section) {
		n++
	}
	return n
}

// CountStudents returns the total roster size.
func (s *RosterStore) CountStudents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

func (s *RosterStore) snapshot() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.students[id])
	}
	return out
}

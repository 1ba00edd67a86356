package service

import (
	"context"
	"iter"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
)

type rosterStore interface {
	ClassByID(id string) (models.Class, bool)
	InsertStudent(student models.Student) models.Student
	StudentByID(id string) (models.Student, bool)
	RollNumberTaken(classID, rollNumber string) bool
	StudentsByClass(classID, section string) iter.Seq[models.Student]
}

// RosterService registers students and answers enrollment lookups.
type RosterService struct {
	store     rosterStore
	validator *validator.Validate
	clock     Clock
	logger    *zap.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(store rosterStore, validate *validator.Validate, clock Clock, logger *zap.Logger) *RosterService {
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = defaultClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{store: store, validator: validate, clock: clock, logger: logger}
}

// AddStudentRequest carries the registration form fields.
type AddStudentRequest struct {
	FirstName        string `json:"first_name" validate:"required"`
	LastName         string `json:"last_name" validate:"required"`
	RollNumber       string `json:"roll_number" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	ClassID          string `json:"class_id" validate:"required"`
	Section          string `json:"section"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
}

// AddStudent validates and registers a new student.
func (s *RosterService) AddStudent(ctx context.Context, req AddStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	class, ok := s.store.ClassByID(req.ClassID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if !class.HasSection(req.Section) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing or invalid fields: section")
	}
	if s.store.RollNumberTaken(req.ClassID, req.RollNumber) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing or invalid fields: roll_number already used in class")
	}

	student := s.store.InsertStudent(models.Student{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		RollNumber:       req.RollNumber,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		ClassID:          req.ClassID,
		Section:          req.Section,
		CreatedAt:        s.clock(),
	})
	s.logger.Info("student registered",
		zap.String("student_id", student.ID),
		zap.String("class_id", student.ClassID),
		zap.String("roll_number", student.RollNumber))
	return &student, nil
}

// Student looks up one student.
func (s *RosterService) Student(ctx context.Context, id string) (*models.Student, error) {
	student, ok := s.store.StudentByID(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// StudentsByClass returns a lazy, restartable sequence of students enrolled
// in the class, optionally narrowed to one section.
func (s *RosterService) StudentsByClass(ctx context.Context, classID, section string) (iter.Seq[models.Student], error) {
	if _, ok := s.store.ClassByID(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	return s.store.StudentsByClass(classID, section), nil
}

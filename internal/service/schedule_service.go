package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	"github.com/beacon-edu/beacon-core/pkg/config"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
	"github.com/beacon-edu/beacon-core/pkg/metrics"
)

type scheduleStore interface {
	Insert(slot models.ClassSlot) models.ClassSlot
	Get(id string) (models.ClassSlot, bool)
	Update(slot models.ClassSlot) bool
	Delete(id string)
	SlotsForDay(day models.Weekday) []models.ClassSlot
	FindOverlap(candidate models.ClassSlot, excludeID string) (models.ClassSlot, bool)
}

// ScheduleService manages the weekly class slots.
type ScheduleService struct {
	store     scheduleStore
	policy    config.OverlapPolicy
	validator *validator.Validate
	clock     Clock
	logger    *zap.Logger
	metrics   *metrics.Recorder
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(store scheduleStore, policy config.OverlapPolicy, validate *validator.Validate, clock Clock, logger *zap.Logger, rec *metrics.Recorder) *ScheduleService {
	if policy != config.OverlapWarn {
		policy = config.OverlapEnforce
	}
	if validate == nil {
		validate = validator.New()
	}
	if clock == nil {
		clock = defaultClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	return &ScheduleService{store: store, policy: policy, validator: validate, clock: clock, logger: logger, metrics: rec}
}

// SlotRequest carries the schedule form fields. Times are "HH:MM" and the
// day is a weekday name like "Monday".
type SlotRequest struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	Room      string `json:"room"`
	Section   string `json:"section"`
}

func (s *ScheduleService) parseSlot(req SlotRequest) (models.ClassSlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ClassSlot{}, validationError(err)
	}
	day, err := models.ParseWeekday(req.Day)
	if err != nil {
		return models.ClassSlot{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return models.ClassSlot{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	end, err := models.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return models.ClassSlot{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !start.Before(end) {
		return models.ClassSlot{}, appErrors.Clone(appErrors.ErrValidation, "start_time must be before end_time")
	}
	return models.ClassSlot{
		Day:       day,
		StartTime: start,
		EndTime:   end,
		ClassID:   req.ClassID,
		Room:      req.Room,
		Section:   req.Section,
	}, nil
}

func (s *ScheduleService) checkOverlap(slot models.ClassSlot, excludeID string) error {
	if slot.Room == "" {
		return nil
	}
	existing, clash := s.store.FindOverlap(slot, excludeID)
	if !clash {
		return nil
	}
	if s.policy == config.OverlapWarn {
		s.logger.Warn("room double-booked",
			zap.String("room", slot.Room),
			zap.String("day", string(slot.Day)),
			zap.String("existing_slot_id", existing.ID))
		return nil
	}
	s.metrics.ScheduleConflicts.Inc()
	msg := fmt.Sprintf("room %s already booked on %s %s-%s", existing.Room, existing.Day, existing.StartTime, existing.EndTime)
	return appErrors.Clone(appErrors.ErrConflict, msg)
}

// AddSlot validates and appends a new schedule entry.
func (s *ScheduleService) AddSlot(ctx context.Context, req SlotRequest) (*models.ClassSlot, error) {
	slot, err := s.parseSlot(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(slot, ""); err != nil {
		return nil, err
	}
	slot.CreatedAt = s.clock()
	stored := s.store.Insert(slot)
	s.logger.Info("schedule slot added",
		zap.String("slot_id", stored.ID),
		zap.String("class_id", stored.ClassID),
		zap.String("day", string(stored.Day)))
	return &stored, nil
}

// UpdateSlot replaces an existing schedule entry.
func (s *ScheduleService) UpdateSlot(ctx context.Context, id string, req SlotRequest) (*models.ClassSlot, error) {
	existing, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}
	slot, err := s.parseSlot(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(slot, id); err != nil {
		return nil, err
	}
	slot.ID = existing.ID
	slot.CreatedAt = existing.CreatedAt
	s.store.Update(slot)
	return &slot, nil
}

// DeleteSlot removes a schedule entry. Deleting an absent id is a no-op.
func (s *ScheduleService) DeleteSlot(ctx context.Context, id string) error {
	s.store.Delete(id)
	return nil
}

// Slot looks up one schedule entry.
func (s *ScheduleService) Slot(ctx context.Context, id string) (*models.ClassSlot, error) {
	slot, ok := s.store.Get(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}
	return &slot, nil
}

// SlotsForDay lists a day's slots sorted by start time.
func (s *ScheduleService) SlotsForDay(ctx context.Context, day string) ([]models.ClassSlot, error) {
	parsed, err := models.ParseWeekday(day)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	return s.store.SlotsForDay(parsed), nil
}

package service

import (
	"context"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
)

type statsRoster interface {
	StudentByID(id string) (models.Student, bool)
	ClassByID(id string) (models.Class, bool)
	StudentsByClass(classID, section string) iter.Seq[models.Student]
}

type statsSchedule interface {
	SlotsForClass(classID, section string) []models.ClassSlot
}

type statsLedger interface {
	MarksForStudent(studentID string, r models.DateRange) iter.Seq[models.CommittedMark]
}

// StatsService derives attendance aggregates from the ledger and the
// schedule. Nothing here is stored; every answer is recomputed on demand.
type StatsService struct {
	roster   statsRoster
	schedule statsSchedule
	ledger   statsLedger
	logger   *zap.Logger
}

// NewStatsService constructs the statistics engine.
func NewStatsService(roster statsRoster, schedule statsSchedule, ledger statsLedger, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{roster: roster, schedule: schedule, ledger: ledger, logger: logger}
}

// AttendanceRate computes a student's attended/total rate over the range.
// The denominator counts scheduled occurrences, not committed marks, so
// sessions that were never opened still count as Absent. A student with no
// scheduled occurrences gets a zero rate, not an error.
func (s *StatsService) AttendanceRate(ctx context.Context, studentID string, r models.DateRange) (models.AttendanceRate, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return models.AttendanceRate{}, appErrors.Clone(appErrors.ErrValidation, "date range must be bounded")
	}
	student, ok := s.roster.StudentByID(studentID)
	if !ok {
		return models.AttendanceRate{}, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	total := s.occurrences(student.ClassID, student.Section, r)
	attended := 0
	for mark := range s.ledger.MarksForStudent(studentID, r) {
		if mark.Status.Attended() {
			attended++
		}
	}

	rate := models.AttendanceRate{AttendedCount: attended, TotalCount: total}
	if total > 0 {
		rate.Rate = float64(attended) / float64(total)
	}
	return rate, nil
}

// ClassRate is the unweighted mean of per-student rates over the range.
func (s *StatsService) ClassRate(ctx context.Context, classID string, r models.DateRange) (models.AttendanceRate, error) {
	if _, ok := s.roster.ClassByID(classID); !ok {
		return models.AttendanceRate{}, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	var sum float64
	var agg models.AttendanceRate
	students := 0
	for student := range s.roster.StudentsByClass(classID, "") {
		rate, err := s.AttendanceRate(ctx, student.ID, r)
		if err != nil {
			return models.AttendanceRate{}, err
		}
		sum += rate.Rate
		agg.AttendedCount += rate.AttendedCount
		agg.TotalCount += rate.TotalCount
		students++
	}
	if students > 0 {
		agg.Rate = sum / float64(students)
	}
	return agg, nil
}

// MonthlyRates computes a student's per-month percentages across the range,
// for dashboard charts. Months with no scheduled occurrences are skipped.
func (s *StatsService) MonthlyRates(ctx context.Context, studentID string, r models.DateRange) ([]models.MonthlyRate, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date range must be bounded")
	}
	var out []models.MonthlyRate
	cursor := time.Date(r.From.Year(), r.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(r.To) {
		monthEnd := cursor.AddDate(0, 1, -1)
		month := models.DateRange{From: maxTime(cursor, r.From), To: minTime(monthEnd, r.To)}
		rate, err := s.AttendanceRate(ctx, studentID, month)
		if err != nil {
			return nil, err
		}
		if rate.TotalCount > 0 {
			out = append(out, models.MonthlyRate{
				Year:    cursor.Year(),
				Month:   cursor.Month().String(),
				Percent: rate.Percent(),
			})
		}
		cursor = cursor.AddDate(0, 1, 0)
	}
	return out, nil
}

// occurrences counts concrete slot occurrences for a class/section between
// the range bounds, inclusive.
func (s *StatsService) occurrences(classID, section string, r models.DateRange) int {
	slots := s.schedule.SlotsForClass(classID, section)
	if len(slots) == 0 {
		return 0
	}
	count := 0
	for day := r.From; !day.After(r.To); day = day.AddDate(0, 0, 1) {
		for _, slot := range slots {
			if slot.OccursOn(day) {
				count++
			}
		}
	}
	return count
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

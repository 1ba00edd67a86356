package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
)

type dashboardRoster interface {
	StudentByID(id string) (models.Student, bool)
	CountByClass(classID, section string) int
	CountStudents() int
}

type dashboardSchedule interface {
	SlotsForDay(day models.Weekday) []models.ClassSlot
	SlotsForClass(classID, section string) []models.ClassSlot
}

type dashboardLedger interface {
	Sessions() []models.Session
	MarksForSession(sessionID string) ([]models.CommittedMark, bool)
}

// DashboardService assembles the teacher and student overview screens from
// the schedule, the roster and the ledger.
type DashboardService struct {
	roster   dashboardRoster
	schedule dashboardSchedule
	ledger   dashboardLedger
	stats    *StatsService
	logger   *zap.Logger
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(roster dashboardRoster, schedule dashboardSchedule, ledger dashboardLedger, stats *StatsService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{roster: roster, schedule: schedule, ledger: ledger, stats: stats, logger: logger}
}

// SessionSummary aggregates one committed session's marks.
type SessionSummary struct {
	SessionID   string    `json:"session_id"`
	ClassSlotID string    `json:"class_slot_id"`
	Date        time.Time `json:"date"`
	Present     int       `json:"present"`
	Absent      int       `json:"absent"`
	Late        int       `json:"late"`
}

// TeacherOverview is the teacher landing screen payload.
type TeacherOverview struct {
	Date          time.Time          `json:"date"`
	TodaySlots    []models.ClassSlot `json:"today_slots"`
	TotalStudents int                `json:"total_students"`
	TodaySessions []SessionSummary   `json:"today_sessions"`
}

// StudentOverview is the student landing screen payload.
type StudentOverview struct {
	Student         models.Student         `json:"student"`
	UpcomingSlots   []models.ClassSlot     `json:"upcoming_slots"`
	RecentMarks     []models.CommittedMark `json:"recent_marks"`
	Rate            models.AttendanceRate  `json:"rate"`
	MonthlyRates    []models.MonthlyRate   `json:"monthly_rates"`
	ClassmatesCount int                    `json:"classmates_count"`
}

// Teacher assembles the teacher dashboard for one calendar date.
func (s *DashboardService) Teacher(ctx context.Context, date time.Time) (*TeacherOverview, error) {
	day := weekdayOf(date)
	overview := &TeacherOverview{
		Date:          date,
		TodaySlots:    s.schedule.SlotsForDay(day),
		TotalStudents: s.roster.CountStudents(),
	}
	for _, session := range s.ledger.Sessions() {
		if !sameDay(session.Date, date) {
			continue
		}
		marks, ok := s.ledger.MarksForSession(session.ID)
		if !ok {
			continue
		}
		summary := SessionSummary{SessionID: session.ID, ClassSlotID: session.ClassSlotID, Date: session.Date}
		for _, mark := range marks {
			switch mark.Status {
			case models.StatusPresent:
				summary.Present++
			case models.StatusLate:
				summary.Late++
			default:
				summary.Absent++
			}
		}
		overview.TodaySessions = append(overview.TodaySessions, summary)
	}
	return overview, nil
}

// Student assembles the student dashboard. The term range bounds the rate
// and monthly chart; upcoming slots cover today and tomorrow.
func (s *DashboardService) Student(ctx context.Context, studentID string, today time.Time, term models.DateRange) (*StudentOverview, error) {
	student, ok := s.roster.StudentByID(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	overview := &StudentOverview{
		Student:         student,
		ClassmatesCount: s.roster.CountByClass(student.ClassID, student.Section),
	}

	slots := s.schedule.SlotsForClass(student.ClassID, student.Section)
	for _, offset := range []int{0, 1} {
		day := today.AddDate(0, 0, offset)
		for _, slot := range slots {
			if slot.OccursOn(day) {
				overview.UpcomingSlots = append(overview.UpcomingSlots, slot)
			}
		}
	}

	rate, err := s.stats.AttendanceRate(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	overview.Rate = rate

	monthly, err := s.stats.MonthlyRates(ctx, studentID, term)
	if err != nil {
		return nil, err
	}
	overview.MonthlyRates = monthly

	recent, err := s.recentMarks(studentID, term, 5)
	if err != nil {
		return nil, err
	}
	overview.RecentMarks = recent
	return overview, nil
}

// recentMarks returns the newest n committed marks for the student.
func (s *DashboardService) recentMarks(studentID string, term models.DateRange, n int) ([]models.CommittedMark, error) {
	var all []models.CommittedMark
	for _, session := range s.ledger.Sessions() {
		marks, ok := s.ledger.MarksForSession(session.ID)
		if !ok {
			continue
		}
		for _, mark := range marks {
			if mark.StudentID == studentID && term.Contains(mark.Date) {
				all = append(all, mark)
			}
		}
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	// newest first
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

func weekdayOf(date time.Time) models.Weekday {
	switch date.Weekday() {
	case time.Monday:
		return models.Monday
	case time.Tuesday:
		return models.Tuesday
	case time.Wednesday:
		return models.Wednesday
	case time.Thursday:
		return models.Thursday
	case time.Friday:
		return models.Friday
	case time.Saturday:
		return models.Saturday
	default:
		return models.Sunday
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package service

import (
	"context"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
	"github.com/beacon-edu/beacon-core/pkg/export"
)

type reportRoster interface {
	StudentByID(id string) (models.Student, bool)
	ClassByID(id string) (models.Class, bool)
}

type reportLedger interface {
	Query(filter models.RecordFilter) []models.CommittedMark
	MarksForSession(sessionID string) ([]models.CommittedMark, bool)
	MarksForStudent(studentID string, r models.DateRange) iter.Seq[models.CommittedMark]
}

// ReportService answers the attendance-record listings behind the teacher's
// review screen and renders them to CSV or PDF.
type ReportService struct {
	roster reportRoster
	ledger reportLedger
	logger *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(roster reportRoster, ledger reportLedger, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{roster: roster, ledger: ledger, logger: logger}
}

// RecordsRequest filters committed attendance records.
type RecordsRequest struct {
	ClassID string
	Status  string
	From    time.Time
	To      time.Time
	// Search matches against student name and roll number, case-insensitive.
	Search string
}

// RecordRow is one attendance record joined with roster data for display.
type RecordRow struct {
	Date       time.Time               `json:"date"`
	StudentID  string                  `json:"student_id"`
	Student    string                  `json:"student"`
	RollNumber string                  `json:"roll_number"`
	ClassName  string                  `json:"class_name"`
	Status     models.AttendanceStatus `json:"status"`
	MarkedAt   *time.Time              `json:"marked_at,omitempty"`
}

// Records lists committed marks matching the request, in commit order.
func (s *ReportService) Records(ctx context.Context, req RecordsRequest) ([]RecordRow, error) {
	filter := models.RecordFilter{
		ClassID: req.ClassID,
		Range:   models.DateRange{From: req.From, To: req.To},
	}
	if req.Status != "" {
		status := models.ParseStatus(req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
		filter.Status = status
	}

	search := strings.ToLower(strings.TrimSpace(req.Search))
	var rows []RecordRow
	for _, mark := range s.ledger.Query(filter) {
		row := s.row(mark)
		if search != "" &&
			!strings.Contains(strings.ToLower(row.Student), search) &&
			!strings.Contains(strings.ToLower(row.RollNumber), search) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SessionReport returns the roster-complete record of one committed session.
func (s *ReportService) SessionReport(ctx context.Context, sessionID string) ([]RecordRow, error) {
	marks, ok := s.ledger.MarksForSession(sessionID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no committed session with this id")
	}
	rows := make([]RecordRow, len(marks))
	for i, mark := range marks {
		rows[i] = s.row(mark)
	}
	return rows, nil
}

// StudentHistory returns a student's committed marks, oldest first.
func (s *ReportService) StudentHistory(ctx context.Context, studentID string, r models.DateRange) ([]RecordRow, error) {
	if _, ok := s.roster.StudentByID(studentID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	var rows []RecordRow
	for mark := range s.ledger.MarksForStudent(studentID, r) {
		rows = append(rows, s.row(mark))
	}
	return rows, nil
}

// RenderCSV encodes rows as a CSV report.
func (s *ReportService) RenderCSV(rows []RecordRow) ([]byte, error) {
	return export.CSV(s.table("", rows))
}

// RenderPDF renders rows as a titled PDF report.
func (s *ReportService) RenderPDF(title string, rows []RecordRow) ([]byte, error) {
	return export.PDF(s.table(title, rows))
}

func (s *ReportService) table(title string, rows []RecordRow) export.Table {
	t := export.Table{
		Title:   title,
		Headers: []string{"Date", "Student", "Roll Number", "Class", "Status", "Time"},
	}
	for _, row := range rows {
		markedAt := "-"
		if row.MarkedAt != nil {
			markedAt = row.MarkedAt.Format("15:04")
		}
		t.Rows = append(t.Rows, []string{
			row.Date.Format("2006-01-02"),
			row.Student,
			row.RollNumber,
			row.ClassName,
			string(row.Status),
			markedAt,
		})
	}
	return t
}

func (s *ReportService) row(mark models.CommittedMark) RecordRow {
	row := RecordRow{
		Date:      mark.Date,
		StudentID: mark.StudentID,
		Status:    mark.Status,
		MarkedAt:  mark.MarkedAt,
	}
	if student, ok := s.roster.StudentByID(mark.StudentID); ok {
		row.Student = student.FullName()
		row.RollNumber = student.RollNumber
	}
	if class, ok := s.roster.ClassByID(mark.ClassID); ok {
		row.ClassName = class.Name
	}
	return row
}

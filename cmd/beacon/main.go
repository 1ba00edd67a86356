// Command beacon runs a seeded walkthrough of the attendance core: it
// registers the demo roster and schedule, takes attendance for one class
// occurrence, and writes the resulting report files. It is the application
// shell around the library; there is no network listener here.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	"github.com/beacon-edu/beacon-core/internal/seed"
	"github.com/beacon-edu/beacon-core/internal/service"
	"github.com/beacon-edu/beacon-core/internal/store"
	"github.com/beacon-edu/beacon-core/pkg/config"
	"github.com/beacon-edu/beacon-core/pkg/logger"
	"github.com/beacon-edu/beacon-core/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "beacon:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	registry := prometheus.NewRegistry()
	rec := metrics.New(registry)

	rosterStore := store.NewRosterStore()
	scheduleStore := store.NewScheduleStore()
	ledger := store.NewLedger()

	roster := service.NewRosterService(rosterStore, nil, nil, log)
	schedule := service.NewScheduleService(scheduleStore, cfg.Attendance.OverlapPolicy, nil, nil, log, rec)
	sessions := service.NewSessionService(rosterStore, scheduleStore, ledger, service.SessionConfig{
		AutoClose:     cfg.Attendance.AutoClose,
		LateThreshold: cfg.Attendance.LateThreshold,
	}, nil, log, rec)
	stats := service.NewStatsService(rosterStore, scheduleStore, ledger, log)
	reports := service.NewReportService(rosterStore, ledger, log)
	dashboards := service.NewDashboardService(rosterStore, scheduleStore, ledger, stats, log)

	fixture, err := seed.Apply(ctx, rosterStore, roster, schedule)
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	log.Info("demo data seeded",
		zap.Int("classes", len(fixture.Classes)),
		zap.Int("students", len(fixture.Students)),
		zap.Int("slots", len(fixture.Slots)))

	physics := fixture.Slots[0]
	date := nextOccurrence(physics, time.Now())

	session, err := sessions.StartSession(ctx, physics.ID, date)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	// Alice and Bob check themselves in, the teacher sweeps the rest absent.
	for _, student := range fixture.Students[:2] {
		if _, err := sessions.SubmitMark(ctx, session.ID, student.ID, models.StatusPresent); err != nil {
			return fmt.Errorf("submit mark: %w", err)
		}
	}
	if _, err := sessions.BulkSetStatus(ctx, session.ID, models.StatusAbsent); err != nil {
		return fmt.Errorf("bulk mark: %w", err)
	}
	if _, err := sessions.CloseSession(ctx, session.ID); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	term := models.DateRange{From: date.AddDate(0, -1, 0), To: date}
	for _, student := range fixture.Students[:2] {
		rate, err := stats.AttendanceRate(ctx, student.ID, term)
		if err != nil {
			return fmt.Errorf("attendance rate: %w", err)
		}
		log.Info("student rate",
			zap.String("student", student.FullName()),
			zap.Int("attended", rate.AttendedCount),
			zap.Int("total", rate.TotalCount),
			zap.Int("percent", rate.Percent()))
	}

	overview, err := dashboards.Teacher(ctx, date)
	if err != nil {
		return fmt.Errorf("teacher dashboard: %w", err)
	}
	log.Info("teacher overview",
		zap.Int("today_slots", len(overview.TodaySlots)),
		zap.Int("today_sessions", len(overview.TodaySessions)),
		zap.Int("total_students", overview.TotalStudents))

	rows, err := reports.SessionReport(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("session report: %w", err)
	}
	if err := writeReports(cfg.Reports.StorageDir, session.ID, reports, rows); err != nil {
		return err
	}
	log.Info("reports written", zap.String("dir", cfg.Reports.StorageDir))
	return nil
}

func writeReports(dir, sessionID string, reports *service.ReportService, rows []service.RecordRow) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	csvBytes, err := reports.RenderCSV(rows)
	if err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "attendance-"+sessionID+".csv"), csvBytes, 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	pdfBytes, err := reports.RenderPDF("Attendance Report", rows)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "attendance-"+sessionID+".pdf"), pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// nextOccurrence finds the next calendar date, starting today, on which the
// slot recurs.
func nextOccurrence(slot models.ClassSlot, from time.Time) time.Time {
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if slot.OccursOn(day) {
			return day
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}

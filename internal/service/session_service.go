package service

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/beacon-edu/beacon-core/internal/models"
	appErrors "github.com/beacon-edu/beacon-core/pkg/errors"
	"github.com/beacon-edu/beacon-core/pkg/metrics"
)

type sessionRoster interface {
	StudentByID(id string) (models.Student, bool)
	StudentsByClass(classID, section string) iter.Seq[models.Student]
}

type sessionSchedule interface {
	Get(id string) (models.ClassSlot, bool)
}

type sessionLedger interface {
	Commit(session models.Session, slot models.ClassSlot, marks []models.Mark) error
}

// CheckInPolicy vets a student self check-in before the mark is accepted,
// e.g. a geofence check. A nil policy admits everyone.
type CheckInPolicy func(student models.Student, session models.Session) error

// SessionConfig tunes optional session behaviour.
type SessionConfig struct {
	// AutoClose closes an active session after this duration when > 0.
	AutoClose time.Duration
	// LateThreshold records Present submissions as Late when they arrive
	// this long after the session opened. Zero disables it.
	LateThreshold time.Duration
	// CheckIn vets self check-ins when set.
	CheckIn CheckInPolicy
}

// liveSession serializes all writes to one session's mark set.
type liveSession struct {
	mu      sync.Mutex
	session models.Session
	slot    models.ClassSlot
	marks   map[string]models.Mark
	order   []string
}

// SessionService is the state machine governing attendance windows. One
// Active session per class slot; marks are accepted only while Active and
// are handed to the ledger exactly once, on close.
type SessionService struct {
	roster   sessionRoster
	schedule sessionSchedule
	ledger   sessionLedger
	cfg      SessionConfig
	clock    Clock
	logger   *zap.Logger
	metrics  *metrics.Recorder

	mu       sync.Mutex
	sessions map[string]*liveSession
	bySlot   map[string]string
}

// NewSessionService constructs the session manager.
func NewSessionService(roster sessionRoster, schedule sessionSchedule, ledger sessionLedger, cfg SessionConfig, clock Clock, logger *zap.Logger, rec *metrics.Recorder) *SessionService {
	if clock == nil {
		clock = defaultClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	return &SessionService{
		roster:   roster,
		schedule: schedule,
		ledger:   ledger,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
		metrics:  rec,
		sessions: make(map[string]*liveSession),
		bySlot:   make(map[string]string),
	}
}

// StartSession opens an attendance window for one slot occurrence. At most
// one Active session may exist per class slot.
func (s *SessionService) StartSession(ctx context.Context, classSlotID string, date time.Time) (*models.Session, error) {
	slot, ok := s.schedule.Get(classSlotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule slot not found")
	}

	s.mu.Lock()
	if activeID, busy := s.bySlot[classSlotID]; busy {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrConflict,
			"an attendance session is already active for this slot: "+activeID)
	}
	session := models.Session{
		ID:          uuid.NewString(),
		ClassSlotID: classSlotID,
		Date:        date,
		State:       models.SessionActive,
		OpenedAt:    s.clock(),
	}
	ls := &liveSession{session: session, slot: slot, marks: make(map[string]models.Mark)}
	s.sessions[session.ID] = ls
	s.bySlot[classSlotID] = session.ID
	s.mu.Unlock()

	s.metrics.SessionsOpened.Inc()
	s.logger.Info("attendance session opened",
		zap.String("session_id", session.ID),
		zap.String("class_slot_id", classSlotID),
		zap.Time("date", date))

	if s.cfg.AutoClose > 0 {
		id := session.ID
		time.AfterFunc(s.cfg.AutoClose, func() {
			// Losing the race to a manual close is fine.
			if _, err := s.CloseSession(context.Background(), id); err != nil && !appErrors.HasCode(err, appErrors.ErrInvalidState) {
				s.logger.Warn("auto-close failed", zap.String("session_id", id), zap.Error(err))
			}
		})
	}
	return &session, nil
}

// Session returns a snapshot of one session's record.
func (s *SessionService) Session(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.Lock()
	ls, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	snapshot := ls.session
	return &snapshot, nil
}

// SubmitMark upserts one student's mark while the session is Active. A later
// mark for the same student overwrites the earlier one.
func (s *SessionService) SubmitMark(ctx context.Context, sessionID, studentID string, status models.AttendanceStatus) (*models.Mark, error) {
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}
	ls, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.session.State != models.SessionActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is closed")
	}
	student, ok := s.roster.StudentByID(studentID)
	if !ok || !s.enrolled(student, ls.slot) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not enrolled in this class")
	}
	if s.cfg.CheckIn != nil {
		if err := s.cfg.CheckIn(student, ls.session); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "check-in rejected")
		}
	}
	mark := s.buildMark(ls, studentID, status)
	ls.upsert(mark)
	s.metrics.MarksSubmitted.WithLabelValues(string(mark.Status)).Inc()
	return &mark, nil
}

// BulkSetStatus applies the status to every enrolled student who has no mark
// yet. Existing marks, including student self check-ins, are never
// overwritten by a bulk action.
func (s *SessionService) BulkSetStatus(ctx context.Context, sessionID string, status models.AttendanceStatus) (int, error) {
	if !status.Valid() {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
	}
	ls, err := s.live(sessionID)
	if err != nil {
		return 0, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.session.State != models.SessionActive {
		return 0, appErrors.Clone(appErrors.ErrInvalidState, "session is closed")
	}
	applied := 0
	for student := range s.roster.StudentsByClass(ls.slot.ClassID, ls.slot.Section) {
		if _, marked := ls.marks[student.ID]; marked {
			continue
		}
		ls.upsert(s.buildMark(ls, student.ID, status))
		applied++
	}
	if applied > 0 {
		s.metrics.MarksSubmitted.WithLabelValues(string(status)).Add(float64(applied))
	}
	return applied, nil
}

// CloseSession finalizes the window: every enrolled student without a mark
// is committed as Absent, the mark set moves into the ledger, and the
// session becomes Closed. Closing is a barrier; submissions racing with it
// fail with an invalid-state error.
func (s *SessionService) CloseSession(ctx context.Context, sessionID string) (*models.Session, error) {
	ls, err := s.live(sessionID)
	if err != nil {
		return nil, err
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.session.State != models.SessionActive {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "session is not active")
	}

	for student := range s.roster.StudentsByClass(ls.slot.ClassID, ls.slot.Section) {
		if _, marked := ls.marks[student.ID]; !marked {
			ls.upsert(models.Mark{StudentID: student.ID, SessionID: sessionID, Status: models.StatusAbsent})
		}
	}
	marks := make([]models.Mark, 0, len(ls.order))
	for _, studentID := range ls.order {
		marks = append(marks, ls.marks[studentID])
	}

	now := s.clock()
	ls.session.State = models.SessionClosed
	ls.session.ClosedAt = &now
	if err := s.ledger.Commit(ls.session, ls.slot, marks); err != nil {
		ls.session.State = models.SessionActive
		ls.session.ClosedAt = nil
		return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "session already committed")
	}

	s.mu.Lock()
	if s.bySlot[ls.session.ClassSlotID] == sessionID {
		delete(s.bySlot, ls.session.ClassSlotID)
	}
	s.mu.Unlock()

	s.metrics.SessionsClosed.Inc()
	s.logger.Info("attendance session closed",
		zap.String("session_id", sessionID),
		zap.Int("marks", len(marks)))
	snapshot := ls.session
	return &snapshot, nil
}

func (s *SessionService) live(sessionID string) (*liveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls, ok := s.sessions[sessionID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return ls, nil
}

func (s *SessionService) enrolled(student models.Student, slot models.ClassSlot) bool {
	if student.ClassID != slot.ClassID {
		return false
	}
	return slot.Section == "" || student.Section == slot.Section
}

// buildMark stamps the mark with the current time, except Absent marks which
// carry no timestamp, and applies the late threshold. Caller holds ls.mu.
func (s *SessionService) buildMark(ls *liveSession, studentID string, status models.AttendanceStatus) models.Mark {
	mark := models.Mark{StudentID: studentID, SessionID: ls.session.ID, Status: status}
	if status == models.StatusAbsent {
		return mark
	}
	now := s.clock()
	mark.MarkedAt = &now
	if status == models.StatusPresent && s.cfg.LateThreshold > 0 && now.Sub(ls.session.OpenedAt) > s.cfg.LateThreshold {
		mark.Status = models.StatusLate
	}
	return mark
}

// upsert replaces any earlier mark for the student. Caller holds ls.mu.
func (ls *liveSession) upsert(mark models.Mark) {
	if _, exists := ls.marks[mark.StudentID]; !exists {
		ls.order = append(ls.order, mark.StudentID)
	}
	ls.marks[mark.StudentID] = mark
}

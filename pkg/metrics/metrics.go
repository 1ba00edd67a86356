package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder holds the attendance core's instrumentation. A shell that serves
// /metrics registers the collectors; the nop recorder keeps them unregistered.
type Recorder struct {
	SessionsOpened    prometheus.Counter
	SessionsClosed    prometheus.Counter
	MarksSubmitted    *prometheus.CounterVec
	ScheduleConflicts prometheus.Counter
}

// New builds a Recorder and registers its collectors when reg is non-nil.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_sessions_opened_total",
			Help: "Attendance sessions opened.",
		}),
		SessionsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_sessions_closed_total",
			Help: "Attendance sessions closed and committed.",
		}),
		MarksSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "beacon_marks_submitted_total",
			Help: "Attendance marks accepted, by status.",
		}, []string{"status"}),
		ScheduleConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "beacon_schedule_conflicts_total",
			Help: "Schedule slots rejected for room/time overlap.",
		}),
	}
	if reg != nil {
		reg.MustRegister(r.SessionsOpened, r.SessionsClosed, r.MarksSubmitted, r.ScheduleConflicts)
	}
	return r
}

// Nop returns an unregistered recorder for tests and library-only callers.
func Nop() *Recorder {
	return New(nil)
}

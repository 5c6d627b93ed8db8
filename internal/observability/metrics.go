package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers the logbook and the hours-of-service engine.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Duty status events stored, by status and source
	EventsRecorded *prometheus.CounterVec

	// Violations reported by summaries, by rule code
	Violations *prometheus.CounterVec

	// Daily logs certified
	LogsSubmitted prometheus.Counter

	// Vehicle inspections recorded, by kind and whether defects were found
	Inspections *prometheus.CounterVec

	// Summary computation latency, storage reads included
	SummaryLatency prometheus.Histogram
}

// New registers the metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EventsRecorded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eld_events_recorded_total",
			Help: "Duty status events recorded by status and source",
		}, []string{"status", "source"}),

		Violations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eld_hos_violations_total",
			Help: "Hours-of-service violations reported by rule",
		}, []string{"code"}),

		LogsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "eld_daily_logs_submitted_total",
			Help: "Daily logs certified",
		}),

		Inspections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "eld_inspections_recorded_total",
			Help: "Vehicle inspections recorded by kind and defect status",
		}, []string{"kind", "defects"}),

		SummaryLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "eld_hos_summary_duration_seconds",
			Help:    "Duration of an HOS summary including storage reads",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

var (
	defaultOnce sync.Once
	defaultM    *Metrics
)

// Default returns the metrics registered with the process-wide registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultM = New(prometheus.DefaultRegisterer)
	})
	return defaultM
}

// IncEvent records a stored event.
func (m *Metrics) IncEvent(status, source string) {
	if m != nil {
		m.EventsRecorded.WithLabelValues(status, source).Inc()
	}
}

// IncViolation records a reported violation.
func (m *Metrics) IncViolation(code string) {
	if m != nil {
		m.Violations.WithLabelValues(code).Inc()
	}
}

// IncSubmitted records a certified daily log.
func (m *Metrics) IncSubmitted() {
	if m != nil {
		m.LogsSubmitted.Inc()
	}
}

// IncInspection records a stored inspection.
func (m *Metrics) IncInspection(kind string, defects bool) {
	if m != nil {
		label := "none"
		if defects {
			label = "found"
		}
		m.Inspections.WithLabelValues(kind, label).Inc()
	}
}

// ObserveSummary records the duration of a summary.
func (m *Metrics) ObserveSummary(d time.Duration) {
	if m != nil {
		m.SummaryLatency.Observe(d.Seconds())
	}
}

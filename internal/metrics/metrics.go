package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gauntlet collectors. A nil *Metrics records nothing.
type Metrics struct {
	answers         *prometheus.CounterVec
	gradingFallback *prometheus.CounterVec
	judgeDuration   *prometheus.HistogramVec
	sessionsStarted *prometheus.CounterVec
	sessionsEnded   *prometheus.CounterVec
	activeSessions  prometheus.Gauge
	difficulty      *prometheus.CounterVec
	effects         *prometheus.CounterVec
	events          *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		answers: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_answers_total",
				Help: "Answers processed, by result and grading method",
			},
			[]string{"result", "method"}, // result: correct/incorrect/timeout
		),
		gradingFallback: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_grading_fallback_total",
				Help: "Code answers graded by similarity instead of the judge",
			},
			[]string{"reason"}, // reason: disabled/circuit_open/judge_error/missing_test_cases
		),
		judgeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gauntlet_judge_duration_seconds",
				Help:    "Time spent waiting for the code judge",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"}, // status: ok/error
		),
		sessionsStarted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_sessions_started_total",
				Help: "Sessions started, by kind",
			},
			[]string{"kind"},
		),
		sessionsEnded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_sessions_ended_total",
				Help: "Sessions ended, by completion reason",
			},
			[]string{"reason"},
		),
		activeSessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "gauntlet_active_sessions_current",
				Help: "Sessions started and not yet ended by this process",
			},
		),
		difficulty: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_difficulty_changes_total",
				Help: "Difficulty promotions and demotions",
			},
			[]string{"reason"},
		),
		effects: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_effects_granted_total",
				Help: "Blessings and curses granted",
			},
			[]string{"kind"},
		),
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gauntlet_events_published_total",
				Help: "Lifecycle events handed to the broker",
			},
			[]string{"type", "status"},
		),
	}
}

func (m *Metrics) AnswerProcessed(result, method string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(result, method).Inc()
}

func (m *Metrics) GradingFallback(reason string) {
	if m == nil {
		return
	}
	m.gradingFallback.WithLabelValues(reason).Inc()
}

func (m *Metrics) JudgeCall(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.judgeDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) SessionStarted(kind string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(kind).Inc()
	m.activeSessions.Inc()
}

func (m *Metrics) SessionEnded(reason string) {
	if m == nil {
		return
	}
	m.sessionsEnded.WithLabelValues(reason).Inc()
	m.activeSessions.Dec()
}

func (m *Metrics) DifficultyChanged(reason string) {
	if m == nil {
		return
	}
	m.difficulty.WithLabelValues(reason).Inc()
}

func (m *Metrics) EffectGranted(kind string) {
	if m == nil {
		return
	}
	m.effects.WithLabelValues(kind).Inc()
}

func (m *Metrics) EventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.events.WithLabelValues(eventType, status).Inc()
}

package observability

import (
	"context"
	"net/http"
	"strings"

	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the session collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Turns          *prometheus.CounterVec
	Feedback       *prometheus.CounterVec
	TopicSwitches  *prometheus.CounterVec
	Repeats        prometheus.Counter
	EngineDuration *prometheus.HistogramVec
	EngineErrors   prometheus.Counter
	Sessions       *prometheus.CounterVec
	Outcomes       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listenbot_turns_total",
				Help: "Tracked turns by speaker role.",
			},
			[]string{"role"},
		),
		Feedback: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listenbot_feedback_total",
				Help: "User feedback by topic and kind.",
			},
			[]string{"topic", "feedback"},
		),
		TopicSwitches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listenbot_topic_switches_total",
				Help: "Topic changes by destination topic.",
			},
			[]string{"to"},
		),
		Repeats: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listenbot_repeats_total",
			Help: "Robot replies repeated after an unclear answer.",
		}),
		EngineDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listenbot_engine_duration_seconds",
				Help:    "Duration of response engine calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		EngineErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "listenbot_engine_errors_total",
			Help: "Failed response engine calls.",
		}),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listenbot_sessions_total",
				Help: "Finished sessions by stop reason.",
			},
			[]string{"reason"},
		),
		Outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listenbot_outcomes_total",
				Help: "Session results reported by the script.",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.Turns, m.Feedback, m.TopicSwitches, m.Repeats,
		m.EngineDuration, m.EngineErrors, m.Sessions, m.Outcomes,
	)
	return m
}

// Registry exposes the registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordOutcome counts a script result at the end of a session.
func (m *Metrics) RecordOutcome(result domain.Result) {
	if result == domain.ResultNone {
		return
	}
	m.Outcomes.WithLabelValues(result.String()).Inc()
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			if e.Command.IsAction() {
				m.Turns.WithLabelValues("robot").Inc()
			} else {
				m.Turns.WithLabelValues("user").Inc()
				m.Feedback.WithLabelValues(e.Command.Topic.String(), e.Command.Feedback.String()).Inc()
			}
			if e.Repeat {
				m.Repeats.Inc()
			}
		},
		OnTopicSwitch: func(_ context.Context, e *domain.SwitchEvent) {
			m.TopicSwitches.WithLabelValues(e.To.String()).Inc()
		},
		OnEngineCall: func(_ context.Context, e *domain.EngineEvent) {
			m.EngineDuration.WithLabelValues(commandKind(e.Command)).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.EngineErrors.Inc()
			}
		},
		OnStop: func(_ context.Context, e *domain.StopEvent) {
			m.Sessions.WithLabelValues(string(e.Reason)).Inc()
		},
	}
}

func commandKind(command string) string {
	kind, _, _ := strings.Cut(command, " ")
	return kind
}

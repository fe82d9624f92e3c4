package observability

import (
	"context"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the interpreter hooks.
type Metrics struct {
	Commands    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Diagnostics *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senglish_commands_total",
				Help: "Total number of executed segments by command and status",
			},
			[]string{"command", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "senglish_command_duration_seconds",
				Help:    "Duration of segment executions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "senglish_diagnostics_total",
				Help: "Total number of diagnostics by kind",
			},
			[]string{"kind"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Commands, m.Duration, m.Diagnostics)
	}
	return m
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommandEnd: func(ctx context.Context, e *domain.CommandEvent) {
			if e.Outcome == nil {
				return
			}
			name := commandLabel(e.Command.Name, e.Outcome.Status)
			m.Commands.WithLabelValues(name, string(e.Outcome.Status)).Inc()
			m.Duration.WithLabelValues(name).Observe(e.Outcome.Duration.Seconds())
		},
		OnDiagnostic: func(ctx context.Context, e *domain.DiagnosticEvent) {
			m.Diagnostics.WithLabelValues(string(e.Diagnostic.Kind)).Inc()
		},
	}
}

// UnknownCommandLabel replaces the name of every unresolved command, so
// arbitrary input cannot create new series.
const UnknownCommandLabel = "unknown"

// commandLabel keeps label cardinality bounded by the registered vocabulary.
func commandLabel(name string, status domain.Status) string {
	switch {
	case status == domain.StatusUnknown:
		return UnknownCommandLabel
	case name == "":
		return "none"
	}
	return name
}

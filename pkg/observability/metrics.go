package observability

import (
	"context"
	"strconv"

	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors fed by engine hooks.
type Metrics struct {
	Steps   prometheus.Counter
	Gaps    *prometheus.CounterVec
	Renames *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ordinal_steps_total",
			Help: "Filenames walked past during gap searches and run marking",
		}),
		Gaps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ordinal_gaps_total",
				Help: "Finished walks by stop reason",
			},
			[]string{"reason"},
		),
		Renames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ordinal_renames_total",
				Help: "Renames applied by transformation kind",
			},
			[]string{"kind", "dry_run"},
		),
	}
	for _, c := range []prometheus.Collector{m.Steps, m.Gaps, m.Renames} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns engine hooks that update the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
		},
		OnGap: func(ctx context.Context, e *domain.GapEvent) {
			m.Gaps.WithLabelValues(string(e.Gap.Reason)).Inc()
		},
		OnRename: func(ctx context.Context, e *domain.RenameEvent) {
			m.Renames.WithLabelValues(string(e.Kind), strconv.FormatBool(e.DryRun)).Inc()
		},
	}
}

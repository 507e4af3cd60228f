package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the engine's Prometheus instrumentation.
type Metrics struct {
	FixtureRuns       *prometheus.CounterVec
	MatchesCreated    prometheus.Counter
	RoundAdvances     *prometheus.CounterVec
	AvailabilityPolls prometheus.Counter
	ScheduleDuration  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FixtureRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fixture_engine_generation_runs_total",
			Help: "Fixture generation runs by outcome.",
		}, []string{"outcome"}),
		MatchesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fixture_engine_matches_created_total",
			Help: "Match rows created by the scheduler.",
		}),
		RoundAdvances: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fixture_engine_round_advances_total",
			Help: "Knockout round advancement attempts by outcome.",
		}, []string{"outcome"}),
		AvailabilityPolls: factory.NewCounter(prometheus.CounterOpts{
			Name: "fixture_engine_availability_polls_total",
			Help: "Idle status evaluations across all resources.",
		}),
		ScheduleDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "fixture_engine_schedule_duration_seconds",
			Help:    "Wall time of one scheduling computation.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

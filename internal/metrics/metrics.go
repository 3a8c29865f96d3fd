// internal/metrics/metrics.go
//
// Prometheus metrics for the solver. Registered on the default registry and
// served by the HTTP server on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuessesScored counts guesses evaluated by the scorer, by mode.
	GuessesScored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "solver_guesses_scored_total",
		Help: "Guesses evaluated against the candidate set, by scoring mode",
	}, []string{"mode"})

	// ScoreDuration tracks one full scoring pass (whole guess pool).
	ScoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_score_duration_seconds",
		Help:    "Duration of a full guess-pool scoring pass",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
	}, []string{"mode"})

	// SolveTurns records turns needed per finished solve.
	SolveTurns = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_solve_turns",
		Help:    "Turns taken to reach an all-hit pattern",
		Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 10},
	}, []string{"mode", "hard"})

	// EmptyCandidates counts observations that contradicted every candidate.
	EmptyCandidates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "solver_empty_candidate_set_total",
		Help: "Feedback observations that left no candidate",
	})

	// Sessions tracks live interactive sessions.
	Sessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solver_sessions",
		Help: "Interactive solver sessions held in memory",
	})
)

// Package observability exposes Prometheus metrics for the reward economy.
//
// Counters track what flows through the engine (points awarded, level-ups,
// purchases, retractions); gauges mirror the committed state after each
// operation so a scrape always sees what was last persisted.
package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tutu-network/dreambank/internal/domain"
)

// ─── Economy Metrics ────────────────────────────────────────────────────────

// PointsAwarded tracks points credited to ledgers by kind (activity, bonus).
var PointsAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "ledger",
	Name:      "points_awarded_total",
	Help:      "Total points credited to user ledgers.",
}, []string{"kind"})

// PointsRetracted tracks points removed by deleting log entries.
var PointsRetracted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "ledger",
	Name:      "points_retracted_total",
	Help:      "Total points removed by deleting activity log entries.",
})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "ledger",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// Purchases tracks purchases by reward type (treat, dream).
var Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "rewards",
	Name:      "purchases_total",
	Help:      "Total reward purchases by type.",
}, []string{"type"})

// PointsSpent tracks points spent by reward type.
var PointsSpent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "rewards",
	Name:      "points_spent_total",
	Help:      "Total points spent on rewards by type.",
}, []string{"type"})

// ─── State Gauges ───────────────────────────────────────────────────────────

// DreamPool mirrors the committed shared dream pool.
var DreamPool = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "dreambank",
	Subsystem: "pool",
	Name:      "points",
	Help:      "Current shared dream pool balance.",
})

// Users mirrors the roster size.
var Users = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "dreambank",
	Subsystem: "roster",
	Name:      "users",
	Help:      "Number of registered users.",
})

// ─── Operation Metrics ──────────────────────────────────────────────────────

// Operations tracks engine operations by name and outcome.
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "dreambank",
	Subsystem: "engine",
	Name:      "operations_total",
	Help:      "Engine operations by name and outcome.",
}, []string{"op", "outcome"})

// CommitLatency tracks snapshot commit latency.
var CommitLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "dreambank",
	Subsystem: "storage",
	Name:      "commit_seconds",
	Help:      "Latency of atomic snapshot commits.",
	Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
})

// ObserveOperation records the outcome of an engine operation.
func ObserveOperation(op string, err error) {
	Operations.WithLabelValues(op, Outcome(err)).Inc()
}

// ObserveCommit records how long a commit took.
func ObserveCommit(start time.Time) {
	CommitLatency.Observe(time.Since(start).Seconds())
}

// ObserveState refreshes the state gauges from a committed state.
func ObserveState(s *domain.AppState) {
	DreamPool.Set(float64(s.Bank.DreamPool))
	Users.Set(float64(len(s.Users)))
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateUser):
		return "duplicate_user"
	case errors.Is(err, domain.ErrAlreadyPurchased):
		return "already_purchased"
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	default:
		return "error"
	}
}

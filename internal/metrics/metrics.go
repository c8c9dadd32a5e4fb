package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reform"

// #region metrics
// Metrics holds the Prometheus collectors for ledger and reform activity.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// PointsCredited counts points added to ledgers after the multiplier.
	PointsCredited prometheus.Counter

	// PointsConsumed counts approved totals taken from ledgers. Negative
	// totals (refunds) are not counted.
	PointsConsumed prometheus.Counter

	// Attempts counts reform attempts. Labels: decision (approve, reject, audit_failed)
	Attempts *prometheus.CounterVec

	// ThresholdCrossings counts credits that opened the reform window.
	ThresholdCrossings prometheus.Counter

	// ReformTotal observes the scored total of each attempt.
	ReformTotal prometheus.Histogram
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PointsCredited: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_credited_total",
			Help:      "Development points credited to ledgers",
		}),
		PointsConsumed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_consumed_total",
			Help:      "Development points consumed by approved reforms",
		}),
		Attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attempts_total",
			Help:      "Reform attempts by decision",
		}, []string{"decision"}),
		ThresholdCrossings: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threshold_crossings_total",
			Help:      "Credits that moved a balance from below to at or above the threshold",
		}),
		ReformTotal: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reform_cost_points",
			Help:      "Scored total of reform attempts",
			Buckets:   []float64{0, 5, 10, 15, 20, 30, 50, 100},
		}),
	}
}

// #endregion metrics

// #region record
// RecordCredit records a credit of awarded points.
func (m *Metrics) RecordCredit(awarded int, crossed bool) {
	if m == nil {
		return
	}
	m.PointsCredited.Add(float64(max(awarded, 0)))
	if crossed {
		m.ThresholdCrossings.Inc()
	}
}

// RecordAttempt records an attempt's decision and scored total. consumed is
// the amount taken from the ledger, zero when nothing was consumed.
func (m *Metrics) RecordAttempt(decision string, total, consumed int) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(decision).Inc()
	m.ReformTotal.Observe(float64(total))
	if consumed > 0 {
		m.PointsConsumed.Add(float64(consumed))
	}
}

// #endregion record

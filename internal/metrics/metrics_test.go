package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return New(prometheus.NewRegistry())
}

func TestRecordCredit(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordCredit(6, false)
	m.RecordCredit(4, true)

	if val := testutil.ToFloat64(m.PointsCredited); val != 10 {
		t.Errorf("PointsCredited = %f, want 10", val)
	}
	if val := testutil.ToFloat64(m.ThresholdCrossings); val != 1 {
		t.Errorf("ThresholdCrossings = %f, want 1", val)
	}
}

func TestRecordAttempt(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordAttempt("approve", 14, 14)
	m.RecordAttempt("reject", 22, 0)
	m.RecordAttempt("approve", -6, -6)

	if val := testutil.ToFloat64(m.Attempts.WithLabelValues("approve")); val != 2 {
		t.Errorf("Attempts[approve] = %f, want 2", val)
	}
	if val := testutil.ToFloat64(m.Attempts.WithLabelValues("reject")); val != 1 {
		t.Errorf("Attempts[reject] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(m.PointsConsumed); val != 14 {
		t.Errorf("PointsConsumed = %f, want 14", val)
	}
	if n := testutil.CollectAndCount(m.ReformTotal); n != 1 {
		t.Errorf("ReformTotal collected %d metrics, want 1", n)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordCredit(5, true)
	m.RecordAttempt("approve", 5, 5)
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	New(reg)
}

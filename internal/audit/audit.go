package audit

import (
	"fmt"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
)

// #region check
// Check validates a consume transition: the balance must drop by exactly the
// approved total and the reform count must grow by one. A transition that
// spent the whole balance when the approved total was smaller fails with a
// dedicated metric.
func Check(before, after ledger.Ledger, approvedTotal int) AuditResult {
	var metrics []AuditMetric
	var failReasons []string

	// 1. Balance moved by exactly the approved total
	delta := after.Balance - before.Balance
	deltaPass := delta == -approvedTotal
	metrics = append(metrics, AuditMetric{
		Name:  "balance_delta",
		Value: delta,
		Want:  -approvedTotal,
		Pass:  deltaPass,
	})
	if !deltaPass {
		failReasons = append(failReasons, fmt.Sprintf("balance moved by %d, approved total was %d", delta, approvedTotal))
	}

	// 2. Exactly one reform counted
	countDelta := after.ReformCount - before.ReformCount
	countPass := countDelta == 1
	metrics = append(metrics, AuditMetric{
		Name:  "reform_count_delta",
		Value: countDelta,
		Want:  1,
		Pass:  countPass,
	})
	if !countPass {
		failReasons = append(failReasons, fmt.Sprintf("reform count moved by %d", countDelta))
	}

	// 3. Full-balance reset instead of the approved total
	reset := before.Balance != approvedTotal && after.Balance == 0 && before.Balance > 0
	metrics = append(metrics, AuditMetric{
		Name:  "consumed_full_balance",
		Value: boolInt(reset),
		Want:  0,
		Pass:  !reset,
	})
	if reset {
		failReasons = append(failReasons, fmt.Sprintf("balance %d reset to zero instead of spending %d", before.Balance, approvedTotal))
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("audit failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("audit failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return AuditResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion check

// #region helpers
func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers

package audit

// #region audit-metric
// AuditMetric captures a single validation check result.
type AuditMetric struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Want  int    `json:"want"`
	Pass  bool   `json:"pass"`
}

// #endregion audit-metric

// #region audit-result
// AuditResult is the output of a post-consume check.
type AuditResult struct {
	Passed  bool          `json:"passed"`
	Metrics []AuditMetric `json:"metrics"`
	Reason  string        `json:"reason"`
}

// #endregion audit-result

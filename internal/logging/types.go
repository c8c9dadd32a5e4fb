package logging

import "time"

// Reform log actions.
const (
	ActionCredit   = "credit"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionRollback = "rollback"
)

// #region reform-entry
// ReformEntry is a single row in the reform_log table.
type ReformEntry struct {
	ID          int64
	ActorID     string
	VersionID   string // ledger version after the action, empty on reject
	Action      string
	Total       int // approved or requested total; awarded points on credit
	Balance     int
	Explanation string
	Reason      string
	CreatedAt   time.Time
}

// #endregion reform-entry

package logging

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// #region log-decision
// LogDecision writes an entry to the reform_log table.
func LogDecision(db sqlx.Execer, entry ReformEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO reform_log (actor_id, version_id, action, total, balance, explanation, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ActorID,
		nullIfEmpty(entry.VersionID),
		entry.Action,
		entry.Total,
		entry.Balance,
		nullIfEmpty(entry.Explanation),
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}

// #endregion log-decision

// #region recent-decisions
type entryRow struct {
	ID          int64          `db:"id"`
	ActorID     string         `db:"actor_id"`
	VersionID   sql.NullString `db:"version_id"`
	Action      string         `db:"action"`
	Total       int            `db:"total"`
	Balance     int            `db:"balance"`
	Explanation sql.NullString `db:"explanation"`
	Reason      sql.NullString `db:"reason"`
	CreatedAt   string         `db:"created_at"`
}

// RecentDecisions returns the actor's latest log entries, newest first.
func RecentDecisions(db sqlx.Queryer, actorID string, limit int) ([]ReformEntry, error) {
	var rows []entryRow
	err := sqlx.Select(db, &rows,
		`SELECT id, actor_id, version_id, action, total, balance, explanation, reason, created_at
		 FROM reform_log WHERE actor_id = ? ORDER BY id DESC LIMIT ?`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent decisions: %w", err)
	}

	entries := make([]ReformEntry, 0, len(rows))
	for _, r := range rows {
		e := ReformEntry{
			ID:          r.ID,
			ActorID:     r.ActorID,
			VersionID:   r.VersionID.String,
			Action:      r.Action,
			Total:       r.Total,
			Balance:     r.Balance,
			Explanation: r.Explanation.String,
			Reason:      r.Reason.String,
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.CreatedAt)
		entries = append(entries, e)
	}
	return entries, nil
}

// #endregion recent-decisions

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers

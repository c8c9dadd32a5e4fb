package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
)

// ErrLedgerNotFound is returned when an actor has no active ledger version.
var ErrLedgerNotFound = errors.New("ledger not found")

// #region ledger-record
// LedgerRecord is one immutable version of an actor's ledger.
type LedgerRecord struct {
	VersionID   string
	ParentID    string
	ActorID     string
	Balance     int
	ReformCount int
	Reason      string // "open" | "credit" | "reform"
	CreatedAt   time.Time
}

// Ledger rebuilds the in-memory ledger from this version.
func (r LedgerRecord) Ledger() *ledger.Ledger {
	return ledger.Restore(r.ActorID, r.Balance, r.ReformCount)
}

// #endregion ledger-record

// #region rows
type ledgerRow struct {
	VersionID   string         `db:"version_id"`
	ParentID    sql.NullString `db:"parent_id"`
	ActorID     string         `db:"actor_id"`
	Balance     int            `db:"balance"`
	ReformCount int            `db:"reform_count"`
	Reason      string         `db:"reason"`
	CreatedAt   string         `db:"created_at"`
}

func (row ledgerRow) record() LedgerRecord {
	rec := LedgerRecord{
		VersionID:   row.VersionID,
		ActorID:     row.ActorID,
		Balance:     row.Balance,
		ReformCount: row.ReformCount,
		Reason:      row.Reason,
	}
	if row.ParentID.Valid {
		rec.ParentID = row.ParentID.String
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, row.CreatedAt)
	return rec
}

// #endregion rows

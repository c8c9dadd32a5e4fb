package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS ledger_versions (
	version_id    TEXT PRIMARY KEY,
	parent_id     TEXT,
	actor_id      TEXT NOT NULL,
	balance       INTEGER NOT NULL,
	reform_count  INTEGER NOT NULL,
	reason        TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES ledger_versions(version_id)
);

CREATE INDEX IF NOT EXISTS ledger_versions_actor ON ledger_versions(actor_id, created_at);

CREATE TABLE IF NOT EXISTS active_ledger (
	actor_id      TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES ledger_versions(version_id)
);

CREATE TABLE IF NOT EXISTS reform_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	actor_id      TEXT NOT NULL,
	version_id    TEXT,
	action        TEXT NOT NULL,
	total         INTEGER NOT NULL,
	balance       INTEGER NOT NULL,
	explanation   TEXT,
	reason        TEXT,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS weight_settings (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	weights_json  TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// #endregion schema

const ledgerColumns = `version_id, parent_id, actor_id, balance, reform_count, reason, created_at`

// #region store-struct
// Store manages versioned ledgers and saved weights in SQLite.
type Store struct {
	db *sqlx.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations. Pragmas go through the
// DSN so every pooled connection gets them.
func NewStore(dbPath string) (*Store, error) {
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for the decision log.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// #endregion constructor

// #region ensure-ledger
// EnsureLedger returns the actor's active ledger, opening a zero-balance
// version first if the actor has none.
func (s *Store) EnsureLedger(actorID string) (LedgerRecord, error) {
	rec, err := s.GetLedger(actorID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrLedgerNotFound) {
		return LedgerRecord{}, err
	}
	return s.CommitLedger("", *ledger.New(actorID), "open")
}

// #endregion ensure-ledger

// #region get-ledger
// GetLedger reads the actor's active ledger version.
func (s *Store) GetLedger(actorID string) (LedgerRecord, error) {
	var versionID string
	err := s.db.Get(&versionID, `SELECT version_id FROM active_ledger WHERE actor_id = ?`, actorID)
	if errors.Is(err, sql.ErrNoRows) {
		return LedgerRecord{}, fmt.Errorf("get ledger %s: %w", actorID, ErrLedgerNotFound)
	}
	if err != nil {
		return LedgerRecord{}, fmt.Errorf("get active %s: %w", actorID, err)
	}
	return s.GetVersion(versionID)
}

// GetVersion retrieves a specific ledger version by ID.
func (s *Store) GetVersion(id string) (LedgerRecord, error) {
	var row ledgerRow
	err := s.db.Get(&row, `SELECT `+ledgerColumns+` FROM ledger_versions WHERE version_id = ?`, id)
	if err != nil {
		return LedgerRecord{}, fmt.Errorf("get version %s: %w", id, err)
	}
	return row.record(), nil
}

// #endregion get-ledger

// #region commit-ledger
// CommitLedger inserts a new version of l on top of parentID and moves the
// actor's active pointer to it atomically. An empty parentID starts a chain.
func (s *Store) CommitLedger(parentID string, l ledger.Ledger, reason string) (LedgerRecord, error) {
	rec := LedgerRecord{
		VersionID:   uuid.New().String(),
		ParentID:    parentID,
		ActorID:     l.ActorID,
		Balance:     l.Balance,
		ReformCount: l.ReformCount,
		Reason:      reason,
		CreatedAt:   time.Now().UTC(),
	}

	var parentPtr interface{}
	if parentID != "" {
		parentPtr = parentID
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return LedgerRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO ledger_versions (`+ledgerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.VersionID, parentPtr, rec.ActorID, rec.Balance, rec.ReformCount, rec.Reason,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return LedgerRecord{}, fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_ledger (actor_id, version_id) VALUES (?, ?)
		 ON CONFLICT(actor_id) DO UPDATE SET version_id = excluded.version_id`,
		rec.ActorID, rec.VersionID,
	)
	if err != nil {
		return LedgerRecord{}, fmt.Errorf("set active: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return LedgerRecord{}, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

// #endregion commit-ledger

// #region rollback
// Rollback points the actor's active ledger at one of its earlier versions.
func (s *Store) Rollback(actorID, targetVersionID string) error {
	var owner string
	err := s.db.Get(&owner, `SELECT actor_id FROM ledger_versions WHERE version_id = ?`, targetVersionID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("version %s not found", targetVersionID)
	}
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if owner != actorID {
		return fmt.Errorf("version %s belongs to %s, not %s", targetVersionID, owner, actorID)
	}

	_, err = s.db.Exec(`UPDATE active_ledger SET version_id = ? WHERE actor_id = ?`, targetVersionID, actorID)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

// #endregion rollback

// #region list-versions
// ListVersions returns the actor's most recent ledger versions, newest first.
func (s *Store) ListVersions(actorID string, limit int) ([]LedgerRecord, error) {
	var rows []ledgerRow
	err := s.db.Select(&rows,
		`SELECT `+ledgerColumns+` FROM ledger_versions
		 WHERE actor_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	records := make([]LedgerRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

// #endregion list-versions

// #region weights
// SaveWeights persists cfg as the host's saved weight settings.
func (s *Store) SaveWeights(cfg weights.Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal weights: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO weight_settings (id, weights_json, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET weights_json = excluded.weights_json, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save weights: %w", err)
	}
	return nil
}

// LoadWeights returns the saved weights, clamped, with a warning per corrected
// field. Defaults are returned when nothing has been saved.
func (s *Store) LoadWeights() (weights.Config, []string, error) {
	var raw string
	err := s.db.Get(&raw, `SELECT weights_json FROM weight_settings WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return weights.Default(), nil, nil
	}
	if err != nil {
		return weights.Config{}, nil, fmt.Errorf("load weights: %w", err)
	}
	cfg, warnings, err := weights.Parse([]byte(raw))
	if err != nil {
		return weights.Config{}, nil, fmt.Errorf("decode weights: %w", err)
	}
	return cfg, warnings, nil
}

// #endregion weights

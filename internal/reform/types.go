package reform

import (
	"errors"
	"log/slog"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/audit"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/metrics"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// ErrAuditFailed is returned when a consume transition fails its audit. The
// ledger version is not committed.
var ErrAuditFailed = errors.New("reform audit failed")

// ErrMissingActor is returned for requests without an actor ID.
var ErrMissingActor = errors.New("actor id required")

// #region options
// Options wires the controller's optional collaborators. Zero values are
// valid: default gate rules, no metrics, discarded logs, no notifier.
type Options struct {
	Gate     gate.GateConfig
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Notifier ledger.Notifier
}

// #endregion options

// #region requests
// Request asks to price (and optionally apply) the change Before -> After for
// one actor.
type Request struct {
	ActorID   string            `json:"actor_id"`
	Before    snapshot.Snapshot `json:"before"`
	After     snapshot.Snapshot `json:"after"`
	Modifiers weights.Modifiers `json:"modifiers"`
}

// CreditRequest adds points to an actor's ledger. Quiet credits come from
// side award paths and never raise the threshold notification.
type CreditRequest struct {
	ActorID   string            `json:"actor_id"`
	Points    int               `json:"points"`
	Modifiers weights.Modifiers `json:"modifiers"`
	Quiet     bool              `json:"quiet"`
}

// #endregion requests

// #region results
// Preview is a priced change with the ledger it would be paid from.
type Preview struct {
	Result      scoring.Result `json:"result"`
	Balance     int            `json:"balance"`
	ReformCount int            `json:"reform_count"`
	Threshold   int            `json:"threshold"`
}

// AttemptResult reports a gated reform. VersionID is the ledger version after
// the attempt; on rejection it is the unchanged active version.
type AttemptResult struct {
	Decision    gate.GateDecision  `json:"decision"`
	Result      scoring.Result     `json:"result"`
	Balance     int                `json:"balance"`
	ReformCount int                `json:"reform_count"`
	VersionID   string             `json:"version_id"`
	Audit       *audit.AuditResult `json:"audit,omitempty"`
}

// CreditOutcome is a committed credit.
type CreditOutcome struct {
	ledger.CreditResult
	VersionID string `json:"version_id"`
}

// LedgerView is an actor's ledger with the threshold under the live weights.
type LedgerView struct {
	ActorID     string `json:"actor_id"`
	Balance     int    `json:"balance"`
	ReformCount int    `json:"reform_count"`
	Threshold   int    `json:"threshold"`
	CanReform   bool   `json:"can_reform"`
	VersionID   string `json:"version_id,omitempty"` // empty until the first write
}

// #endregion results

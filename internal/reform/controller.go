package reform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/audit"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/logging"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/metrics"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/store"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region controller-struct
// Controller prices reforms, gates them against the actor's ledger and
// commits the result. Calls for the same actor are serialized; different
// actors proceed in parallel.
type Controller struct {
	store    *store.Store
	weights  *weights.Live
	gate     *gate.Gate
	metrics  *metrics.Metrics
	logger   *slog.Logger
	notifier ledger.Notifier

	mu     sync.Mutex
	actors map[string]*sync.Mutex
}

// #endregion controller-struct

// #region constructor
// NewController wires a controller over st, reading weights from live on
// every call.
func NewController(st *store.Store, live *weights.Live, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Controller{
		store:    st,
		weights:  live,
		gate:     gate.NewGate(opts.Gate),
		metrics:  opts.Metrics,
		logger:   logger,
		notifier: opts.Notifier,
		actors:   make(map[string]*sync.Mutex),
	}
}

// Weights returns the live weights holder.
func (c *Controller) Weights() *weights.Live {
	return c.weights
}

// #endregion constructor

// #region actor-lock
func (c *Controller) lock(actorID string) func() {
	c.mu.Lock()
	m, ok := c.actors[actorID]
	if !ok {
		m = &sync.Mutex{}
		c.actors[actorID] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// #endregion actor-lock

// #region preview
// Preview prices a change against the actor's current ledger without
// touching it.
func (c *Controller) Preview(req Request) (Preview, error) {
	if req.ActorID == "" {
		return Preview{}, ErrMissingActor
	}
	defer c.lock(req.ActorID)()

	view, err := c.view(req.ActorID, req.Modifiers)
	if err != nil {
		return Preview{}, err
	}
	w := c.weights.Load()
	result, err := scoring.Score(req.Before, req.After, w, view.ReformCount, req.Modifiers)
	if err != nil {
		return Preview{}, fmt.Errorf("score: %w", err)
	}
	if w.DebugMode {
		logging.LogExplanation(c.logger, req.ActorID, result)
	}
	return Preview{
		Result:      result,
		Balance:     view.Balance,
		ReformCount: view.ReformCount,
		Threshold:   view.Threshold,
	}, nil
}

// #endregion preview

// #region attempt
// Attempt scores the change, asks the gate, and on approval consumes exactly
// the scored total and commits a new ledger version. A rejection is not an
// error; the ledger is left unchanged.
func (c *Controller) Attempt(req Request) (AttemptResult, error) {
	if req.ActorID == "" {
		return AttemptResult{}, ErrMissingActor
	}
	defer c.lock(req.ActorID)()

	rec, err := c.store.EnsureLedger(req.ActorID)
	if err != nil {
		return AttemptResult{}, err
	}
	l := rec.Ledger()
	w := c.weights.Load()

	// 1. Price
	result, err := scoring.Score(req.Before, req.After, w, l.ReformCount, req.Modifiers)
	if err != nil {
		return AttemptResult{}, fmt.Errorf("score: %w", err)
	}
	if w.DebugMode {
		logging.LogExplanation(c.logger, req.ActorID, result)
	}
	c.logger.Info("reform requested",
		"actor", req.ActorID, "available", l.Balance, "required", result.Total)

	// 2. Gate; the threshold is read exactly once
	threshold := l.Threshold(w, req.Modifiers)
	decision := c.gate.Evaluate(result, l.Balance, threshold)
	out := AttemptResult{
		Decision:    decision,
		Result:      result,
		Balance:     l.Balance,
		ReformCount: l.ReformCount,
		VersionID:   rec.VersionID,
	}
	if !decision.Approved() {
		c.metrics.RecordAttempt(gate.ActionReject, result.Total, 0)
		c.logger.Info("reform rejected", "actor", req.ActorID, "reason", decision.Reason)
		c.record(logging.ReformEntry{
			ActorID:     req.ActorID,
			Action:      logging.ActionReject,
			Total:       result.Total,
			Balance:     l.Balance,
			Explanation: result.Explanation(),
			Reason:      decision.Reason,
		})
		return out, nil
	}

	// 3. Consume the approved total and audit the transition
	before := *l
	l.Consume(decision.Required)
	check := audit.Check(before, *l, result.Total)
	out.Audit = &check
	if !check.Passed {
		c.metrics.RecordAttempt("audit_failed", result.Total, 0)
		c.logger.Error("reform audit failed", "actor", req.ActorID, "reason", check.Reason)
		return out, fmt.Errorf("%w: %s", ErrAuditFailed, check.Reason)
	}

	// 4. Commit
	next, err := c.store.CommitLedger(rec.VersionID, *l, "reform")
	if err != nil {
		return AttemptResult{}, fmt.Errorf("commit reform: %w", err)
	}
	out.Balance = next.Balance
	out.ReformCount = next.ReformCount
	out.VersionID = next.VersionID

	c.metrics.RecordAttempt(gate.ActionApprove, result.Total, result.Total)
	c.logger.Info("reform approved",
		"actor", req.ActorID, "total", result.Total, "balance", next.Balance, "version", next.VersionID)
	c.record(logging.ReformEntry{
		ActorID:     req.ActorID,
		VersionID:   next.VersionID,
		Action:      logging.ActionApprove,
		Total:       result.Total,
		Balance:     next.Balance,
		Explanation: result.Explanation(),
		Reason:      decision.Reason,
	})
	return out, nil
}

// #endregion attempt

// #region credit
// Credit adds points to the actor's ledger and commits the new balance. Once
// the commit succeeds the notifier fires if the credit opened the reform
// window, unless the credit is quiet.
func (c *Controller) Credit(req CreditRequest) (CreditOutcome, error) {
	if req.ActorID == "" {
		return CreditOutcome{}, ErrMissingActor
	}
	defer c.lock(req.ActorID)()

	rec, err := c.store.EnsureLedger(req.ActorID)
	if err != nil {
		return CreditOutcome{}, err
	}
	l := rec.Ledger()
	if req.Quiet {
		l.SuppressThresholdOnce()
	}

	res := l.Credit(req.Points, c.weights.Load(), req.Modifiers)
	next, err := c.store.CommitLedger(rec.VersionID, *l, "credit")
	if err != nil {
		return CreditOutcome{}, fmt.Errorf("commit credit: %w", err)
	}
	if res.Crossed && c.notifier != nil {
		c.notifier.ThresholdReached(req.ActorID, res.Balance, res.Threshold)
	}

	c.metrics.RecordCredit(res.Awarded, res.Crossed)
	c.logger.Debug("points credited",
		"actor", req.ActorID, "awarded", res.Awarded, "balance", res.Balance, "crossed", res.Crossed)
	c.record(logging.ReformEntry{
		ActorID:   req.ActorID,
		VersionID: next.VersionID,
		Action:    logging.ActionCredit,
		Total:     res.Awarded,
		Balance:   res.Balance,
	})
	return CreditOutcome{CreditResult: res, VersionID: next.VersionID}, nil
}

// #endregion credit

// #region ledger
// Ledger returns the actor's ledger and current threshold. Unknown actors
// read as an empty ledger; nothing is written.
func (c *Controller) Ledger(actorID string, mods weights.Modifiers) (LedgerView, error) {
	if actorID == "" {
		return LedgerView{}, ErrMissingActor
	}
	defer c.lock(actorID)()
	return c.view(actorID, mods)
}

func (c *Controller) view(actorID string, mods weights.Modifiers) (LedgerView, error) {
	var versionID string
	l := ledger.New(actorID)
	rec, err := c.store.GetLedger(actorID)
	switch {
	case err == nil:
		l = rec.Ledger()
		versionID = rec.VersionID
	case !errors.Is(err, store.ErrLedgerNotFound):
		return LedgerView{}, err
	}

	threshold := l.Threshold(c.weights.Load(), mods)
	return LedgerView{
		ActorID:     actorID,
		Balance:     l.Balance,
		ReformCount: l.ReformCount,
		Threshold:   threshold,
		CanReform:   l.Balance >= threshold,
		VersionID:   versionID,
	}, nil
}

// Versions lists the actor's ledger history, newest first.
func (c *Controller) Versions(actorID string, limit int) ([]store.LedgerRecord, error) {
	return c.store.ListVersions(actorID, limit)
}

// Decisions lists the actor's reform log, newest first.
func (c *Controller) Decisions(actorID string, limit int) ([]logging.ReformEntry, error) {
	return logging.RecentDecisions(c.store.DB(), actorID, limit)
}

// Rollback restores an earlier ledger version of the actor.
func (c *Controller) Rollback(actorID, versionID string) error {
	if actorID == "" {
		return ErrMissingActor
	}
	defer c.lock(actorID)()

	if err := c.store.Rollback(actorID, versionID); err != nil {
		return err
	}
	rec, err := c.store.GetLedger(actorID)
	if err != nil {
		return err
	}
	c.logger.Info("ledger rolled back", "actor", actorID, "version", versionID)
	c.record(logging.ReformEntry{
		ActorID:   actorID,
		VersionID: versionID,
		Action:    logging.ActionRollback,
		Balance:   rec.Balance,
	})
	return nil
}

// #endregion ledger

// #region weights
// UpdateWeights clamps cfg, saves it, and makes it live for the next call.
// The clamp warnings are returned and logged.
func (c *Controller) UpdateWeights(cfg weights.Config) ([]string, error) {
	cfg, warnings := cfg.Clamp()
	for _, w := range warnings {
		c.logger.Warn("weights clamped", "detail", w)
	}
	if err := c.store.SaveWeights(cfg); err != nil {
		return warnings, err
	}
	c.weights.Store(cfg)
	return warnings, nil
}

// #endregion weights

// #region helpers
// record writes a decision log entry. A failed log write does not undo a
// committed ledger version; it is logged and dropped.
func (c *Controller) record(entry logging.ReformEntry) {
	if err := logging.LogDecision(c.store.DB(), entry); err != nil {
		c.logger.Error("reform log write failed", "actor", entry.ActorID, "action", entry.Action, "err", err)
	}
}

// #endregion helpers

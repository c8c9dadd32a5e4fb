package replay

import (
	"github.com/danielpatrickdp/reform-points/go-controller/internal/audit"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// Event kinds.
const (
	KindCredit  = "credit"
	KindAttempt = "attempt"
)

// Result actions.
const (
	ActionCredit      = "credit"
	ActionApprove     = gate.ActionApprove
	ActionReject      = gate.ActionReject
	ActionAuditFailed = "audit_failed"
	ActionInvalid     = "invalid"
)

// #region types
// Event is one recorded ledger operation.
type Event struct {
	ID        string
	Kind      string // "credit" | "attempt"
	Points    int
	Quiet     bool
	Before    snapshot.Snapshot
	After     snapshot.Snapshot
	Modifiers weights.Modifiers
}

// ReplayConfig bundles the weights and gate rules for a replay run.
type ReplayConfig struct {
	Weights weights.Config
	Gate    gate.GateConfig
}

// DefaultReplayConfig returns the default weights and gate rules.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Weights: weights.Default(),
		Gate:    gate.DefaultGateConfig(),
	}
}

// ReplayResult captures the outcome of replaying one event.
type ReplayResult struct {
	ID     string
	Action string
	Reason string

	Total       int // awarded points on credit, scored total on attempt
	Lines       []scoring.Line
	Crossed     bool
	Balance     int // after the event
	ReformCount int

	// Gate stage (nil for credits and invalid snapshots)
	GateDecision *gate.GateDecision

	// Audit stage (nil unless the gate approved)
	AuditResult *audit.AuditResult
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalEvents    int
	Credits        int
	Approved       int
	Rejected       int
	AuditFailures  int
	Invalid        int
	Crossings      int
	PointsCredited int
	PointsConsumed int
	StartBalance   int
	FinalBalance   int
	Conserved      bool // start + credited - consumed == final
}

// #endregion types

// #region replay
// Replay applies events to a copy of start in order: credits grow the
// ledger; attempts run score, gate, consume and audit. It never touches
// storage.
func Replay(start ledger.Ledger, events []Event, config ReplayConfig) []ReplayResult {
	l := ledger.Restore(start.ActorID, start.Balance, start.ReformCount)
	results := make([]ReplayResult, 0, len(events))
	gateInst := gate.NewGate(config.Gate)

	for _, ev := range events {
		switch ev.Kind {
		case KindCredit:
			if ev.Quiet {
				l.SuppressThresholdOnce()
			}
			res := l.Credit(ev.Points, config.Weights, ev.Modifiers)
			results = append(results, ReplayResult{
				ID:          ev.ID,
				Action:      ActionCredit,
				Total:       res.Awarded,
				Crossed:     res.Crossed,
				Balance:     l.Balance,
				ReformCount: l.ReformCount,
			})

		case KindAttempt:
			results = append(results, attempt(l, ev, config.Weights, gateInst))

		default:
			results = append(results, ReplayResult{
				ID:          ev.ID,
				Action:      ActionInvalid,
				Reason:      "unknown event kind " + ev.Kind,
				Balance:     l.Balance,
				ReformCount: l.ReformCount,
			})
		}
	}
	return results
}

func attempt(l *ledger.Ledger, ev Event, w weights.Config, g *gate.Gate) ReplayResult {
	out := ReplayResult{ID: ev.ID, Balance: l.Balance, ReformCount: l.ReformCount}

	// 1. Score
	result, err := scoring.Score(ev.Before, ev.After, w, l.ReformCount, ev.Modifiers)
	if err != nil {
		out.Action = ActionInvalid
		out.Reason = err.Error()
		return out
	}
	out.Total = result.Total
	out.Lines = result.Lines

	// 2. Gate
	decision := g.Evaluate(result, l.Balance, l.Threshold(w, ev.Modifiers))
	out.GateDecision = &decision
	out.Reason = decision.Reason
	if !decision.Approved() {
		out.Action = ActionReject
		return out
	}

	// 3. Consume and audit; a failed audit restores the ledger
	before := *l
	l.Consume(decision.Required)
	check := audit.Check(before, *l, result.Total)
	out.AuditResult = &check
	if !check.Passed {
		*l = before
		out.Action = ActionAuditFailed
		out.Reason = check.Reason
		return out
	}

	out.Action = ActionApprove
	out.Balance = l.Balance
	out.ReformCount = l.ReformCount
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(start ledger.Ledger, results []ReplayResult) ReplaySummary {
	s := ReplaySummary{
		TotalEvents:  len(results),
		StartBalance: start.Balance,
		FinalBalance: start.Balance,
	}
	for _, r := range results {
		switch r.Action {
		case ActionCredit:
			s.Credits++
			s.PointsCredited += r.Total
			if r.Crossed {
				s.Crossings++
			}
		case ActionApprove:
			s.Approved++
			s.PointsConsumed += r.Total
		case ActionReject:
			s.Rejected++
		case ActionAuditFailed:
			s.AuditFailures++
		case ActionInvalid:
			s.Invalid++
		}
		s.FinalBalance = r.Balance
	}
	s.Conserved = s.StartBalance+s.PointsCredited-s.PointsConsumed == s.FinalBalance
	return s
}

// #endregion replay

package rpc

import (
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/reform"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region requests
// LedgerRequest is the GetLedger body.
type LedgerRequest struct {
	ActorID   string            `json:"actor_id"`
	Modifiers weights.Modifiers `json:"modifiers"`
}

// #endregion requests

// #region replies
// ScoreReply is the Score body.
type ScoreReply struct {
	Total       int            `json:"total"`
	Base        int            `json:"base"`
	Lines       []scoring.Line `json:"lines"`
	Explanation string         `json:"explanation"`
	Balance     int            `json:"balance"`
	ReformCount int            `json:"reform_count"`
	Threshold   int            `json:"threshold"`
}

// AttemptReply is the Attempt body.
type AttemptReply struct {
	Action      string            `json:"action"`
	Reason      string            `json:"reason"`
	Vetoes      []gate.VetoSignal `json:"vetoes,omitempty"`
	Total       int               `json:"total"`
	Lines       []scoring.Line    `json:"lines"`
	Explanation string            `json:"explanation"`
	Balance     int               `json:"balance"`
	ReformCount int               `json:"reform_count"`
	VersionID   string            `json:"version_id"`
}

// CreditReply is the Credit body. Threshold is zero and Suppressed set when
// the credit was quiet.
type CreditReply struct {
	Awarded    int    `json:"awarded"`
	Balance    int    `json:"balance"`
	Threshold  int    `json:"threshold"`
	Suppressed bool   `json:"suppressed"`
	Crossed    bool   `json:"crossed"`
	VersionID  string `json:"version_id"`
}

// #endregion replies

// #region converters
// NewScoreReply flattens a preview for the wire.
func NewScoreReply(p reform.Preview) ScoreReply {
	return ScoreReply{
		Total:       p.Result.Total,
		Base:        p.Result.Base,
		Lines:       p.Result.Lines,
		Explanation: p.Result.Explanation(),
		Balance:     p.Balance,
		ReformCount: p.ReformCount,
		Threshold:   p.Threshold,
	}
}

// NewAttemptReply flattens an attempt for the wire.
func NewAttemptReply(a reform.AttemptResult) AttemptReply {
	return AttemptReply{
		Action:      a.Decision.Action,
		Reason:      a.Decision.Reason,
		Vetoes:      a.Decision.VetoSignals,
		Total:       a.Result.Total,
		Lines:       a.Result.Lines,
		Explanation: a.Result.Explanation(),
		Balance:     a.Balance,
		ReformCount: a.ReformCount,
		VersionID:   a.VersionID,
	}
}

// NewCreditReply flattens a credit for the wire.
func NewCreditReply(c reform.CreditOutcome) CreditReply {
	reply := CreditReply{
		Awarded:   c.Awarded,
		Balance:   c.Balance,
		Threshold: c.Threshold,
		Crossed:   c.Crossed,
		VersionID: c.VersionID,
	}
	// Struct numbers are float64; the sentinel does not survive the trip.
	if c.Threshold == ledger.Unreachable {
		reply.Threshold = 0
		reply.Suppressed = true
	}
	return reply
}

// #endregion converters

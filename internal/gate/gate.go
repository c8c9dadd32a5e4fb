package gate

import (
	"fmt"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/scoring"
)

// #region gate
// Gate decides whether a scored reform may consume points.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate compares the scored total against the balance and, when configured,
// the balance against the threshold. The caller reads the threshold once and
// passes it in so the gate never consumes a ledger override on its own.
func (g *Gate) Evaluate(result scoring.Result, balance, threshold int) GateDecision {
	var vetoes []VetoSignal

	// 1. Reform window not open yet
	if g.config.RequireThreshold && balance < threshold {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoBelowThreshold,
			Reason: fmt.Sprintf("balance %d below reform threshold %d", balance, threshold),
		})
	}

	// 2. Not enough points for this particular change
	if balance < result.Total {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoInsufficientPoints,
			Reason: fmt.Sprintf("can't reform: %d development points needed, %d available", result.Total, balance),
		})
	}

	if len(vetoes) > 0 {
		return GateDecision{
			Action:      ActionReject,
			Reason:      fmt.Sprintf("hard veto: %s", vetoes[len(vetoes)-1].Reason),
			Vetoed:      true,
			VetoSignals: vetoes,
			Required:    result.Total,
			Available:   balance,
			Threshold:   threshold,
		}
	}

	return GateDecision{
		Action:    ActionApprove,
		Reason:    fmt.Sprintf("approved: %d of %d development points", result.Total, balance),
		Required:  result.Total,
		Available: balance,
		Threshold: threshold,
	}
}

// #endregion gate

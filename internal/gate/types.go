package gate

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoInsufficientPoints VetoType = "insufficient_points"
	VetoBelowThreshold     VetoType = "below_threshold"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType `json:"type"`
	Reason string   `json:"reason"`
}

// #endregion veto-signal

// #region gate-config
// GateConfig holds the approval rules.
type GateConfig struct {
	RequireThreshold bool // reforms are only open once the balance reached the threshold
}

// DefaultGateConfig returns the defaults: the reform window opens at the threshold.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		RequireThreshold: true,
	}
}

// #endregion gate-config

// #region gate-decision
// Decision actions.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action      string       `json:"action"` // "approve" | "reject"
	Reason      string       `json:"reason"`
	Vetoed      bool         `json:"vetoed"`
	VetoSignals []VetoSignal `json:"veto_signals,omitempty"`
	Required    int          `json:"required"`  // approved total that consume must receive
	Available   int          `json:"available"` // balance at decision time
	Threshold   int          `json:"threshold"`
}

// Approved reports whether the reform may proceed.
func (d GateDecision) Approved() bool {
	return d.Action == ActionApprove
}

// #endregion gate-decision

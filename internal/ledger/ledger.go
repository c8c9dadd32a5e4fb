package ledger

import (
	"math"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// Unreachable is the threshold reported while the one-shot override is armed.
const Unreachable = math.MaxInt

// #region types
// Notifier is told when a credit lifts the balance to the threshold.
type Notifier interface {
	ThresholdReached(actorID string, balance, threshold int)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(actorID string, balance, threshold int)

// ThresholdReached calls f.
func (f NotifierFunc) ThresholdReached(actorID string, balance, threshold int) {
	f(actorID, balance, threshold)
}

// Ledger is one actor's running balance and count of completed reforms.
// It is not safe for concurrent use; callers serialize per actor.
type Ledger struct {
	ActorID     string `json:"actor_id"`
	Balance     int    `json:"balance"`
	ReformCount int    `json:"reform_count"`

	override OneShot
	notifier Notifier
}

// CreditResult reports what a credit did.
type CreditResult struct {
	Awarded   int  `json:"awarded"` // points after the multiplier
	Balance   int  `json:"balance"`
	Threshold int  `json:"threshold"`
	Crossed   bool `json:"crossed"` // below threshold before, at or above after
}

// #endregion types

// #region constructor
// New creates an empty ledger for actorID.
func New(actorID string) *Ledger {
	return &Ledger{ActorID: actorID}
}

// Restore rebuilds a ledger from its two durable fields.
func Restore(actorID string, balance, reformCount int) *Ledger {
	return &Ledger{ActorID: actorID, Balance: balance, ReformCount: reformCount}
}

// SetNotifier installs the threshold notifier. nil disables notification.
func (l *Ledger) SetNotifier(n Notifier) {
	l.notifier = n
}

// #endregion constructor

// #region credit
// Credit adds points scaled by the multiplier, rounded half up. The threshold
// is read once, before the balance moves.
func (l *Ledger) Credit(points int, w weights.Config, mods weights.Modifiers) CreditResult {
	threshold := l.Threshold(w, mods)
	before := l.Balance

	awarded := weights.RoundHalfUp(float64(points) * w.Multiplier)
	l.Balance = weights.SaturatingAdd(l.Balance, awarded)

	crossed := before < threshold && l.Balance >= threshold
	if crossed && l.notifier != nil {
		l.notifier.ThresholdReached(l.ActorID, l.Balance, threshold)
	}

	return CreditResult{
		Awarded:   awarded,
		Balance:   l.Balance,
		Threshold: threshold,
		Crossed:   crossed,
	}
}

// #endregion credit

// #region consume
// Consume removes exactly the approved reform cost and counts the reform.
// amount must be the approved Score total, never the ledger's own balance.
// The balance may go negative; approval is the caller's job.
func (l *Ledger) Consume(amount int) {
	l.Balance -= amount
	l.ReformCount++
}

// #endregion consume

// #region threshold
// Threshold is the balance required for the next reform. It has no side
// effects except consuming an armed override, in which case it returns
// Unreachable exactly once.
func (l *Ledger) Threshold(w weights.Config, mods weights.Modifiers) int {
	if l.override.Take() {
		return Unreachable
	}
	return w.ReformCost(l.ReformCount, mods)
}

// SuppressThresholdOnce makes the next threshold read report Unreachable.
// Used when an unrelated award path credits points inside its own evaluation
// and must not raise the threshold notification.
func (l *Ledger) SuppressThresholdOnce() {
	l.override.Arm()
}

// ThresholdSuppressed reports whether the override is armed.
func (l *Ledger) ThresholdSuppressed() bool {
	return l.override.Armed()
}

// CanReform reports whether the balance has reached the threshold.
func (l *Ledger) CanReform(w weights.Config, mods weights.Modifiers) bool {
	return l.Balance >= l.Threshold(w, mods)
}

// #endregion threshold

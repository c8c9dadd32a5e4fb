package scoring

import (
	"fmt"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/diff"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// BaseLabel labels the first explanation line.
const BaseLabel = "Base"

// #region score
// Score prices the transition from current snapshot a to proposed snapshot b.
// It is pure: the explanation is returned, never logged. Gaining and losing a
// trait both cost points; removed selections refund their change cost.
func Score(a, b snapshot.Snapshot, w weights.Config, reformCount int, mods weights.Modifiers) (Result, error) {
	if err := a.Validate(); err != nil {
		return Result{}, fmt.Errorf("current snapshot: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Result{}, fmt.Errorf("proposed snapshot: %w", err)
	}

	d := diff.Compute(a, b)
	base := w.ReformCost(reformCount, mods)

	// 1. Base line is always present, even when zero.
	res := Result{
		Base:  base,
		Total: base,
		Lines: []Line{{Label: BaseLabel, Amount: base}},
		Diff:  d,
	}

	// 2. Traits: both directions cost the same positive amount.
	for _, t := range append(append([]snapshot.Trait(nil), d.AddedTraits...), d.RemovedTraits...) {
		res.add(t.Name, t.Impact*w.CostPerTraitImpact)
	}

	// Randomized selections are not under direct control, so they cost nothing.
	if w.RandomizeSelectionsMode {
		return res, nil
	}

	// 3. Domains: at least the base weight for every touched domain.
	for _, dom := range d.ChangedDomains {
		shift := max(diff.SelectionShift(a, b, dom), 1)
		res.add(dom.Name, shift*dom.DevCost*w.CostPerDomainShift)
	}

	// 4. Selections: additions cost, removals refund.
	for _, sel := range d.AddedSelections {
		res.add(fmt.Sprintf("%s: %s added", sel.Domain.Name, sel.Name), sel.DevCost*w.CostPerSelectionChange)
	}
	for _, sel := range d.RemovedSelections {
		res.add(fmt.Sprintf("%s: %s removed", sel.Domain.Name, sel.Name), -sel.DevCost*w.CostPerSelectionChange)
	}

	return res, nil
}

// #endregion score

// #region helpers
// add appends a non-zero contribution and folds it into the total.
func (r *Result) add(label string, amount int) {
	if amount == 0 {
		return
	}
	r.Lines = append(r.Lines, Line{Label: label, Amount: amount})
	r.Total += amount
}

// #endregion helpers

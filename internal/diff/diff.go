package diff

import "github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"

// #region types
// Swap is a changed choice for the same exclusive slot: one change, not an
// add plus a remove.
type Swap struct {
	Before snapshot.Selection `json:"before"`
	After  snapshot.Selection `json:"after"`
}

// Diff bundles every set computed between a current and a proposed snapshot.
type Diff struct {
	AddedTraits       []snapshot.Trait     `json:"added_traits"`
	RemovedTraits     []snapshot.Trait     `json:"removed_traits"`
	AddedSelections   []snapshot.Selection `json:"added_selections"`
	RemovedSelections []snapshot.Selection `json:"removed_selections"`
	Swapped           []Swap               `json:"swapped"`
	ChangedDomains    []snapshot.Domain    `json:"changed_domains"`
}

// Empty reports whether the two snapshots were equivalent.
func (d Diff) Empty() bool {
	return len(d.AddedTraits) == 0 && len(d.RemovedTraits) == 0 &&
		len(d.AddedSelections) == 0 && len(d.RemovedSelections) == 0 &&
		len(d.Swapped) == 0
}

// #endregion types

// #region compute
// Compute diffs current snapshot a against proposed snapshot b. Neither input
// is modified.
func Compute(a, b snapshot.Snapshot) Diff {
	return Diff{
		AddedTraits:       AddedTraits(a, b),
		RemovedTraits:     RemovedTraits(a, b),
		AddedSelections:   AddedSelections(a, b),
		RemovedSelections: RemovedSelections(a, b),
		Swapped:           SwappedSelections(a, b),
		ChangedDomains:    ChangedDomains(a, b),
	}
}

// #endregion compute

// #region traits
// AddedTraits returns the traits of b missing from a, in b's order.
func AddedTraits(a, b snapshot.Snapshot) []snapshot.Trait {
	var out []snapshot.Trait
	for _, t := range b.Traits {
		if !a.HasTrait(t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// RemovedTraits returns the traits of a missing from b, in a's order.
func RemovedTraits(a, b snapshot.Snapshot) []snapshot.Trait {
	return AddedTraits(b, a)
}

// #endregion traits

// #region selections
// equivalent reports whether x and y occupy the same slot: same identity, or
// both in the same exclusive domain.
func equivalent(x, y snapshot.Selection) bool {
	if x.Name == y.Name {
		return true
	}
	return x.Domain.Name == y.Domain.Name && x.Domain.Exclusive()
}

// AddedSelections returns the selections of b with no equivalent in a.
func AddedSelections(a, b snapshot.Snapshot) []snapshot.Selection {
	var out []snapshot.Selection
	for _, sel := range b.Selections {
		found := false
		for _, prev := range a.Selections {
			if equivalent(sel, prev) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, sel)
		}
	}
	return out
}

// RemovedSelections returns the selections of a with no equivalent in b.
func RemovedSelections(a, b snapshot.Snapshot) []snapshot.Selection {
	return AddedSelections(b, a)
}

// SwappedSelections returns, for each exclusive domain active in both
// snapshots under different selections, the before/after pair. Order follows b.
func SwappedSelections(a, b snapshot.Snapshot) []Swap {
	var out []Swap
	for _, after := range b.Selections {
		if !after.Domain.Exclusive() {
			continue
		}
		before, ok := first(a, after.Domain.Name)
		if ok && before.Name != after.Name {
			out = append(out, Swap{Before: before, After: after})
		}
	}
	return out
}

// #endregion selections

// #region domains
// ChangedDomains returns the distinct domains touched by an added, removed or
// swapped selection, by first appearance.
func ChangedDomains(a, b snapshot.Snapshot) []snapshot.Domain {
	var touched []snapshot.Domain
	for _, sel := range AddedSelections(a, b) {
		touched = append(touched, sel.Domain)
	}
	for _, sel := range RemovedSelections(a, b) {
		touched = append(touched, sel.Domain)
	}
	for _, sw := range SwappedSelections(a, b) {
		touched = append(touched, sw.After.Domain)
	}

	seen := make(map[string]bool, len(touched))
	var out []snapshot.Domain
	for _, d := range touched {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d)
	}
	return out
}

// SelectionShift measures how far the stance of an exclusive domain moved,
// regardless of direction. Multi domains always report 0.
func SelectionShift(a, b snapshot.Snapshot, domain snapshot.Domain) int {
	if !domain.Exclusive() {
		return 0
	}
	before, hasBefore := first(a, domain.Name)
	after, hasAfter := first(b, domain.Name)
	switch {
	case !hasBefore && !hasAfter:
		return 0
	case !hasBefore:
		return abs(after.Rank)
	case !hasAfter:
		return abs(before.Rank)
	default:
		return abs(before.Rank - after.Rank)
	}
}

// #endregion domains

// #region helpers
func first(s snapshot.Snapshot, domain string) (snapshot.Selection, bool) {
	for _, sel := range s.Selections {
		if sel.Domain.Name == domain {
			return sel, true
		}
	}
	return snapshot.Selection{}, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// #endregion helpers

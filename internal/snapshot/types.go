package snapshot

// #region trait
// Trait is an atomic belief toggle. Identity is the Name.
type Trait struct {
	Name   string `json:"name" yaml:"name"`
	Impact int    `json:"impact" yaml:"impact"`
}

// #endregion trait

// #region domain
// Domain groups Selections on one topic. An exclusive domain (AllowsMultiple
// false) holds at most one active Selection. Identity is the Name.
type Domain struct {
	Name           string `json:"name" yaml:"name"`
	AllowsMultiple bool   `json:"allows_multiple" yaml:"allows_multiple"`
	DevCost        int    `json:"dev_cost" yaml:"dev_cost"` // cost per unit of shift
}

// Exclusive reports whether the domain holds at most one Selection.
func (d Domain) Exclusive() bool {
	return !d.AllowsMultiple
}

// #endregion domain

// #region selection
// Selection is a chosen stance within a Domain. Rank orders the stances of an
// exclusive domain along a spectrum. Identity is the Name.
type Selection struct {
	Name    string `json:"name" yaml:"name"`
	Domain  Domain `json:"domain" yaml:"domain"`
	Rank    int    `json:"rank" yaml:"rank"`
	DevCost int    `json:"dev_cost" yaml:"dev_cost"`
}

// #endregion selection

// #region snapshot
// Snapshot is one complete configuration state. Order is preserved and only
// affects the order of explanation lines.
type Snapshot struct {
	Traits     []Trait     `json:"traits" yaml:"traits"`
	Selections []Selection `json:"selections" yaml:"selections"`
}

// HasTrait reports whether a trait with the same name is active.
func (s Snapshot) HasTrait(name string) bool {
	for _, t := range s.Traits {
		if t.Name == name {
			return true
		}
	}
	return false
}

// HasSelection reports whether a selection with the same name is active.
func (s Snapshot) HasSelection(name string) bool {
	for _, sel := range s.Selections {
		if sel.Name == name {
			return true
		}
	}
	return false
}

// SelectionsIn returns the active selections of the named domain, in order.
func (s Snapshot) SelectionsIn(domain string) []Selection {
	var out []Selection
	for _, sel := range s.Selections {
		if sel.Domain.Name == domain {
			out = append(out, sel)
		}
	}
	return out
}

// #endregion snapshot

package snapshot

import (
	"fmt"
	"strings"
)

// #region violation
// ViolationKind enumerates snapshot invariant breaches.
type ViolationKind string

const (
	ViolationDuplicateTrait     ViolationKind = "duplicate_trait"
	ViolationDuplicateSelection ViolationKind = "duplicate_selection"
	ViolationExclusiveDomain    ViolationKind = "exclusive_domain"
	ViolationNegativeWeight     ViolationKind = "negative_weight"
)

// ConfigurationInvariantViolation reports a malformed snapshot. It signals a
// programming error in the host, not a recoverable condition.
type ConfigurationInvariantViolation struct {
	Kind   ViolationKind
	Domain string
	Names  []string
}

func (e *ConfigurationInvariantViolation) Error() string {
	switch e.Kind {
	case ViolationExclusiveDomain:
		return fmt.Sprintf("exclusive domain %q has %d active selections: %s",
			e.Domain, len(e.Names), strings.Join(e.Names, ", "))
	case ViolationNegativeWeight:
		return fmt.Sprintf("negative impact or dev cost on %s", strings.Join(e.Names, ", "))
	default:
		return fmt.Sprintf("%s: %s", e.Kind, strings.Join(e.Names, ", "))
	}
}

// #endregion violation

// #region validate
// Validate checks the snapshot invariants and returns the first violation.
func (s Snapshot) Validate() error {
	seenTraits := make(map[string]bool, len(s.Traits))
	for _, t := range s.Traits {
		if seenTraits[t.Name] {
			return &ConfigurationInvariantViolation{Kind: ViolationDuplicateTrait, Names: []string{t.Name}}
		}
		seenTraits[t.Name] = true
		if t.Impact < 0 {
			return &ConfigurationInvariantViolation{Kind: ViolationNegativeWeight, Names: []string{t.Name}}
		}
	}

	seenSelections := make(map[string]bool, len(s.Selections))
	exclusive := make(map[string][]string)
	var order []string
	for _, sel := range s.Selections {
		if seenSelections[sel.Name] {
			return &ConfigurationInvariantViolation{
				Kind:   ViolationDuplicateSelection,
				Domain: sel.Domain.Name,
				Names:  []string{sel.Name},
			}
		}
		seenSelections[sel.Name] = true
		if sel.DevCost < 0 || sel.Domain.DevCost < 0 {
			return &ConfigurationInvariantViolation{
				Kind:   ViolationNegativeWeight,
				Domain: sel.Domain.Name,
				Names:  []string{sel.Name},
			}
		}
		if sel.Domain.Exclusive() {
			if _, ok := exclusive[sel.Domain.Name]; !ok {
				order = append(order, sel.Domain.Name)
			}
			exclusive[sel.Domain.Name] = append(exclusive[sel.Domain.Name], sel.Name)
		}
	}

	for _, domain := range order {
		if names := exclusive[domain]; len(names) > 1 {
			return &ConfigurationInvariantViolation{
				Kind:   ViolationExclusiveDomain,
				Domain: domain,
				Names:  names,
			}
		}
	}
	return nil
}

// #endregion validate

package scoring

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region fixtures
var (
	stance = snapshot.Domain{Name: "stance", DevCost: 3}
	rites  = snapshot.Domain{Name: "rites", AllowsMultiple: true, DevCost: 1}
	free   = snapshot.Domain{Name: "free", AllowsMultiple: true, DevCost: 0}

	low   = snapshot.Selection{Name: "low", Domain: stance, Rank: 1, DevCost: 1}
	high  = snapshot.Selection{Name: "high", Domain: stance, Rank: 5, DevCost: 4}
	feast = snapshot.Selection{Name: "feast", Domain: rites, DevCost: 2}
	fast  = snapshot.Selection{Name: "fast", Domain: rites, DevCost: 1}
	chant = snapshot.Selection{Name: "chant", Domain: free, DevCost: 0}

	traitX = snapshot.Trait{Name: "x", Impact: 2}
	traitY = snapshot.Trait{Name: "y", Impact: 3}
	inert  = snapshot.Trait{Name: "inert", Impact: 0}
)

func mustScore(t *testing.T, a, b snapshot.Snapshot, w weights.Config, reforms int) Result {
	t.Helper()
	res, err := Score(a, b, w, reforms, weights.Modifiers{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	return res
}

// #endregion fixtures

// #region identity
func TestIdentityCostsBaseOnly(t *testing.T) {
	snaps := []snapshot.Snapshot{
		{},
		{Traits: []snapshot.Trait{traitX}},
		{Traits: []snapshot.Trait{traitX, traitY}, Selections: []snapshot.Selection{low, feast, fast}},
	}
	for reforms := 0; reforms < 8; reforms++ {
		w := weights.Default()
		for _, s := range snaps {
			res := mustScore(t, s, s, w, reforms)
			base := w.ReformCost(reforms, weights.Modifiers{})
			if res.Total != base {
				t.Fatalf("reforms=%d: expected total %d, got %d", reforms, base, res.Total)
			}
			if want := []Line{{Label: "Base", Amount: base}}; !cmp.Equal(want, res.Lines) {
				t.Fatalf("expected only the base line, got %v", res.Lines)
			}
		}
	}
}

func TestBaseLineKeptWhenZero(t *testing.T) {
	w := weights.Default()
	w.ReformCostStart, w.ReformCostIncrement, w.ReformCostCap = 0, 0, 0
	res := mustScore(t, snapshot.Snapshot{}, snapshot.Snapshot{}, w, 3)
	if len(res.Lines) != 1 || res.Lines[0].String() != "Base: 0" {
		t.Fatalf("expected a single zero base line, got %v", res.Lines)
	}
}

// #endregion identity

// #region scenarios
// Removing trait x costs the same as adding it.
func TestScenarioTraitRemovalCosts(t *testing.T) {
	a := snapshot.Snapshot{Traits: []snapshot.Trait{traitX}}
	b := snapshot.Snapshot{}

	res := mustScore(t, a, b, weights.Default(), 0)
	if res.Total != 14 {
		t.Fatalf("expected 14, got %d", res.Total)
	}
	want := []string{"Base: 10", "x: 4"}
	if d := cmp.Diff(want, res.Strings()); d != "" {
		t.Fatalf("explanation mismatch:\n%s", d)
	}

	added := mustScore(t, b, a, weights.Default(), 0)
	if added.Total != res.Total {
		t.Fatalf("adding and removing should cost the same: %d vs %d", added.Total, res.Total)
	}
}

func TestScenarioExclusiveShift(t *testing.T) {
	a := snapshot.Snapshot{Selections: []snapshot.Selection{low}}
	b := snapshot.Snapshot{Selections: []snapshot.Selection{high}}
	w := weights.Default()
	w.CostPerDomainShift = 1

	res := mustScore(t, a, b, w, 0)
	// shift |1-5| = 4, 4 * devCost 3 * 1 = 12; a swap has no add/remove line.
	want := []Line{{"Base", 10}, {"stance", 12}}
	if d := cmp.Diff(want, res.Lines); d != "" {
		t.Fatalf("lines mismatch:\n%s", d)
	}
	if res.Total != 22 {
		t.Fatalf("expected 22, got %d", res.Total)
	}
}

func TestScenarioRandomizeMode(t *testing.T) {
	a := snapshot.Snapshot{Traits: []snapshot.Trait{traitX}, Selections: []snapshot.Selection{low, feast}}
	b := snapshot.Snapshot{Traits: []snapshot.Trait{traitY}, Selections: []snapshot.Selection{high, fast}}
	w := weights.Default()
	w.RandomizeSelectionsMode = true
	w.CostPerDomainShift = 100
	w.CostPerSelectionChange = 100

	res := mustScore(t, a, b, w, 0)
	// base 10 + y(3*2) + x(2*2)
	want := []string{"Base: 10", "y: 6", "x: 4"}
	if d := cmp.Diff(want, res.Strings()); d != "" {
		t.Fatalf("explanation mismatch:\n%s", d)
	}
	if res.Total != 20 {
		t.Fatalf("expected 20, got %d", res.Total)
	}
}

// #endregion scenarios

// #region terms
func TestMultiDomainGainCostsAtLeastBaseWeight(t *testing.T) {
	a := snapshot.Snapshot{}
	b := snapshot.Snapshot{Selections: []snapshot.Selection{feast}}

	res := mustScore(t, a, b, weights.Default(), 0)
	want := []Line{{"Base", 10}, {"rites", 1}, {"rites: feast added", 4}}
	if d := cmp.Diff(want, res.Lines); d != "" {
		t.Fatalf("lines mismatch:\n%s", d)
	}
	if res.Total != 15 {
		t.Fatalf("expected 15, got %d", res.Total)
	}
}

func TestEnteringExclusiveDomainUsesRankMagnitude(t *testing.T) {
	a := snapshot.Snapshot{}
	b := snapshot.Snapshot{Selections: []snapshot.Selection{high}}

	res := mustScore(t, a, b, weights.Default(), 0)
	// stance: 5 * 3 * 1 = 15; high added: 4 * 2 = 8
	want := []Line{{"Base", 10}, {"stance", 15}, {"stance: high added", 8}}
	if d := cmp.Diff(want, res.Lines); d != "" {
		t.Fatalf("lines mismatch:\n%s", d)
	}
}

func TestZeroContributionsSkipped(t *testing.T) {
	a := snapshot.Snapshot{}
	b := snapshot.Snapshot{Traits: []snapshot.Trait{inert}, Selections: []snapshot.Selection{chant}}

	res := mustScore(t, a, b, weights.Default(), 0)
	if len(res.Lines) != 1 {
		t.Fatalf("zero amounts should not emit lines, got %v", res.Lines)
	}
	if len(res.Diff.AddedTraits) != 1 || len(res.Diff.AddedSelections) != 1 {
		t.Fatalf("diff should still record the changes: %+v", res.Diff)
	}
}

func TestRemovalsCanDriveTotalNegative(t *testing.T) {
	w := weights.Default()
	w.ReformCostStart, w.ReformCostIncrement, w.ReformCostCap = 0, 0, 0
	w.CostPerDomainShift = 0

	a := snapshot.Snapshot{Selections: []snapshot.Selection{feast, fast}}
	b := snapshot.Snapshot{}

	res := mustScore(t, a, b, w, 0)
	want := []Line{{"Base", 0}, {"rites: feast removed", -4}, {"rites: fast removed", -2}}
	if d := cmp.Diff(want, res.Lines); d != "" {
		t.Fatalf("lines mismatch:\n%s", d)
	}
	if res.Total != -6 {
		t.Fatalf("expected -6 with no floor, got %d", res.Total)
	}
}

func TestRemovalsBelowBase(t *testing.T) {
	a := snapshot.Snapshot{Selections: []snapshot.Selection{feast, fast}}
	b := snapshot.Snapshot{}
	w := weights.Default()
	w.CostPerSelectionChange = 5

	res := mustScore(t, a, b, w, 0)
	// 10 + rites 1 - 10 - 5
	if res.Total != -4 {
		t.Fatalf("expected -4, got %d", res.Total)
	}
	if res.Total >= res.Base {
		t.Fatal("net removals should be able to undercut the base cost")
	}
}

func TestBaseCostFollowsReformCount(t *testing.T) {
	a := snapshot.Snapshot{Traits: []snapshot.Trait{traitX}}
	b := snapshot.Snapshot{}
	w := weights.Default()

	for reforms, wantBase := range []int{10, 12, 14, 16, 18, 20, 20} {
		res := mustScore(t, a, b, w, reforms)
		if res.Base != wantBase || res.Total != wantBase+4 {
			t.Fatalf("reforms=%d: base %d total %d", reforms, res.Base, res.Total)
		}
	}
}

func TestBaseCostModifiers(t *testing.T) {
	w := weights.Default()
	w.BelieverCostRate = 0.5
	res, err := Score(snapshot.Snapshot{}, snapshot.Snapshot{}, w, 0, weights.Modifiers{Believers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 12 {
		t.Fatalf("expected base 12 with believer term, got %d", res.Total)
	}
}

// #endregion terms

// #region determinism
func TestTotalIndependentOfOrder(t *testing.T) {
	a := snapshot.Snapshot{Traits: []snapshot.Trait{traitX, traitY}, Selections: []snapshot.Selection{low, feast}}
	b := snapshot.Snapshot{Selections: []snapshot.Selection{fast, high}}
	aRev := snapshot.Snapshot{Traits: []snapshot.Trait{traitY, traitX}, Selections: []snapshot.Selection{feast, low}}
	bRev := snapshot.Snapshot{Selections: []snapshot.Selection{high, fast}}

	w := weights.Default()
	r1 := mustScore(t, a, b, w, 1)
	r2 := mustScore(t, aRev, bRev, w, 1)
	if r1.Total != r2.Total {
		t.Fatalf("total depends on order: %d vs %d", r1.Total, r2.Total)
	}
	r3 := mustScore(t, a, b, w, 1)
	if d := cmp.Diff(r1, r3); d != "" {
		t.Fatalf("repeat score differs:\n%s", d)
	}
}

func TestDebugModeDoesNotChangeTotals(t *testing.T) {
	a := snapshot.Snapshot{Traits: []snapshot.Trait{traitX}, Selections: []snapshot.Selection{low}}
	b := snapshot.Snapshot{Selections: []snapshot.Selection{high, feast}}
	w := weights.Default()
	off := mustScore(t, a, b, w, 2)
	w.DebugMode = true
	on := mustScore(t, a, b, w, 2)
	if d := cmp.Diff(off, on); d != "" {
		t.Fatalf("debug mode changed the result:\n%s", d)
	}
}

func TestExplanationFormat(t *testing.T) {
	res := Result{Lines: []Line{{"Base", 10}, {"rites: fast removed", -2}}}
	if got := res.Explanation(); got != "Base: 10\nrites: fast removed: -2" {
		t.Fatalf("unexpected explanation %q", got)
	}
}

// #endregion determinism

// #region errors
func TestMalformedSnapshotFailsFast(t *testing.T) {
	bad := snapshot.Snapshot{Selections: []snapshot.Selection{low, high}}

	for _, pair := range [][2]snapshot.Snapshot{{bad, {}}, {{}, bad}} {
		res, err := Score(pair[0], pair[1], weights.Default(), 0, weights.Modifiers{})
		var v *snapshot.ConfigurationInvariantViolation
		if !errors.As(err, &v) {
			t.Fatalf("expected invariant violation, got %v", err)
		}
		if v.Kind != snapshot.ViolationExclusiveDomain {
			t.Fatalf("unexpected kind %s", v.Kind)
		}
		if res.Total != 0 || res.Lines != nil {
			t.Fatalf("expected no partial result, got %+v", res)
		}
	}
}

// #endregion errors

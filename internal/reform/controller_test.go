package reform

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/logging"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/metrics"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/snapshot"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/store"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region helpers
type crossing struct {
	actor     string
	balance   int
	threshold int
}

type harness struct {
	ctrl      *Controller
	metrics   *metrics.Metrics
	mu        sync.Mutex
	crossings []crossing
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "reform.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := &harness{metrics: metrics.New(prometheus.NewRegistry())}
	if opts.Gate == (gate.GateConfig{}) {
		opts.Gate = gate.DefaultGateConfig()
	}
	opts.Metrics = h.metrics
	opts.Notifier = ledger.NotifierFunc(func(actor string, balance, threshold int) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.crossings = append(h.crossings, crossing{actor, balance, threshold})
	})
	h.ctrl = NewController(st, weights.NewLive(weights.Default()), opts)
	return h
}

func gainTrait() Request {
	return Request{
		ActorID: "player",
		After:   snapshot.Snapshot{Traits: []snapshot.Trait{{Name: "x", Impact: 2}}},
	}
}

func mustCredit(t *testing.T, c *Controller, actor string, points int) CreditOutcome {
	t.Helper()
	out, err := c.Credit(CreditRequest{ActorID: actor, Points: points})
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	return out
}

// #endregion helpers

// #region flow-tests
func TestCreditAttemptFlow(t *testing.T) {
	h := newHarness(t, Options{})
	c := h.ctrl

	// 5 points at multiplier 2 reach the first threshold of 10.
	first := mustCredit(t, c, "player", 5)
	if first.Awarded != 10 || first.Balance != 10 || !first.Crossed {
		t.Fatalf("unexpected first credit %+v", first)
	}
	if diff := cmp.Diff([]crossing{{"player", 10, 10}}, h.crossings, cmp.AllowUnexported(crossing{})); diff != "" {
		t.Fatalf("crossings mismatch (-want +got):\n%s", diff)
	}

	// Base 10 + trait 4 = 14, more than the balance.
	rejected, err := c.Attempt(gainTrait())
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if rejected.Decision.Approved() || rejected.Balance != 10 {
		t.Fatalf("expected rejection with untouched balance, got %+v", rejected)
	}
	if rejected.VersionID != first.VersionID {
		t.Fatalf("rejection must not create a version")
	}

	mustCredit(t, c, "player", 3)
	approved, err := c.Attempt(gainTrait())
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if !approved.Decision.Approved() {
		t.Fatalf("expected approval, got %s", approved.Decision.Reason)
	}
	if approved.Result.Total != 14 || approved.Balance != 2 || approved.ReformCount != 1 {
		t.Fatalf("expected 16-14=2 after one reform, got %+v", approved)
	}
	if approved.Audit == nil || !approved.Audit.Passed {
		t.Fatalf("expected passing audit, got %+v", approved.Audit)
	}

	view, err := c.Ledger("player", weights.Modifiers{})
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	if view.Balance != 2 || view.Threshold != 12 || view.CanReform || view.VersionID != approved.VersionID {
		t.Fatalf("unexpected ledger view %+v", view)
	}

	if val := testutil.ToFloat64(h.metrics.Attempts.WithLabelValues("approve")); val != 1 {
		t.Errorf("Attempts[approve] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(h.metrics.Attempts.WithLabelValues("reject")); val != 1 {
		t.Errorf("Attempts[reject] = %f, want 1", val)
	}
	if val := testutil.ToFloat64(h.metrics.PointsConsumed); val != 14 {
		t.Errorf("PointsConsumed = %f, want 14", val)
	}
}

func TestAttemptConsumesTotalNotBalance(t *testing.T) {
	h := newHarness(t, Options{})
	mustCredit(t, h.ctrl, "player", 20)

	out, err := h.ctrl.Attempt(gainTrait())
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if out.Balance != 40-14 {
		t.Fatalf("expected balance 26, got %d", out.Balance)
	}
}

func TestAttemptRejectsBelowThreshold(t *testing.T) {
	h := newHarness(t, Options{})
	mustCredit(t, h.ctrl, "player", 4)

	// An empty change costs the base alone; the window is still closed.
	req := Request{ActorID: "player"}
	out, err := h.ctrl.Attempt(req)
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if out.Decision.Approved() {
		t.Fatal("expected rejection below threshold")
	}
	if out.Decision.VetoSignals[0].Type != gate.VetoBelowThreshold {
		t.Fatalf("expected below threshold veto, got %+v", out.Decision.VetoSignals)
	}
}

func TestAttemptInvalidSnapshot(t *testing.T) {
	h := newHarness(t, Options{})
	dom := snapshot.Domain{Name: "stance", DevCost: 2}
	req := Request{
		ActorID: "player",
		After: snapshot.Snapshot{Selections: []snapshot.Selection{
			{Name: "a", Domain: dom}, {Name: "b", Domain: dom},
		}},
	}

	_, err := h.ctrl.Attempt(req)
	var violation *snapshot.ConfigurationInvariantViolation
	if !errors.As(err, &violation) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
	if _, err := h.ctrl.Preview(req); !errors.As(err, &violation) {
		t.Fatalf("Preview: expected invariant violation, got %v", err)
	}
}

func TestMissingActor(t *testing.T) {
	h := newHarness(t, Options{})
	if _, err := h.ctrl.Attempt(Request{}); !errors.Is(err, ErrMissingActor) {
		t.Errorf("Attempt: expected ErrMissingActor, got %v", err)
	}
	if _, err := h.ctrl.Credit(CreditRequest{Points: 1}); !errors.Is(err, ErrMissingActor) {
		t.Errorf("Credit: expected ErrMissingActor, got %v", err)
	}
	if _, err := h.ctrl.Ledger("", weights.Modifiers{}); !errors.Is(err, ErrMissingActor) {
		t.Errorf("Ledger: expected ErrMissingActor, got %v", err)
	}
}

// #endregion flow-tests

// #region credit-tests
func TestQuietCreditDoesNotNotify(t *testing.T) {
	h := newHarness(t, Options{})
	out, err := h.ctrl.Credit(CreditRequest{ActorID: "player", Points: 10, Quiet: true})
	if err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if out.Crossed || len(h.crossings) != 0 {
		t.Fatalf("quiet credit must not notify: %+v", out)
	}

	// The override is spent; the persisted ledger carries no token.
	view, _ := h.ctrl.Ledger("player", weights.Modifiers{})
	if view.Threshold != 10 || !view.CanReform {
		t.Fatalf("expected normal threshold afterwards, got %+v", view)
	}
}

func TestConcurrentCreditsSerializePerActor(t *testing.T) {
	h := newHarness(t, Options{})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.ctrl.Credit(CreditRequest{ActorID: "a", Points: 1})
		}()
		go func() {
			defer wg.Done()
			h.ctrl.Credit(CreditRequest{ActorID: "b", Points: 2})
		}()
	}
	wg.Wait()

	a, _ := h.ctrl.Ledger("a", weights.Modifiers{})
	b, _ := h.ctrl.Ledger("b", weights.Modifiers{})
	if a.Balance != 20 || b.Balance != 40 {
		t.Fatalf("lost updates: a=%d b=%d", a.Balance, b.Balance)
	}
}

func TestCreditNotifiesOnlyAfterCommit(t *testing.T) {
	h := newHarness(t, Options{})
	mustCredit(t, h.ctrl, "player", 1)

	_, err := h.ctrl.store.DB().Exec(`CREATE TRIGGER reject_credit BEFORE INSERT ON ledger_versions
		WHEN NEW.reason = 'credit' BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}
	if _, err := h.ctrl.Credit(CreditRequest{ActorID: "player", Points: 10}); err == nil {
		t.Fatal("expected the failed commit to surface")
	}
	if len(h.crossings) != 0 {
		t.Fatalf("uncommitted credit notified: %+v", h.crossings)
	}

	if _, err := h.ctrl.store.DB().Exec(`DROP TRIGGER reject_credit`); err != nil {
		t.Fatalf("drop trigger: %v", err)
	}
	mustCredit(t, h.ctrl, "player", 10)
	want := []crossing{{"player", 22, 10}}
	if diff := cmp.Diff(want, h.crossings, cmp.AllowUnexported(crossing{})); diff != "" {
		t.Fatalf("crossings mismatch (-want +got):\n%s", diff)
	}
}

// #endregion credit-tests

// #region ledger-tests
func TestLedgerUnknownActorIsEmpty(t *testing.T) {
	h := newHarness(t, Options{})
	view, err := h.ctrl.Ledger("ghost", weights.Modifiers{Believers: 10})
	if err != nil {
		t.Fatalf("Ledger: %v", err)
	}
	want := LedgerView{ActorID: "ghost", Threshold: 10}
	if diff := cmp.Diff(want, view); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
	if versions, _ := h.ctrl.Versions("ghost", 10); len(versions) != 0 {
		t.Fatalf("reading must not write, got %d versions", len(versions))
	}
}

func TestRollbackRestoresBalanceAndLogs(t *testing.T) {
	h := newHarness(t, Options{})
	credited := mustCredit(t, h.ctrl, "player", 20)
	if _, err := h.ctrl.Attempt(gainTrait()); err != nil {
		t.Fatalf("Attempt: %v", err)
	}

	if err := h.ctrl.Rollback("player", credited.VersionID); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	view, _ := h.ctrl.Ledger("player", weights.Modifiers{})
	if view.Balance != 40 || view.ReformCount != 0 {
		t.Fatalf("expected the credited ledger back, got %+v", view)
	}

	entries, err := h.ctrl.Decisions("player", 10)
	if err != nil {
		t.Fatalf("Decisions: %v", err)
	}
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	want := []string{logging.ActionRollback, logging.ActionApprove, logging.ActionCredit}
	if diff := cmp.Diff(want, actions); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(entries[1].Explanation, "x: 4") {
		t.Fatalf("approve entry should carry the explanation, got %q", entries[1].Explanation)
	}
}

// #endregion ledger-tests

// #region weights-tests
func TestUpdateWeightsHugeRateKeepsThresholdCapped(t *testing.T) {
	h := newHarness(t, Options{})
	cfg := weights.Default()
	cfg.BelieverCostRate = 1e20

	warnings, err := h.ctrl.UpdateWeights(cfg)
	if err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}

	mods := weights.Modifiers{Believers: 1}
	view, _ := h.ctrl.Ledger("player", mods)
	if view.Threshold != 20 || view.CanReform {
		t.Fatalf("expected the capped threshold 20 and a closed window, got %+v", view)
	}

	req := gainTrait()
	req.Modifiers = mods
	out, err := h.ctrl.Attempt(req)
	if err != nil {
		t.Fatalf("Attempt: %v", err)
	}
	if out.Decision.Approved() || out.Result.Total != 24 || out.Balance != 0 {
		t.Fatalf("expected a rejected 24-point reform on an empty ledger, got %+v", out)
	}
}

func TestUpdateWeightsClampsAndApplies(t *testing.T) {
	h := newHarness(t, Options{})
	cfg := weights.Default()
	cfg.ReformCostStart = 4
	cfg.ReformCostCap = 2
	cfg.Multiplier = 0

	warnings, err := h.ctrl.UpdateWeights(cfg)
	if err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	view, _ := h.ctrl.Ledger("player", weights.Modifiers{})
	if view.Threshold != 4 {
		t.Fatalf("expected the new start cost as threshold, got %d", view.Threshold)
	}
	if got := h.ctrl.Weights().Load().Multiplier; got != 1 {
		t.Fatalf("expected clamped multiplier 1, got %v", got)
	}
}

func TestDebugModeLogsExplanation(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t, Options{Logger: logging.NewLogger(&buf, true)})
	cfg := weights.Default()
	cfg.DebugMode = true
	if _, err := h.ctrl.UpdateWeights(cfg); err != nil {
		t.Fatalf("UpdateWeights: %v", err)
	}

	preview, err := h.ctrl.Preview(gainTrait())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Result.Total != 14 {
		t.Fatalf("debug mode must not change totals, got %d", preview.Result.Total)
	}
	if !strings.Contains(buf.String(), "total dev points required") {
		t.Fatalf("expected explanation in debug log:\n%s", buf.String())
	}
}

// #endregion weights-tests

package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/reform-points/go-controller/internal/catalog"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/gate"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/ledger"
	"github.com/danielpatrickdp/reform-points/go-controller/internal/weights"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture. Snapshots
// name catalog entries; the catalog is inline.
type Fixture struct {
	Description     string                  `json:"description"`
	Start           FixtureStart            `json:"start"`
	Config          FixtureConfig           `json:"config"`
	Catalog         json.RawMessage         `json:"catalog"`
	Events          []FixtureEvent          `json:"events"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureStart is the ledger the replay starts from.
type FixtureStart struct {
	ActorID     string `json:"actor_id"`
	Balance     int    `json:"balance"`
	ReformCount int    `json:"reform_count"`
}

// FixtureConfig carries optional weights and gate rules. Weight keys left
// out keep their defaults.
type FixtureConfig struct {
	Weights          json.RawMessage `json:"weights,omitempty"`
	RequireThreshold *bool           `json:"require_threshold,omitempty"`
}

// FixtureEvent is one recorded event with snapshots given by name.
type FixtureEvent struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Points    int               `json:"points,omitempty"`
	Quiet     bool              `json:"quiet,omitempty"`
	Before    catalog.Spec      `json:"before"`
	After     catalog.Spec      `json:"after"`
	Modifiers weights.Modifiers `json:"modifiers"`
}

// FixtureExpectedResult captures the expected action and balance per event.
type FixtureExpectedResult struct {
	ID      string `json:"id"`
	Action  string `json:"action"`
	Total   *int   `json:"total,omitempty"`
	Balance int    `json:"balance"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToLedger converts the start block to a ledger.
func (s FixtureStart) ToLedger() ledger.Ledger {
	actor := s.ActorID
	if actor == "" {
		actor = "replay"
	}
	return *ledger.Restore(actor, s.Balance, s.ReformCount)
}

// ToReplayConfig converts the config block. Supplied weights are clamped and
// the corrections returned as warnings.
func (fc FixtureConfig) ToReplayConfig() (ReplayConfig, []string, error) {
	config := DefaultReplayConfig()
	var warnings []string
	if len(fc.Weights) > 0 {
		w, warn, err := weights.Parse(fc.Weights)
		if err != nil {
			return ReplayConfig{}, nil, fmt.Errorf("fixture weights: %w", err)
		}
		config.Weights, warnings = w, warn
	}
	if fc.RequireThreshold != nil {
		config.Gate = gate.GateConfig{RequireThreshold: *fc.RequireThreshold}
	}
	return config, warnings, nil
}

// ToEvents resolves every event's snapshots through the fixture catalog.
func (f *Fixture) ToEvents() ([]Event, error) {
	cat, err := catalog.Parse(f.Catalog)
	if err != nil {
		return nil, err
	}
	events := make([]Event, len(f.Events))
	for i, fe := range f.Events {
		ev := Event{
			ID:        fe.ID,
			Kind:      fe.Kind,
			Points:    fe.Points,
			Quiet:     fe.Quiet,
			Modifiers: fe.Modifiers,
		}
		if fe.Kind == KindAttempt {
			if ev.Before, err = cat.Resolve(fe.Before); err != nil {
				return nil, fmt.Errorf("event %s before: %w", fe.ID, err)
			}
			if ev.After, err = cat.Resolve(fe.After); err != nil {
				return nil, fmt.Errorf("event %s after: %w", fe.ID, err)
			}
		}
		events[i] = ev
	}
	return events, nil
}

// #endregion fixture-loader

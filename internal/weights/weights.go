package weights

import (
	"fmt"
	"math"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// #region reform-cost
// ReformCost is the base cost of the next reform, and the ledger threshold:
// start + reformCount*increment + believer/faction terms, capped. Every step
// saturates, so no loadable Config can push the result past the cap by
// wrapping around.
func (c Config) ReformCost(reformCount int, mods Modifiers) int {
	cost := SaturatingAdd(c.ReformCostStart, saturatingMul(reformCount, c.ReformCostIncrement))
	cost = SaturatingAdd(cost, RoundHalfUp(c.BelieverCostRate*float64(mods.Believers)+c.FactionCostRate*float64(mods.Factions)))
	return min(cost, c.ReformCostCap)
}

// RoundHalfUp rounds to the nearest integer, halves toward positive infinity.
// Values outside the int range saturate; NaN rounds to 0.
func RoundHalfUp(x float64) int {
	switch {
	case math.IsNaN(x):
		return 0
	case x >= float64(math.MaxInt):
		return math.MaxInt
	case x <= float64(math.MinInt):
		return math.MinInt
	}
	return int(math.Floor(x + 0.5))
}

// SaturatingAdd returns a+b, pinned to the int range instead of wrapping.
func SaturatingAdd(a, b int) int {
	sum := a + b
	switch {
	case a > 0 && b > 0 && sum < 0:
		return math.MaxInt
	case a < 0 && b < 0 && sum >= 0:
		return math.MinInt
	}
	return sum
}

func saturatingMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		if (a > 0) == (b > 0) {
			return math.MaxInt
		}
		return math.MinInt
	}
	return p
}

// #endregion reform-cost

// #region clamp
// Upper bounds of the float settings. They keep +Inf out of saved settings.
const (
	MaxMultiplier = 1000.0
	MaxCostRate   = 1e6
)

// Clamp returns a copy with every out-of-range field moved to its nearest valid
// bound, plus one warning per corrected field. It never fails so that settings
// written by older versions stay loadable.
func (c Config) Clamp() (Config, []string) {
	var warnings []string

	switch {
	case math.IsNaN(c.Multiplier) || c.Multiplier < 1:
		warnings = append(warnings, fmt.Sprintf("multiplier %v below 1, clamped to 1", c.Multiplier))
		c.Multiplier = 1
	case c.Multiplier > MaxMultiplier:
		warnings = append(warnings, fmt.Sprintf("multiplier %v above %v, clamped to %v", c.Multiplier, MaxMultiplier, MaxMultiplier))
		c.Multiplier = MaxMultiplier
	}

	ints := []struct {
		name string
		v    *int
	}{
		{"reform_cost_start", &c.ReformCostStart},
		{"reform_cost_increment", &c.ReformCostIncrement},
		{"reform_cost_cap", &c.ReformCostCap},
		{"cost_per_trait_impact", &c.CostPerTraitImpact},
		{"cost_per_domain_shift", &c.CostPerDomainShift},
		{"cost_per_selection_change", &c.CostPerSelectionChange},
	}
	for _, f := range ints {
		if *f.v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s %d negative, clamped to 0", f.name, *f.v))
			*f.v = 0
		}
	}

	rates := []struct {
		name string
		v    *float64
	}{
		{"believer_cost_rate", &c.BelieverCostRate},
		{"faction_cost_rate", &c.FactionCostRate},
	}
	for _, f := range rates {
		switch {
		case math.IsNaN(*f.v) || *f.v < 0:
			warnings = append(warnings, fmt.Sprintf("%s %v negative, clamped to 0", f.name, *f.v))
			*f.v = 0
		case *f.v > MaxCostRate:
			warnings = append(warnings, fmt.Sprintf("%s %v above %v, clamped to %v", f.name, *f.v, MaxCostRate, MaxCostRate))
			*f.v = MaxCostRate
		}
	}

	if c.ReformCostCap < c.ReformCostStart {
		warnings = append(warnings, fmt.Sprintf("reform_cost_cap %d below reform_cost_start %d, clamped to %d",
			c.ReformCostCap, c.ReformCostStart, c.ReformCostStart))
		c.ReformCostCap = c.ReformCostStart
	}

	return c, warnings
}

// #endregion clamp

// #region load
// LoadFile reads a YAML weights file on top of Default and clamps the result.
// Missing keys keep their defaults. Only unreadable or unparsable files error.
func LoadFile(path string) (Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, nil, fmt.Errorf("read weights %s: %w", path, err)
	}
	cfg, warnings, err := Parse(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return cfg, warnings, nil
}

// Parse decodes YAML (or JSON, which is valid YAML) weights onto Default.
func Parse(data []byte) (Config, []string, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, nil, err
	}
	cfg, warnings := cfg.Clamp()
	return cfg, warnings, nil
}

// #endregion load

// #region live
// Live holds the host's single live Config. Readers take a value copy per
// pass; writers replace the whole value.
type Live struct {
	ptr atomic.Pointer[Config]
}

// NewLive creates a holder seeded with cfg.
func NewLive(cfg Config) *Live {
	l := &Live{}
	l.Store(cfg)
	return l
}

// Load returns the current Config, or Default if nothing was stored.
func (l *Live) Load() Config {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return Default()
}

// Store replaces the live Config.
func (l *Live) Store(cfg Config) {
	l.ptr.Store(&cfg)
}

// #endregion live

package weights

// #region config
// Config holds every tunable coefficient used to price a reform and to grow
// the points ledger. A Config is treated as immutable for the duration of a
// scoring pass; the host swaps whole values between passes.
type Config struct {
	Multiplier              float64 `yaml:"multiplier" json:"multiplier"`                               // applied to every credit (>= 1)
	ReformCostStart         int     `yaml:"reform_cost_start" json:"reform_cost_start"`                 // base cost of the first reform
	ReformCostIncrement     int     `yaml:"reform_cost_increment" json:"reform_cost_increment"`         // added per completed reform
	ReformCostCap           int     `yaml:"reform_cost_cap" json:"reform_cost_cap"`                     // upper bound of the base cost (>= start)
	CostPerTraitImpact      int     `yaml:"cost_per_trait_impact" json:"cost_per_trait_impact"`         // per impact level of a gained or lost trait
	CostPerDomainShift      int     `yaml:"cost_per_domain_shift" json:"cost_per_domain_shift"`         // per rank step within a touched domain
	CostPerSelectionChange  int     `yaml:"cost_per_selection_change" json:"cost_per_selection_change"` // per dev cost of an added/removed selection
	RandomizeSelectionsMode bool    `yaml:"randomize_selections_mode" json:"randomize_selections_mode"` // selections are not player controlled
	BelieverCostRate        float64 `yaml:"believer_cost_rate" json:"believer_cost_rate"`
	FactionCostRate         float64 `yaml:"faction_cost_rate" json:"faction_cost_rate"`
	DebugMode               bool    `yaml:"debug_mode" json:"debug_mode"` // diagnostics only, never affects totals
}

// Default returns the documented defaults ("reset to defaults").
func Default() Config {
	return Config{
		Multiplier:             2,
		ReformCostStart:        10,
		ReformCostIncrement:    2,
		ReformCostCap:          20,
		CostPerTraitImpact:     2,
		CostPerDomainShift:     1,
		CostPerSelectionChange: 2,
	}
}

// #endregion config

// #region modifiers
// Modifiers carries the host-supplied inputs of the optional believer and
// faction terms of the base cost.
type Modifiers struct {
	Believers int `yaml:"believers" json:"believers"`
	Factions  int `yaml:"factions" json:"factions"`
}

// #endregion modifiers

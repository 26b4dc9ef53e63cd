package conflict

// Span is a closed interval a uniform draw is taken from.
type Span struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Tuning holds the knobs of the conflict engine. Zero values are not
// meaningful; start from DefaultTuning and override.
type Tuning struct {
	DeclarationChance    float64 `yaml:"declaration_chance"`
	TreatyBreakStability float64 `yaml:"treaty_break_stability"`
	AllyBetrayalChance   float64 `yaml:"ally_betrayal_chance"`
	EconomicGoalMin      float64 `yaml:"economic_goal_min"`
	PunitiveLookback     uint32  `yaml:"punitive_lookback_years"`

	DraftRate      float64 `yaml:"draft_rate"`
	MinArmy        uint32  `yaml:"min_army"`
	StartingSupply float64 `yaml:"starting_supply"`
	MaxSupply      float64 `yaml:"max_supply"`

	LoserCasualties  Span    `yaml:"loser_casualties"`
	WinnerCasualties Span    `yaml:"winner_casualties"`
	WarriorDeath     float64 `yaml:"warrior_death_chance"`
	CommonerDeath    float64 `yaml:"commoner_death_chance"`

	RetreatMorale   float64 `yaml:"retreat_morale"`
	RetreatStrength float64 `yaml:"retreat_strength"`

	AssaultChance     float64 `yaml:"assault_chance"`
	AssaultMinMorale  float64 `yaml:"assault_min_morale"`
	AssaultCasualties Span    `yaml:"assault_casualties"`

	ExhaustionYears uint32  `yaml:"exhaustion_years"`
	PeacePerYear    float64 `yaml:"peace_chance_per_year"`
	MaxPeaceChance  float64 `yaml:"max_peace_chance"`
}

// DefaultTuning returns the stock balance.
func DefaultTuning() Tuning {
	return Tuning{
		DeclarationChance:    0.04,
		TreatyBreakStability: 0.15,
		AllyBetrayalChance:   0.30,
		EconomicGoalMin:      0.3,
		PunitiveLookback:     20,

		DraftRate:      0.15,
		MinArmy:        20,
		StartingSupply: 3.0,
		MaxSupply:      3.0,

		LoserCasualties:  Span{0.25, 0.40},
		WinnerCasualties: Span{0.10, 0.20},
		WarriorDeath:     0.15,
		CommonerDeath:    0.05,

		RetreatMorale:   0.2,
		RetreatStrength: 0.25,

		AssaultChance:     0.10,
		AssaultMinMorale:  0.4,
		AssaultCasualties: Span{0.15, 0.30},

		ExhaustionYears: 5,
		PeacePerYear:    0.15,
		MaxPeaceChance:  0.8,
	}
}

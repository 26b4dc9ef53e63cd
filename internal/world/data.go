package world

// FactionData holds the political and economic state of a faction.
type FactionData struct {
	Stability          float64 `json:"stability"`  // 0-1
	Prestige           float64 `json:"prestige"`   // 0-1
	Legitimacy         float64 `json:"legitimacy"` // 0-1
	Treasury           float64 `json:"treasury"`   // never negative
	EconomicMotivation float64 `json:"economic_motivation"`

	// Year the faction's current war began, if any.
	WarStarted *uint32 `json:"war_started,omitempty"`

	// War goals declared by this faction, keyed by defender.
	WarGoals map[ID]WarGoal `json:"war_goals,omitempty"`

	// Tribute this faction owes, keyed by payee.
	Tributes map[ID]TributeObligation `json:"tributes,omitempty"`
}

// GoalKind is the casus belli of a war.
type GoalKind string

const (
	GoalTerritorial GoalKind = "territorial"
	GoalEconomic    GoalKind = "economic"
	GoalPunitive    GoalKind = "punitive"
)

// WarGoal determines the peace terms a winner will demand.
type WarGoal struct {
	Kind              GoalKind `json:"kind"`
	TargetSettlements []ID     `json:"target_settlements,omitempty"`
	ReparationDemand  float64  `json:"reparation_demand,omitempty"`
}

// TributeObligation is a recurring yearly payment owed after a lost war.
type TributeObligation struct {
	Amount         float64 `json:"amount"`
	YearsRemaining uint32  `json:"years_remaining"`
	TreatyEvent    ID      `json:"treaty_event"`
}

// SettlementData holds the state of a populated place.
type SettlementData struct {
	Population    uint32    `json:"population"` // always Breakdown.Total()
	Breakdown     Breakdown `json:"breakdown"`
	Prosperity    float64   `json:"prosperity"`    // 0-1
	Fortification uint8     `json:"fortification"` // 0-5

	Siege *ActiveSiege `json:"siege,omitempty"`
}

// ActiveSiege records an ongoing siege of a settlement.
type ActiveSiege struct {
	AttackerArmy    ID        `json:"attacker_army"`
	AttackerFaction ID        `json:"attacker_faction"`
	Started         Timestamp `json:"started"`
	MonthsElapsed   uint32    `json:"months_elapsed"`
	CivilianDeaths  uint32    `json:"civilian_deaths"`
}

// SiegeOutcome describes how a siege ended.
type SiegeOutcome string

const (
	SiegeConquered SiegeOutcome = "conquered"
	SiegeLifted    SiegeOutcome = "lifted"
	SiegeAbandoned SiegeOutcome = "abandoned"
)

// ArmyData holds the campaign state of a field army.
type ArmyData struct {
	Strength          uint32  `json:"strength"`
	StartingStrength  uint32  `json:"starting_strength"`
	Morale            float64 `json:"morale"` // 0-1
	Supply            float64 `json:"supply"` // months of reserve, 0-3
	MonthsCampaigning uint32  `json:"months_campaigning"`
	Faction           ID      `json:"faction"`
	HomeRegion        ID      `json:"home_region"` // 0 when unknown

	// Settlement under siege by this army, if any.
	Besieging *ID `json:"besieging,omitempty"`
}

// RegionData holds the geography of a region.
type RegionData struct {
	Terrain Terrain  `json:"terrain"`
	Coord   HexCoord `json:"coord"`
}

// Role is a person's occupation within their faction.
type Role string

const (
	RoleCommon   Role = "common"
	RoleWarrior  Role = "warrior"
	RoleRuler    Role = "ruler"
	RoleMerchant Role = "merchant"
	RoleScholar  Role = "scholar"
	RolePriest   Role = "priest"
)

// Trait is a personality trait that bends decisions.
type Trait string

const (
	TraitAggressive Trait = "aggressive"
	TraitCautious   Trait = "cautious"
	TraitAmbitious  Trait = "ambitious"
	TraitPious      Trait = "pious"
)

// PersonData holds the state of a notable person.
type PersonData struct {
	Role     Role    `json:"role"`
	Prestige float64 `json:"prestige"`
	Traits   []Trait `json:"traits,omitempty"`
}

// HasTrait reports whether the person carries t.
func (p *PersonData) HasTrait(t Trait) bool {
	for _, tr := range p.Traits {
		if tr == t {
			return true
		}
	}
	return false
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package engine

import "github.com/talgya/warfront/internal/world"

// Signal is an outbound effect emitted by a system during a tick. EventID
// points at the narrative event that caused it.
type Signal struct {
	EventID world.ID
	Payload any
}

// WarStarted is emitted when a faction declares war.
type WarStarted struct {
	Attacker world.ID
	Defender world.ID
}

// SettlementCaptured is emitted when a settlement changes hands.
type SettlementCaptured struct {
	Settlement world.ID
	OldFaction world.ID
	NewFaction world.ID
}

// SiegeStarted is emitted when an army opens a siege.
type SiegeStarted struct {
	Settlement      world.ID
	AttackerFaction world.ID
	DefenderFaction world.ID
}

// SiegeEnded is emitted when a siege is cleared for any reason.
type SiegeEnded struct {
	Settlement      world.ID
	AttackerFaction world.ID
	DefenderFaction world.ID
	Outcome         world.SiegeOutcome
}

// WarEnded is emitted when peace is signed.
type WarEnded struct {
	Winner       world.ID
	Loser        world.ID
	Decisive     bool
	Reparations  float64
	TributeYears uint32
}

// EntityDied is emitted when a person is killed.
type EntityDied struct {
	Entity world.ID
}

// LeaderVacancy is emitted when a faction loses its leader.
type LeaderVacancy struct {
	Faction        world.ID
	PreviousLeader world.ID
}

// TreasuryDepleted is emitted when a payment drains a faction's treasury.
type TreasuryDepleted struct {
	Faction world.ID
}

// SignalKind returns a short stable name for a payload, used in logs and
// the audit store.
func SignalKind(payload any) string {
	switch payload.(type) {
	case WarStarted:
		return "war_started"
	case SettlementCaptured:
		return "settlement_captured"
	case SiegeStarted:
		return "siege_started"
	case SiegeEnded:
		return "siege_ended"
	case WarEnded:
		return "war_ended"
	case EntityDied:
		return "entity_died"
	case LeaderVacancy:
		return "leader_vacancy"
	case TreasuryDepleted:
		return "treasury_depleted"
	}
	return "unknown"
}

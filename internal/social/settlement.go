package social

import (
	"math"

	"github.com/talgya/warfront/internal/world"
)

// TransferSettlement moves a settlement to a new owner, along with every
// person located there who belonged to the old owner. Returns the old owner.
func TransferSettlement(w *world.World, settlement, newOwner world.ID, event world.ID) (world.ID, bool) {
	s := w.Entity(settlement)
	if s == nil || !s.Alive() {
		return 0, false
	}
	old, ok := s.ActiveRel(world.RelMemberOf)
	if !ok {
		return 0, false
	}
	if old == newOwner {
		return old, true
	}
	w.EndRelationship(settlement, old, world.RelMemberOf, event)
	if err := w.AddRelationship(settlement, newOwner, world.RelMemberOf, event); err != nil {
		return 0, false
	}
	transferResidents(w, settlement, old, newOwner, event)
	return old, true
}

func transferResidents(w *world.World, settlement, from, to world.ID, event world.ID) {
	for _, p := range w.Living(world.KindPerson) {
		if !p.HasActiveRel(world.RelLocatedIn, settlement) || !p.HasActiveRel(world.RelMemberOf, from) {
			continue
		}
		w.EndRelationship(p.ID, from, world.RelMemberOf, event)
		// Persons can't keep leading the faction they just left.
		w.EndRelationship(p.ID, from, world.RelLeaderOf, event)
		_ = w.AddRelationship(p.ID, to, world.RelMemberOf, event)
	}
}

// setPopulation recomputes Population from the breakdown and records it.
func setPopulation(w *world.World, id world.ID, sd *world.SettlementData, event world.ID) {
	old := sd.Population
	sd.Population = sd.Breakdown.Total()
	if old != sd.Population {
		w.RecordChange(id, event, "population", old, sd.Population)
	}
}

// AbleBodiedMen sums working-age men across the faction's settlements.
func AbleBodiedMen(w *world.World, faction world.ID) uint32 {
	var total uint32
	for _, s := range Settlements(w, faction) {
		if s.Settlement != nil {
			total += s.Settlement.Breakdown.AbleBodiedMen()
		}
	}
	return total
}

// Draft removes conscripts from the faction's settlements in proportion to
// each settlement's working-age men.
func Draft(w *world.World, faction world.ID, draft uint32, event world.ID) {
	setts := Settlements(w, faction)
	var grand uint32
	for _, s := range setts {
		if s.Settlement != nil {
			grand += s.Settlement.Breakdown.AbleBodiedMen()
		}
	}
	if grand == 0 {
		return
	}
	for _, s := range setts {
		sd := s.Settlement
		if sd == nil {
			continue
		}
		share := float64(sd.Breakdown.AbleBodiedMen()) / float64(grand)
		n := uint32(math.Round(float64(draft) * share))
		if n == 0 {
			continue
		}
		sd.Breakdown.Draft(n)
		setPopulation(w, s.ID, sd, event)
	}
}

// ReturnSoldiers spreads disbanded troops across the faction's settlements in
// proportion to working-age men, or evenly when there are none. Each share
// returns half to young adults and the rest to middle age.
func ReturnSoldiers(w *world.World, faction world.ID, soldiers uint32, event world.ID) {
	setts := Settlements(w, faction)
	if len(setts) == 0 || soldiers == 0 {
		return
	}

	weights := make([]uint32, len(setts))
	var total uint32
	for i, s := range setts {
		if s.Settlement != nil {
			weights[i] = s.Settlement.Breakdown.AbleBodiedMen()
			total += weights[i]
		}
	}
	if total == 0 {
		for i := range weights {
			weights[i] = 1
		}
		total = uint32(len(weights))
	}

	for i, n := range apportion(soldiers, weights, total) {
		sd := setts[i].Settlement
		if sd == nil || n == 0 {
			continue
		}
		sd.Breakdown.Restore(n)
		setPopulation(w, setts[i].ID, sd, event)
	}
}

// apportion splits n by weights using largest remainders, so the shares
// always sum to n. Remainder ties go to the earlier index.
func apportion(n uint32, weights []uint32, total uint32) []uint32 {
	shares := make([]uint32, len(weights))
	rems := make([]uint64, len(weights))
	var given uint32
	for i, wt := range weights {
		exact := uint64(n) * uint64(wt)
		shares[i] = uint32(exact / uint64(total))
		rems[i] = exact % uint64(total)
		given += shares[i]
	}
	for left := n - given; left > 0; left-- {
		best := -1
		for i, r := range rems {
			if weights[i] == 0 {
				continue
			}
			if best < 0 || r > rems[best] {
				best = i
			}
		}
		if best < 0 {
			break
		}
		shares[best]++
		rems[best] = 0
	}
	return shares
}

// KillCivilians removes n people from a settlement, rescaling every bracket.
// Returns how many actually died.
func KillCivilians(w *world.World, settlement world.ID, n uint32, event world.ID) uint32 {
	sd := w.Settlement(settlement)
	if sd == nil || n == 0 {
		return 0
	}
	n = min(n, sd.Population)
	sd.Breakdown.ScaleTo(sd.Population - n)
	before := sd.Population
	setPopulation(w, settlement, sd, event)
	return before - sd.Population
}

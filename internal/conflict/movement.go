package conflict

import (
	"fmt"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/world"
)

// campaignTarget is the Extra key holding the region an army marches on.
const campaignTarget = "campaign_target"

type march struct {
	army     world.ID
	faction  world.ID
	from, to world.ID
	target   world.ID
}

// moveArmies marches every free army one region toward the nearest enemy
// army, or failing that the nearest enemy settlement.
func (s *System) moveArmies(ctx *engine.TickContext) {
	w := ctx.World

	var marches []march
	for _, a := range w.Living(world.KindArmy) {
		ad := a.Army
		if ad == nil || ad.Besieging != nil || ad.Faction == 0 || !atWar(w, ad.Faction) {
			continue
		}
		from, ok := a.ActiveRel(world.RelLocatedIn)
		if !ok {
			continue
		}

		target, ok := w.BFSNearest(from, func(r world.ID) bool { return hostileArmyIn(w, r, ad.Faction) })
		if !ok {
			target, ok = w.BFSNearest(from, func(r world.ID) bool { return hostileSettlementIn(w, r, ad.Faction) })
		}
		if !ok || target == from {
			continue
		}
		next, ok := w.BFSNextStep(from, target)
		if !ok {
			continue
		}
		marches = append(marches, march{army: a.ID, faction: ad.Faction, from: from, to: next, target: target})
	}

	// Hostile armies swapping regions would pass each other; the later one
	// holds so they meet.
	held := make([]bool, len(marches))
	for i := range marches {
		if held[i] {
			continue
		}
		for j := i + 1; j < len(marches); j++ {
			mi, mj := marches[i], marches[j]
			if held[j] || mi.from != mj.to || mi.to != mj.from {
				continue
			}
			if w.HasRelation(mi.faction, mj.faction, world.RelAtWar) {
				held[j] = true
			}
		}
	}

	for i, m := range marches {
		if held[i] {
			continue
		}
		ev := w.AddEvent(world.EventArmyMoved, fmt.Sprintf("%s marched from %s to %s in year %d",
			w.Name(m.army), w.Name(m.from), w.Name(m.to), ctx.Time.Year))
		w.AddParticipant(ev, m.army, world.RoleSubject)
		w.AddParticipant(ev, m.from, world.RoleOrigin)
		w.AddParticipant(ev, m.to, world.RoleDestination)
		moveArmy(ctx, m.army, m.from, m.to, ev)
		if cur, ok := w.Entity(m.army).Extra[campaignTarget]; !ok || cur != m.target {
			w.SetExtra(m.army, campaignTarget, m.target, ev)
		}
	}
}

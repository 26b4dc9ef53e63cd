package conflict

import (
	"fmt"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

type engagement struct {
	a, b   *world.Entity
	region world.ID
}

// resolveBattles fights one battle for every pair of hostile armies sharing
// a region, in ID order.
func (s *System) resolveBattles(ctx *engine.TickContext) {
	w := ctx.World
	armies := w.Living(world.KindArmy)

	var fights []engagement
	for i, a := range armies {
		ra, ok := a.ActiveRel(world.RelLocatedIn)
		if !ok || a.Army == nil || a.Army.Faction == 0 {
			continue
		}
		for _, b := range armies[i+1:] {
			rb, ok := b.ActiveRel(world.RelLocatedIn)
			if !ok || b.Army == nil || rb != ra {
				continue
			}
			if w.HasRelation(a.Army.Faction, b.Army.Faction, world.RelAtWar) {
				fights = append(fights, engagement{a: a, b: b, region: ra})
			}
		}
	}

	for _, f := range fights {
		if !f.a.Alive() || !f.b.Alive() || f.a.Army.Strength == 0 || f.b.Army.Strength == 0 {
			continue
		}
		s.fight(ctx, f)
	}
}

func (s *System) fight(ctx *engine.TickContext, f engagement) {
	w := ctx.World

	// The side fighting on its home ground defends.
	attacker, defender := f.a, f.b
	if isHome(f.a.Army, f.region) && !isHome(f.b.Army, f.region) {
		attacker, defender = f.b, f.a
	}

	attackPower := power(w, attacker.Army)
	defendPower := power(w, defender.Army) * defenseBonus(terrainOf(w, f.region))

	winner, loser := attacker, defender
	if attackPower < defendPower {
		winner, loser = defender, attacker
	}
	wa, la := winner.Army, loser.Army

	loserLost := casualties(ctx, la.Strength, s.Tuning.LoserCasualties)
	winnerLost := casualties(ctx, wa.Strength, s.Tuning.WinnerCasualties)

	ev := w.AddEvent(world.EventBattle, fmt.Sprintf("Battle between %s and %s in year %d",
		w.Name(wa.Faction), w.Name(la.Faction), ctx.Time.Year))
	w.AddParticipant(ev, wa.Faction, world.RoleAttacker)
	w.AddParticipant(ev, la.Faction, world.RoleDefender)
	w.AddParticipant(ev, f.region, world.RoleLocation)

	setStrength(w, winner.ID, wa, wa.Strength-winnerLost, ev)
	setMorale(w, winner.ID, wa, wa.Morale*1.1, ev)
	setStrength(w, loser.ID, la, la.Strength-loserLost, ev)
	setMorale(w, loser.ID, la, la.Morale*0.7, ev)

	s.killNotables(ctx, la.Faction, ev, false)
	s.killNotables(ctx, wa.Faction, ev, true)

	if la.Strength == 0 {
		endArmy(ctx, loser.ID, ev)
	}
	if wa.Strength == 0 {
		endArmy(ctx, winner.ID, ev)
	}
	ctx.Log.Debug("battle", "winner", winner.Name, "loser", loser.Name,
		"winner_losses", winnerLost, "loser_losses", loserLost)
}

func isHome(ad *world.ArmyData, region world.ID) bool {
	return ad.HomeRegion != 0 && ad.HomeRegion == region
}

// power is strength × morale, scaled up by the faction's prestige.
func power(w *world.World, ad *world.ArmyData) float64 {
	prestige := 0.0
	if fd := w.Faction(ad.Faction); fd != nil {
		prestige = fd.Prestige
	}
	return float64(ad.Strength) * ad.Morale * (1 + prestige*0.1)
}

// killNotables rolls a battlefield death for every member of faction.
// Winners face half the risk.
func (s *System) killNotables(ctx *engine.TickContext, faction, battle world.ID, won bool) {
	var dead []*world.Entity
	for _, p := range social.Members(ctx.World, faction) {
		chance := s.Tuning.CommonerDeath
		if p.Person != nil && p.Person.Role == world.RoleWarrior {
			chance = s.Tuning.WarriorDeath
		}
		if won {
			chance *= 0.5
		}
		if ctx.Rand.Float64() < chance {
			dead = append(dead, p)
		}
	}
	for _, p := range dead {
		killPerson(ctx, p, battle)
	}
}

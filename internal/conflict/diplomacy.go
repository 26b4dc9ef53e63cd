package conflict

import (
	"fmt"
	"math"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// rivalry is a pair of hostile neighbors that could go to war this year.
type rivalry struct {
	a, b *world.Entity
}

// declareWars rolls once for every rivalry and starts the wars that fire.
func (s *System) declareWars(ctx *engine.TickContext) {
	w := ctx.World
	for _, r := range rivalries(w) {
		if ctx.Rand.Float64() >= s.warChance(w, r) {
			continue
		}
		s.declare(ctx, r)
	}
}

// rivalries lists faction pairs, lower ID first, that are enemies, not yet
// at war, and share or touch territory.
func rivalries(w *world.World) []rivalry {
	factions := w.Living(world.KindFaction)
	var out []rivalry
	for i, a := range factions {
		for _, b := range factions[i+1:] {
			if !a.HasActiveRel(world.RelEnemy, b.ID) || a.HasActiveRel(world.RelAtWar, b.ID) {
				continue
			}
			if !social.Bordering(w, a.ID, b.ID) {
				continue
			}
			out = append(out, rivalry{a: a, b: b})
		}
	}
	return out
}

func (s *System) warChance(w *world.World, r rivalry) float64 {
	fa, fb := r.a.Faction, r.b.Faction
	if fa == nil || fb == nil {
		return 0
	}

	instability := world.Clamp((1-(fa.Stability+fb.Stability)/2)*2, 0.5, 2.0)
	chance := s.Tuning.DeclarationChance * instability
	chance *= (1 + fa.EconomicMotivation) * (1 + fb.EconomicMotivation)

	for _, id := range []world.ID{r.a.ID, r.b.ID} {
		leader := social.Leader(w, id)
		if leader == nil || leader.Person == nil {
			continue
		}
		switch {
		case leader.Person.HasTrait(world.TraitAggressive):
			chance *= 1.5
		case leader.Person.HasTrait(world.TraitCautious):
			chance *= 0.5
		}
	}

	// The more prestigious side is bolder.
	chance *= 1 + min(math.Abs(fa.Prestige-fb.Prestige), 0.3)
	return chance
}

// declare starts a war. The less stable faction attacks, breaking any
// treaty it had with the defender.
func (s *System) declare(ctx *engine.TickContext, r rivalry) {
	w := ctx.World
	attacker, defender := r.a, r.b
	if r.a.Faction.Stability > r.b.Faction.Stability {
		attacker, defender = r.b, r.a
	}

	if w.HasRelation(attacker.ID, defender.ID, world.RelTreatyWith) {
		s.breakTreaty(ctx, attacker, defender)
	}

	goal := s.warGoal(w, attacker.ID, defender.ID)
	ev := w.AddEvent(world.EventWarDeclared, fmt.Sprintf("%s declared war on %s%s in year %d",
		attacker.Name, defender.Name, describeGoal(goal), ctx.Time.Year))
	w.AddParticipant(ev, attacker.ID, world.RoleAttacker)
	w.AddParticipant(ev, defender.ID, world.RoleDefender)
	w.SetEventData(ev, goal)

	if err := w.AddMutual(attacker.ID, defender.ID, world.RelAtWar, ev); err != nil {
		ctx.Log.Debug("war not declared", "attacker", attacker.Name, "defender", defender.Name, "err", err)
		return
	}
	af := attacker.Faction
	if af.WarGoals == nil {
		af.WarGoals = make(map[world.ID]world.WarGoal)
	}
	af.WarGoals[defender.ID] = goal
	for _, f := range []*world.Entity{attacker, defender} {
		year := ctx.Time.Year
		f.Faction.WarStarted = &year
		w.RecordChange(f.ID, ev, "war_started", nil, year)
	}
	w.EndMutual(attacker.ID, defender.ID, world.RelAlly, ev)

	ctx.Emit(ev, engine.WarStarted{Attacker: attacker.ID, Defender: defender.ID})
	ctx.Log.Info("war declared", "year", ctx.Time.Year, "attacker", attacker.Name,
		"defender", defender.Name, "goal", goal.Kind)
}

// breakTreaty tears up the peace between attacker and defender. The
// defender's other allies may turn on the breaker.
func (s *System) breakTreaty(ctx *engine.TickContext, attacker, defender *world.Entity) {
	w := ctx.World
	ev := w.AddEvent(world.EventTreatyBroken, fmt.Sprintf("%s broke their treaty with %s in year %d",
		attacker.Name, defender.Name, ctx.Time.Year))
	w.AddParticipant(ev, attacker.ID, world.RoleSubject)
	w.AddParticipant(ev, defender.ID, world.RoleObject)

	w.EndMutual(attacker.ID, defender.ID, world.RelTreatyWith, ev)
	w.EndMutual(attacker.ID, defender.ID, world.RelTributeTo, ev)
	social.ApplyStabilityDelta(w, attacker.ID, -s.Tuning.TreatyBreakStability, ev)
	dropTribute(w, attacker.ID, defender.ID, ev)
	dropTribute(w, defender.ID, attacker.ID, ev)

	allies := defender.ActiveRels(world.RelAlly)
	for _, ally := range sortedIDs(allies) {
		if ally == attacker.ID || !w.IsAlive(ally) {
			continue
		}
		if ctx.Rand.Float64() < s.Tuning.AllyBetrayalChance {
			w.EndMutual(ally, attacker.ID, world.RelAlly, ev)
			if err := w.AddMutual(ally, attacker.ID, world.RelEnemy, ev); err != nil {
				ctx.Log.Debug("ally not turned", "ally", ally, "err", err)
			}
		}
	}
	ctx.Log.Info("treaty broken", "breaker", attacker.Name, "victim", defender.Name)
}

// dropTribute cancels what payer owes payee.
func dropTribute(w *world.World, payer, payee world.ID, event world.ID) {
	fd := w.Faction(payer)
	if fd == nil {
		return
	}
	if ob, ok := fd.Tributes[payee]; ok {
		delete(fd.Tributes, payee)
		w.RecordChange(payer, event, "tribute", ob.Amount, nil)
	}
}

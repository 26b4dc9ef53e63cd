// Package conflict is the military engine: war declarations, mustering,
// campaign logistics, battles, sieges, peace terms and tribute.
//
// Everything runs inside one monthly System. Yearly phases run on the first
// month of each year, diplomacy and mustering before the campaign steps and
// peace and tribute after them.
package conflict

import (
	"fmt"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// System steps every conflict phase against the world.
type System struct {
	Tuning Tuning
}

// New returns a conflict system using t.
func New(t Tuning) *System {
	return &System{Tuning: t}
}

func (s *System) Name() string { return "conflict" }
func (s *System) Frequency() engine.Frequency { return engine.Monthly }

// Tick runs the phases in order.
func (s *System) Tick(ctx *engine.TickContext) {
	yearStart := ctx.Time.IsYearStart()
	if yearStart {
		s.declareWars(ctx)
		s.musterArmies(ctx)
	}

	s.supplyArmies(ctx)
	s.moveArmies(ctx)
	s.resolveBattles(ctx)
	s.retreatArmies(ctx)
	s.startSieges(ctx)
	s.progressSieges(ctx)

	if yearStart {
		s.negotiatePeace(ctx)
		s.collectTribute(ctx)
	}
}

// setStrength writes an army's strength and records the change.
func setStrength(w *world.World, id world.ID, ad *world.ArmyData, v uint32, event world.ID) {
	old := ad.Strength
	ad.Strength = v
	w.RecordChange(id, event, "strength", old, v)
}

func setMorale(w *world.World, id world.ID, ad *world.ArmyData, v float64, event world.ID) {
	old := ad.Morale
	ad.Morale = world.Clamp01(v)
	w.RecordChange(id, event, "morale", old, ad.Morale)
}

// casualties returns round(strength × U(span)), never more than strength.
func casualties(ctx *engine.TickContext, strength uint32, span Span) uint32 {
	n := round(float64(strength) * ctx.Rand.Range(span.Min, span.Max))
	return min(n, strength)
}

// endArmy retires an army whose strength reached zero.
func endArmy(ctx *engine.TickContext, id world.ID, event world.ID) {
	if err := ctx.World.EndEntity(id, event); err != nil {
		ctx.Log.Debug("army already ended", "army", id, "err", err)
	}
}

// moveArmy relocates an army to region.
func moveArmy(ctx *engine.TickContext, army, from, to world.ID, event world.ID) {
	w := ctx.World
	w.EndRelationship(army, from, world.RelLocatedIn, event)
	if err := w.AddRelationship(army, to, world.RelLocatedIn, event); err != nil {
		ctx.Log.Warn("army not relocated", "army", w.Name(army), "to", w.Name(to), "err", err)
	}
}

// killPerson ends a person killed in battle, along with all their ties.
func killPerson(ctx *engine.TickContext, p *world.Entity, cause world.ID) {
	w := ctx.World
	led, leads := p.ActiveRel(world.RelLeaderOf)

	ev := w.AddCausedEvent(world.EventDeath, fmt.Sprintf("%s was killed in battle in year %d", p.Name, ctx.Time.Year), cause)
	w.AddParticipant(ev, p.ID, world.RoleSubject)

	w.EndAllRelationships(p.ID, ev)
	if err := w.EndEntity(p.ID, ev); err != nil {
		ctx.Log.Debug("person already ended", "person", p.ID, "err", err)
		return
	}
	ctx.Emit(ev, engine.EntityDied{Entity: p.ID})
	if leads {
		ctx.Emit(ev, engine.LeaderVacancy{Faction: led, PreviousLeader: p.ID})
	}
}

// clearSiege ends the siege of settlement with outcome, releasing the army.
func clearSiege(ctx *engine.TickContext, settlement world.ID, outcome world.SiegeOutcome) {
	w := ctx.World
	sd := w.Settlement(settlement)
	if sd == nil || sd.Siege == nil {
		return
	}
	siege := sd.Siege
	defender, _ := w.OwnerOf(settlement)

	ev := w.AddEvent(world.EventSiegeEnded, fmt.Sprintf("Siege of %s ended (%s) in year %d", w.Name(settlement), outcome, ctx.Time.Year))
	w.AddParticipant(ev, settlement, world.RoleSubject)

	sd.Siege = nil
	w.RecordChange(settlement, ev, "siege", string(outcome), nil)
	releaseArmy(w, siege.AttackerArmy, ev)

	ctx.Emit(ev, engine.SiegeEnded{
		Settlement:      settlement,
		AttackerFaction: siege.AttackerFaction,
		DefenderFaction: defender,
		Outcome:         outcome,
	})
}

// releaseArmy clears an army's siege assignment.
func releaseArmy(w *world.World, army world.ID, event world.ID) {
	ad := w.Army(army)
	if ad == nil || ad.Besieging == nil {
		return
	}
	old := *ad.Besieging
	ad.Besieging = nil
	w.RecordChange(army, event, "besieging", old, nil)
}

// conquer hands settlement from loser to winner. A siege event is recorded
// as the cause of the conquest. Returns the conquest event.
func conquer(ctx *engine.TickContext, settlement, winner, loser world.ID) world.ID {
	w := ctx.World
	wn, ln, sn := w.Name(winner), w.Name(loser), w.Name(settlement)
	year := ctx.Time.Year

	siegeEv := w.AddEvent(world.EventSiege, fmt.Sprintf("%s besieged %s of %s in year %d", wn, sn, ln, year))
	w.AddParticipant(siegeEv, winner, world.RoleAttacker)
	w.AddParticipant(siegeEv, settlement, world.RoleObject)

	ev := w.AddCausedEvent(world.EventConquest, fmt.Sprintf("%s conquered %s from %s in year %d", wn, sn, ln, year), siegeEv)
	w.AddParticipant(ev, winner, world.RoleAttacker)
	w.AddParticipant(ev, loser, world.RoleDefender)
	w.AddParticipant(ev, settlement, world.RoleObject)

	if sd := w.Settlement(settlement); sd != nil && sd.Siege != nil {
		releaseArmy(w, sd.Siege.AttackerArmy, ev)
		sd.Siege = nil
		w.RecordChange(settlement, ev, "siege", string(world.SiegeConquered), nil)
	}

	if _, ok := social.TransferSettlement(w, settlement, winner, ev); ok {
		ctx.Emit(ev, engine.SettlementCaptured{Settlement: settlement, OldFaction: loser, NewFaction: winner})
	}
	ctx.Log.Info("settlement conquered", "settlement", sn, "winner", wn, "loser", ln)
	return ev
}

func round(v float64) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(v + 0.5)
}

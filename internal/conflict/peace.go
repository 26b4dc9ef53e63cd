package conflict

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// Terms are the conditions a loser accepts at the end of a war.
type Terms struct {
	Decisive       bool       `json:"decisive"`
	Draw           bool       `json:"draw,omitempty"`
	TerritoryCeded []world.ID `json:"territory_ceded,omitempty"`
	Reparations    float64    `json:"reparations"`
	TributePerYear float64    `json:"tribute_per_year"`
	TributeYears   uint32     `json:"tribute_years"`
}

func (t Terms) String() string {
	parts := []string{"exhaustion peace"}
	switch {
	case t.Decisive:
		parts[0] = "decisive victory"
	case t.Draw:
		parts[0] = "draw, both armies destroyed"
	}
	if len(t.TerritoryCeded) > 0 {
		parts = append(parts, fmt.Sprintf("%d settlements ceded", len(t.TerritoryCeded)))
	}
	if t.Reparations > 0 {
		parts = append(parts, fmt.Sprintf("%.0f gold reparations", t.Reparations))
	}
	if t.TributeYears > 0 {
		parts = append(parts, fmt.Sprintf("%.0f gold/year tribute for %d years", t.TributePerYear, t.TributeYears))
	}
	return strings.Join(parts, ", ")
}

type outcome struct {
	a, b          world.ID // the warring pair, a < b
	winner, loser world.ID
	decisive      bool
	draw          bool
}

// negotiatePeace ends every war that has been won outright or has dragged
// on long enough for exhaustion to set in.
func (s *System) negotiatePeace(ctx *engine.TickContext) {
	for _, pair := range warPairs(ctx.World) {
		if o, ok := s.settle(ctx, pair[0], pair[1]); ok {
			s.makePeace(ctx, o)
		}
	}
}

// warPairs lists every war once, lower faction ID first, in ascending order.
func warPairs(w *world.World) [][2]world.ID {
	var out [][2]world.ID
	for _, f := range w.Living(world.KindFaction) {
		for _, other := range social.Enemies(w, f.ID) {
			p := [2]world.ID{min(f.ID, other), max(f.ID, other)}
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	slices.SortFunc(out, func(x, y [2]world.ID) int {
		if c := cmp.Compare(x[0], y[0]); c != 0 {
			return c
		}
		return cmp.Compare(x[1], y[1])
	})
	return out
}

// settle decides whether the war between a and b ends this year, and who won.
func (s *System) settle(ctx *engine.TickContext, a, b world.ID) (outcome, bool) {
	w := ctx.World
	armyA, armyB := social.Army(w, a), social.Army(w, b)
	o := outcome{a: a, b: b}

	switch {
	case armyA == nil && armyB != nil:
		o.winner, o.loser, o.decisive = b, a, true
	case armyA != nil && armyB == nil:
		o.winner, o.loser, o.decisive = a, b, true
	case armyA == nil && armyB == nil:
		o.winner, o.loser, o.draw = a, b, true
	default:
		started := ctx.Time.Year
		if fd := w.Faction(a); fd != nil && fd.WarStarted != nil {
			started = *fd.WarStarted
		}
		age := uint32(0)
		if ctx.Time.Year > started {
			age = ctx.Time.Year - started
		}
		if age < s.Tuning.ExhaustionYears {
			return o, false
		}
		chance := min(s.Tuning.MaxPeaceChance, s.Tuning.PeacePerYear*float64(age-s.Tuning.ExhaustionYears+1))
		if ctx.Rand.Float64() >= chance {
			return o, false
		}
		o.winner, o.loser = a, b
		if armyA.Army.Strength < armyB.Army.Strength {
			o.winner, o.loser = b, a
		}
	}
	return o, true
}

// goalFor finds the goal the war was fought over. Either side may have
// declared it.
func goalFor(ctx *engine.TickContext, winner, loser world.ID) world.WarGoal {
	w := ctx.World
	if fd := w.Faction(winner); fd != nil {
		if g, ok := fd.WarGoals[loser]; ok {
			return g
		}
	}
	if fd := w.Faction(loser); fd != nil {
		if g, ok := fd.WarGoals[winner]; ok {
			return g
		}
	}
	ctx.Log.Warn("war goal missing", "winner", w.Name(winner), "loser", w.Name(loser))
	return world.WarGoal{Kind: world.GoalTerritorial}
}

// peaceTerms prices the treaty from the war goal, the loser's size and the
// winner's prestige.
func peaceTerms(ctx *engine.TickContext, winner, loser world.ID, decisive bool, goal world.WarGoal) Terms {
	w := ctx.World
	income := float64(len(social.Settlements(w, loser))) * 5

	bonus := 0.0
	if fd := w.Faction(winner); fd != nil && fd.Prestige > 0.5 {
		bonus = (fd.Prestige - 0.5) * 2
	}
	extraYears := round(bonus * 2)

	t := Terms{Decisive: decisive}
	switch goal.Kind {
	case world.GoalTerritorial:
		if decisive {
			t.TerritoryCeded = slices.Clone(goal.TargetSettlements)
		}
	case world.GoalEconomic:
		if decisive {
			t.Reparations = goal.ReparationDemand * (1 + bonus*0.2)
			t.TributePerYear = income * 0.15 * (1 + bonus*0.1)
			t.TributeYears = uint32(ctx.Rand.IntRange(5, 10)) + extraYears
		} else {
			t.Reparations = goal.ReparationDemand * 0.5 * (1 + bonus*0.2)
			t.TributePerYear = income * 0.10 * (1 + bonus*0.1)
			t.TributeYears = uint32(ctx.Rand.IntRange(3, 5)) + extraYears
		}
	case world.GoalPunitive:
		if decisive {
			t.Reparations = income * 2 * (1 + bonus*0.2)
		}
	}
	return t
}

// makePeace signs the treaty and applies its terms.
func (s *System) makePeace(ctx *engine.TickContext, o outcome) {
	w := ctx.World
	winner, loser := o.winner, o.loser
	terms := peaceTerms(ctx, winner, loser, o.decisive, goalFor(ctx, winner, loser))
	terms.Draw = o.draw

	ev := w.AddEvent(world.EventTreaty, fmt.Sprintf("Treaty between %s and %s in year %d: %s",
		w.Name(winner), w.Name(loser), ctx.Time.Year, terms))
	w.SetEventData(ev, terms)
	w.AddParticipant(ev, winner, world.RoleSubject)
	w.AddParticipant(ev, loser, world.RoleObject)

	w.EndMutual(o.a, o.b, world.RelAtWar, ev)

	for _, st := range terms.TerritoryCeded {
		if owner, ok := w.OwnerOf(st); !ok || owner != loser || !w.IsAlive(st) {
			continue
		}
		if _, ok := social.TransferSettlement(w, st, winner, ev); ok {
			ctx.Emit(ev, engine.SettlementCaptured{Settlement: st, OldFaction: loser, NewFaction: winner})
		}
	}

	if terms.Reparations > 0 {
		paid, depleted := social.TransferFunds(w, loser, winner, terms.Reparations, ev)
		if paid > 0 && depleted {
			ctx.Emit(ev, engine.TreasuryDepleted{Faction: loser})
		}
	}

	if terms.TributeYears > 0 && terms.TributePerYear > 0 {
		if lf := w.Faction(loser); lf != nil {
			if lf.Tributes == nil {
				lf.Tributes = make(map[world.ID]world.TributeObligation)
			}
			lf.Tributes[winner] = world.TributeObligation{
				Amount:         terms.TributePerYear,
				YearsRemaining: terms.TributeYears,
				TreatyEvent:    ev,
			}
			w.RecordChange(loser, ev, "tribute", nil, terms.TributePerYear)
			_ = w.AddRelationship(loser, winner, world.RelTributeTo, ev)
		}
	}

	if err := w.AddMutual(winner, loser, world.RelTreatyWith, ev); err != nil {
		ctx.Log.Debug("treaty not recorded", "err", err)
	}

	for _, pair := range [][2]world.ID{{winner, loser}, {loser, winner}} {
		fd := w.Faction(pair[0])
		if fd == nil {
			continue
		}
		delete(fd.WarGoals, pair[1])
		if fd.WarStarted != nil && !atWar(w, pair[0]) {
			w.RecordChange(pair[0], ev, "war_started", *fd.WarStarted, nil)
			fd.WarStarted = nil
		}
	}

	for _, f := range []world.ID{o.a, o.b} {
		s.disband(ctx, f, ev)
	}

	ctx.Emit(ev, engine.WarEnded{
		Winner:       winner,
		Loser:        loser,
		Decisive:     o.decisive,
		Reparations:  terms.Reparations,
		TributeYears: terms.TributeYears,
	})
	ctx.Log.Info("war ended", "year", ctx.Time.Year, "winner", w.Name(winner), "loser", w.Name(loser),
		"decisive", o.decisive, "terms", terms.String())
}

// disband sends a faction's army home, lifting any siege it still holds.
func (s *System) disband(ctx *engine.TickContext, faction, treaty world.ID) {
	w := ctx.World
	army := social.Army(w, faction)
	if army == nil {
		return
	}
	ad := army.Army
	if ad.Besieging != nil {
		clearSiege(ctx, *ad.Besieging, world.SiegeAbandoned)
	}

	ev := w.AddCausedEvent(world.EventArmyDisbanded, fmt.Sprintf("%s disbanded, %d soldiers returned home in year %d",
		army.Name, ad.Strength, ctx.Time.Year), treaty)
	w.AddParticipant(ev, army.ID, world.RoleSubject)
	w.AddParticipant(ev, faction, world.RoleObject)

	remaining := ad.Strength
	endArmy(ctx, army.ID, ev)
	social.ReturnSoldiers(w, faction, remaining, ev)
}

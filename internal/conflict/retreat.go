package conflict

import (
	"fmt"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/world"
)

const retreatMoraleGain = 0.05

// retreatArmies pulls broken armies one step back toward their home region,
// abandoning any siege they were holding.
func (s *System) retreatArmies(ctx *engine.TickContext) {
	w := ctx.World
	for _, a := range w.Living(world.KindArmy) {
		ad := a.Army
		if ad == nil || !s.broken(ad) || ad.HomeRegion == 0 {
			continue
		}
		from, ok := a.ActiveRel(world.RelLocatedIn)
		if !ok || from == ad.HomeRegion {
			continue
		}
		next, ok := w.BFSNextStep(from, ad.HomeRegion)
		if !ok {
			ctx.Log.Debug("no road home", "army", a.Name)
			continue
		}

		if ad.Besieging != nil {
			clearSiege(ctx, *ad.Besieging, world.SiegeAbandoned)
		}

		ev := w.AddEvent(world.EventArmyRetreated, fmt.Sprintf("%s retreated toward home in year %d", a.Name, ctx.Time.Year))
		w.AddParticipant(ev, a.ID, world.RoleSubject)
		w.AddParticipant(ev, from, world.RoleOrigin)
		w.AddParticipant(ev, next, world.RoleDestination)
		moveArmy(ctx, a.ID, from, next, ev)
		setMorale(w, a.ID, ad, ad.Morale+retreatMoraleGain, ev)
	}
}

// broken reports whether an army has lost the will or the numbers to fight.
func (s *System) broken(ad *world.ArmyData) bool {
	start := max(ad.StartingStrength, 1)
	return ad.Morale < s.Tuning.RetreatMorale ||
		float64(ad.Strength)/float64(start) < s.Tuning.RetreatStrength
}

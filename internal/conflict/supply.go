package conflict

import (
	"fmt"
	"math"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/world"
)

const (
	siegeSupplyRate   = 1.2
	starvationRate    = 0.15
	moraleDecay       = 0.02
	homeMoraleBoost   = 0.05
	starvationMorale  = 0.10
	significantChange = 0.001
)

// supplyArmies consumes and forages supply for every army in the field, then
// applies disease, starvation and morale drift.
func (s *System) supplyArmies(ctx *engine.TickContext) {
	w := ctx.World
	for _, a := range w.Living(world.KindArmy) {
		ad := a.Army
		if ad == nil {
			continue
		}
		region, ok := a.ActiveRel(world.RelLocatedIn)
		if !ok {
			ctx.Log.Debug("army has no region", "army", a.ID)
			continue
		}
		terrain := terrainOf(w, region)

		supply := ad.Supply
		if ad.Besieging != nil {
			supply -= siegeSupplyRate
		} else {
			supply -= 1.0
		}
		supply += territoryOf(w, region, ad.Faction).forage() * forageModifier(terrain)
		supply = min(supply, s.Tuning.MaxSupply)

		if ad.Strength == 0 {
			continue
		}
		strength := float64(ad.Strength)
		losses := round(strength * diseaseRate(terrain) * ctx.Rand.Range(0.5, 1.5))
		if supply <= 0 {
			losses += round(strength * starvationRate * ctx.Rand.Range(0.7, 1.3))
		}
		losses = min(losses, ad.Strength)

		morale := ad.Morale
		if ad.HomeRegion != 0 && ad.HomeRegion == region {
			morale += homeMoraleBoost
		} else {
			morale -= moraleDecay
		}
		if supply <= 0 {
			morale -= starvationMorale
		}
		morale = world.Clamp01(morale)
		supply = max(supply, 0)

		oldSupply, oldMorale := ad.Supply, ad.Morale
		ad.MonthsCampaigning++

		if losses > 0 {
			ev := w.AddEvent(world.EventArmyAttrition, fmt.Sprintf("%s lost %d troops to attrition in year %d", a.Name, losses, ctx.Time.Year))
			w.AddParticipant(ev, a.ID, world.RoleSubject)
			setStrength(w, a.ID, ad, ad.Strength-losses, ev)
			ad.Supply = supply
			w.RecordChange(a.ID, ev, "supply", oldSupply, supply)
			setMorale(w, a.ID, ad, morale, ev)
			if ad.Strength == 0 {
				endArmy(ctx, a.ID, ev)
			}
			continue
		}

		if math.Abs(supply-oldSupply) > significantChange || math.Abs(morale-oldMorale) > significantChange {
			ev := w.AddEvent(world.EventArmyStatusUpdate, "")
			ad.Supply = supply
			w.RecordChange(a.ID, ev, "supply", oldSupply, supply)
			setMorale(w, a.ID, ad, morale, ev)
		}
	}
}

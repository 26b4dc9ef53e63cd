package conflict

import (
	"fmt"
	"math"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

const (
	siegeProsperityDecay  = 0.03
	siegeStarvation       = 0.2  // prosperity below which civilians die
	siegeStarvationLoss   = 0.01 // share of population lost per starving month
	siegeSurrenderMonths  = 3
	siegeAssaultMonths    = 2
	siegeAssaultPower     = 1.5
	siegeAssaultMoraleHit = 0.15
)

// startSieges has every uncontested army in enemy territory take unwalled
// settlements outright and invest the first walled one it finds.
func (s *System) startSieges(ctx *engine.TickContext) {
	w := ctx.World
	for _, a := range w.Living(world.KindArmy) {
		ad := a.Army
		if ad == nil || !a.Alive() {
			continue
		}
		region, ok := a.ActiveRel(world.RelLocatedIn)
		if !ok || hostileArmyIn(w, region, ad.Faction) {
			continue
		}

		for _, st := range w.InRegion(world.KindSettlement, region) {
			sd := st.Settlement
			if sd == nil || sd.Siege != nil {
				continue
			}
			owner, ok := st.ActiveRel(world.RelMemberOf)
			if !ok || owner == ad.Faction || !w.HasRelation(ad.Faction, owner, world.RelAtWar) {
				continue
			}

			if sd.Fortification == 0 {
				conquer(ctx, st.ID, ad.Faction, owner)
				continue
			}
			if ad.Besieging != nil {
				continue
			}

			ev := w.AddEvent(world.EventSiege, fmt.Sprintf("%s began siege of %s of %s in year %d",
				w.Name(ad.Faction), st.Name, w.Name(owner), ctx.Time.Year))
			w.AddParticipant(ev, ad.Faction, world.RoleAttacker)
			w.AddParticipant(ev, st.ID, world.RoleObject)

			sd.Siege = &world.ActiveSiege{
				AttackerArmy:    a.ID,
				AttackerFaction: ad.Faction,
				Started:         ctx.Time,
			}
			w.RecordChange(st.ID, ev, "siege", nil, a.ID)
			target := st.ID
			ad.Besieging = &target
			w.RecordChange(a.ID, ev, "besieging", nil, target)
			w.RemoveExtra(a.ID, campaignTarget, ev)

			ctx.Emit(ev, engine.SiegeStarted{Settlement: st.ID, AttackerFaction: ad.Faction, DefenderFaction: owner})
			ctx.Log.Debug("siege started", "army", a.Name, "settlement", st.Name)
		}
	}
}

// progressSieges advances each siege by a month: validity, starvation, then
// surrender and assault rolls.
func (s *System) progressSieges(ctx *engine.TickContext) {
	w := ctx.World
	for _, st := range w.Living(world.KindSettlement) {
		sd := st.Settlement
		if sd == nil || sd.Siege == nil {
			continue
		}
		defender, ok := st.ActiveRel(world.RelMemberOf)
		if !ok {
			continue
		}
		siege := sd.Siege
		army := w.Entity(siege.AttackerArmy)

		if army == nil || !army.Alive() {
			clearSiege(ctx, st.ID, world.SiegeLifted)
			continue
		}
		armyRegion, _ := army.ActiveRel(world.RelLocatedIn)
		region, _ := st.ActiveRel(world.RelLocatedIn)
		if !w.HasRelation(siege.AttackerFaction, defender, world.RelAtWar) || armyRegion == 0 || armyRegion != region {
			clearSiege(ctx, st.ID, world.SiegeAbandoned)
			continue
		}

		siege.MonthsElapsed++
		sd.Prosperity = max(sd.Prosperity-siegeProsperityDecay, 0)
		if sd.Prosperity < siegeStarvation && sd.Population > 0 {
			losses := uint32(math.Ceil(float64(sd.Population) * siegeStarvationLoss))
			siege.CivilianDeaths += social.KillCivilians(w, st.ID, losses, 0)
		}

		if siege.MonthsElapsed >= siegeSurrenderMonths {
			chance := surrenderBase(siege.MonthsElapsed) * (2 - sd.Prosperity) / (1 + float64(sd.Fortification)*0.3)
			if ctx.Rand.Float64() < chance {
				s.siegeConquered(ctx, st.ID, siege.AttackerFaction, defender)
				continue
			}
		}

		if siege.MonthsElapsed < siegeAssaultMonths || ctx.Rand.Float64() >= s.Tuning.AssaultChance {
			continue
		}
		ad := army.Army
		if ad.Morale < s.Tuning.AssaultMinMorale {
			continue
		}

		attack := float64(ad.Strength) * ad.Morale
		defense := float64(sd.Population) * 0.05 * float64(sd.Fortification) * defenseBonus(terrainOf(w, region))
		if attack >= defense*siegeAssaultPower {
			s.siegeConquered(ctx, st.ID, siege.AttackerFaction, defender)
			continue
		}

		lost := casualties(ctx, ad.Strength, s.Tuning.AssaultCasualties)
		ev := w.AddEvent(world.EventSiegeAssaultFail, fmt.Sprintf("%s failed to storm %s, losing %d troops in year %d",
			army.Name, st.Name, lost, ctx.Time.Year))
		w.AddParticipant(ev, army.ID, world.RoleSubject)
		w.AddParticipant(ev, st.ID, world.RoleObject)

		setStrength(w, army.ID, ad, ad.Strength-lost, ev)
		setMorale(w, army.ID, ad, ad.Morale-siegeAssaultMoraleHit, ev)
		if ad.Strength == 0 {
			endArmy(ctx, army.ID, ev)
			clearSiege(ctx, st.ID, world.SiegeLifted)
		}
	}
}

func (s *System) siegeConquered(ctx *engine.TickContext, settlement, attacker, defender world.ID) {
	ev := conquer(ctx, settlement, attacker, defender)
	ctx.Emit(ev, engine.SiegeEnded{
		Settlement:      settlement,
		AttackerFaction: attacker,
		DefenderFaction: defender,
		Outcome:         world.SiegeConquered,
	})
}

// surrenderBase is the monthly surrender chance before prosperity and walls.
func surrenderBase(months uint32) float64 {
	switch {
	case months >= 12:
		return 0.10
	case months >= 6:
		return 0.05
	}
	return 0.02
}

package conflict

import (
	"fmt"
	"slices"

	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// warGoal picks what attacker fights for: money if it is economically
// driven, revenge if the defender took one of its settlements recently, and
// land along the shared border otherwise.
func (s *System) warGoal(w *world.World, attacker, defender world.ID) world.WarGoal {
	af, df := w.Faction(attacker), w.Faction(defender)
	if af != nil && af.EconomicMotivation > s.Tuning.EconomicGoalMin {
		treasury := 0.0
		if df != nil {
			treasury = df.Treasury
		}
		return world.WarGoal{Kind: world.GoalEconomic, ReparationDemand: max(10, treasury*0.5)}
	}

	if lostTo(w, attacker, defender, s.Tuning.PunitiveLookback) {
		return world.WarGoal{Kind: world.GoalPunitive}
	}

	return world.WarGoal{Kind: world.GoalTerritorial, TargetSettlements: borderTargets(w, attacker, defender)}
}

// lostTo reports whether winner conquered a settlement from loser within
// the last years.
func lostTo(w *world.World, loser, winner world.ID, years uint32) bool {
	for _, ev := range w.Events() {
		if ev.Kind != world.EventConquest || w.Now.YearsSince(ev.Time) > years {
			continue
		}
		if ev.HasParticipant(winner, world.RoleAttacker) && ev.HasParticipant(loser, world.RoleDefender) {
			return true
		}
	}
	return false
}

// borderTargets lists defender settlements in or next to attacker regions.
func borderTargets(w *world.World, attacker, defender world.ID) []world.ID {
	regions := social.Regions(w, attacker)
	var out []world.ID
	for _, st := range social.Settlements(w, defender) {
		r, ok := st.ActiveRel(world.RelLocatedIn)
		if !ok {
			continue
		}
		for _, ar := range regions {
			if ar == r || w.HasRelation(ar, r, world.RelAdjacentTo) {
				out = append(out, st.ID)
				break
			}
		}
	}
	return out
}

func describeGoal(g world.WarGoal) string {
	switch g.Kind {
	case world.GoalTerritorial:
		return fmt.Sprintf(" seeking territorial expansion (%d settlements targeted)", len(g.TargetSettlements))
	case world.GoalEconomic:
		return fmt.Sprintf(" demanding economic reparations of %.0f gold", g.ReparationDemand)
	case world.GoalPunitive:
		return " seeking punitive retribution"
	}
	return ""
}

func sortedIDs(ids []world.ID) []world.ID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return out
}

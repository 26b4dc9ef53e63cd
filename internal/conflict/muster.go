package conflict

import (
	"fmt"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// musterArmies raises an army for every faction at war that has none,
// drafting from its settlements' working-age men.
func (s *System) musterArmies(ctx *engine.TickContext) {
	w := ctx.World
	for _, f := range w.Living(world.KindFaction) {
		if !atWar(w, f.ID) || social.Army(w, f.ID) != nil {
			continue
		}

		draft := round(float64(social.AbleBodiedMen(w, f.ID)) * s.Tuning.DraftRate)
		if draft < s.Tuning.MinArmy {
			ctx.Log.Debug("too few men to muster", "faction", f.Name, "draft", draft)
			continue
		}

		ev := w.AddEvent(world.EventArmyMustered, fmt.Sprintf("%s mustered an army of %d in year %d", f.Name, draft, ctx.Time.Year))
		_, home, _ := social.Capital(w, f.ID)

		army := w.AddEntity(&world.Entity{
			Kind: world.KindArmy,
			Name: "Army of " + f.Name,
			Army: &world.ArmyData{
				Strength:         draft,
				StartingStrength: draft,
				Morale:           1,
				Supply:           s.Tuning.StartingSupply,
				Faction:          f.ID,
				HomeRegion:       home,
			},
		})
		w.RecordChange(army, ev, "created", nil, draft)
		_ = w.AddRelationship(army, f.ID, world.RelMemberOf, ev)
		w.AddParticipant(ev, army, world.RoleSubject)
		w.AddParticipant(ev, f.ID, world.RoleObject)
		if home != 0 {
			_ = w.AddRelationship(army, home, world.RelLocatedIn, ev)
		}

		social.Draft(w, f.ID, draft, ev)
		ctx.Log.Info("army mustered", "faction", f.Name, "strength", draft)
	}
}

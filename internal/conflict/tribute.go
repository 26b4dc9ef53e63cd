package conflict

import (
	"fmt"
	"maps"
	"slices"

	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// collectTribute takes one year's payment on every tribute obligation.
func (s *System) collectTribute(ctx *engine.TickContext) {
	w := ctx.World
	for _, payer := range w.Living(world.KindFaction) {
		fd := payer.Faction
		if fd == nil || len(fd.Tributes) == 0 {
			continue
		}
		for _, payee := range slices.Sorted(maps.Keys(fd.Tributes)) {
			s.payTribute(ctx, payer, payee)
		}
	}
}

func (s *System) payTribute(ctx *engine.TickContext, payer *world.Entity, payee world.ID) {
	w := ctx.World
	fd := payer.Faction
	ob := fd.Tributes[payee]

	if !w.IsAlive(payee) {
		delete(fd.Tributes, payee)
		ev := w.AddEvent(world.EventTributeEnded, fmt.Sprintf("%s owes no more tribute to the fallen %s in year %d",
			payer.Name, w.Name(payee), ctx.Time.Year))
		w.AddParticipant(ev, payer.ID, world.RoleSubject)
		w.AddParticipant(ev, payee, world.RoleObject)
		w.RecordChange(payer.ID, ev, "tribute", ob.Amount, nil)
		w.EndRelationship(payer.ID, payee, world.RelTributeTo, ev)
		return
	}

	wasBroke := fd.Treasury <= 0
	if due := min(ob.Amount, max(fd.Treasury, 0)); due > 0 {
		ev := w.AddEvent(world.EventTributePaid, fmt.Sprintf("%s paid %.0f gold tribute to %s in year %d",
			payer.Name, due, w.Name(payee), ctx.Time.Year))
		w.AddParticipant(ev, payer.ID, world.RoleSubject)
		w.AddParticipant(ev, payee, world.RoleObject)
		if _, depleted := social.TransferFunds(w, payer.ID, payee, due, ev); depleted {
			ctx.Emit(ev, engine.TreasuryDepleted{Faction: payer.ID})
		}
	}

	ob.YearsRemaining = max(ob.YearsRemaining, 1) - 1
	if ob.YearsRemaining == 0 {
		delete(fd.Tributes, payee)
		ev := w.AddEvent(world.EventTributeEnded, fmt.Sprintf("%s completed tribute obligations to %s in year %d",
			payer.Name, w.Name(payee), ctx.Time.Year))
		w.AddParticipant(ev, payer.ID, world.RoleSubject)
		w.AddParticipant(ev, payee, world.RoleObject)
		w.EndRelationship(payer.ID, payee, world.RelTributeTo, ev)
		return
	}
	fd.Tributes[payee] = ob

	if wasBroke {
		ev := w.AddEvent(world.EventTributeDefaulted, fmt.Sprintf("%s defaulted on tribute to %s in year %d",
			payer.Name, w.Name(payee), ctx.Time.Year))
		w.AddParticipant(ev, payer.ID, world.RoleSubject)
		w.AddParticipant(ev, payee, world.RoleObject)
	}
}

// Package social holds faction and settlement queries and mutations shared by
// the conflict phases: membership, territory, leadership, treasury and
// stability.
package social

import (
	"slices"

	"github.com/talgya/warfront/internal/world"
)

// Settlements returns the faction's living settlements in ID order.
func Settlements(w *world.World, faction world.ID) []*world.Entity {
	var out []*world.Entity
	for _, s := range w.Living(world.KindSettlement) {
		if s.HasActiveRel(world.RelMemberOf, faction) {
			out = append(out, s)
		}
	}
	return out
}

// Regions returns the distinct regions holding the faction's settlements,
// sorted by ID.
func Regions(w *world.World, faction world.ID) []world.ID {
	var out []world.ID
	for _, s := range Settlements(w, faction) {
		if r, ok := s.ActiveRel(world.RelLocatedIn); ok && !slices.Contains(out, r) {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return out
}

// Bordering reports whether any region of a is the same as, or adjacent to,
// any region of b.
func Bordering(w *world.World, a, b world.ID) bool {
	ra := Regions(w, a)
	rb := Regions(w, b)
	for _, x := range ra {
		for _, y := range rb {
			if x == y || w.HasRelation(x, y, world.RelAdjacentTo) {
				return true
			}
		}
	}
	return false
}

// Members returns the living persons belonging to the faction, by ID.
func Members(w *world.World, faction world.ID) []*world.Entity {
	var out []*world.Entity
	for _, p := range w.Living(world.KindPerson) {
		if p.HasActiveRel(world.RelMemberOf, faction) {
			out = append(out, p)
		}
	}
	return out
}

// Leader returns the living person leading the faction.
func Leader(w *world.World, faction world.ID) *world.Entity {
	for _, p := range w.Living(world.KindPerson) {
		if p.HasActiveRel(world.RelLeaderOf, faction) {
			return p
		}
	}
	return nil
}

// Army returns the faction's living army, or nil.
func Army(w *world.World, faction world.ID) *world.Entity {
	for _, a := range w.Living(world.KindArmy) {
		if a.Army != nil && a.Army.Faction == faction {
			return a
		}
	}
	return nil
}

// Enemies returns the factions at war with faction, sorted by ID.
func Enemies(w *world.World, faction world.ID) []world.ID {
	e := w.Entity(faction)
	if e == nil {
		return nil
	}
	out := e.ActiveRels(world.RelAtWar)
	slices.Sort(out)
	return out
}

// Capital returns the faction's most populous settlement and its region.
// Ties go to the lower settlement ID.
func Capital(w *world.World, faction world.ID) (settlement, region world.ID, ok bool) {
	var best *world.Entity
	for _, s := range Settlements(w, faction) {
		if s.Settlement == nil {
			continue
		}
		if best == nil || s.Settlement.Population > best.Settlement.Population {
			best = s
		}
	}
	if best == nil {
		return 0, 0, false
	}
	region, ok = best.ActiveRel(world.RelLocatedIn)
	return best.ID, region, ok
}

// ApplyStabilityDelta shifts a faction's stability, clamped to [0, 1].
func ApplyStabilityDelta(w *world.World, faction world.ID, delta float64, event world.ID) {
	fd := w.Faction(faction)
	if fd == nil {
		return
	}
	old := fd.Stability
	fd.Stability = world.Clamp01(old + delta)
	w.RecordChange(faction, event, "stability", old, fd.Stability)
}

// TransferFunds moves up to amount from one treasury to another. Returns the
// amount actually paid and whether the payer's treasury is now empty.
func TransferFunds(w *world.World, from, to world.ID, amount float64, event world.ID) (paid float64, depleted bool) {
	src, dst := w.Faction(from), w.Faction(to)
	if src == nil || dst == nil || amount <= 0 {
		return 0, false
	}
	paid = min(amount, max(src.Treasury, 0))
	if paid <= 0 {
		return 0, src.Treasury <= 0
	}

	old := src.Treasury
	src.Treasury = max(old-paid, 0)
	w.RecordChange(from, event, "treasury", old, src.Treasury)

	old = dst.Treasury
	dst.Treasury = old + paid
	w.RecordChange(to, event, "treasury", old, dst.Treasury)

	return paid, src.Treasury <= 0
}

package world

import "slices"

// Adjacent returns the living regions adjacent to region, sorted by ID.
func (w *World) Adjacent(region ID) []ID {
	e := w.entities[region]
	if e == nil {
		return nil
	}
	out := e.ActiveRels(RelAdjacentTo)
	out = slices.DeleteFunc(out, func(id ID) bool { return !w.IsAlive(id) })
	slices.Sort(out)
	return out
}

// passable reports whether a land army can enter region.
func (w *World) passable(region ID) bool {
	r := w.Region(region)
	return r != nil && !r.Terrain.IsWater()
}

// BFSNextStep returns the first hop on a shortest land path from start to
// goal. It returns false when start equals goal or no path exists.
func (w *World) BFSNextStep(start, goal ID) (ID, bool) {
	if start == goal {
		return 0, false
	}
	parent := map[ID]ID{start: start}
	queue := []ID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range w.Adjacent(cur) {
			if _, seen := parent[n]; seen || !w.passable(n) {
				continue
			}
			parent[n] = cur
			if n == goal {
				for parent[n] != start {
					n = parent[n]
				}
				return n, true
			}
			queue = append(queue, n)
		}
	}
	return 0, false
}

// BFSNearest returns the closest region reachable over land from start,
// start included, for which match returns true. Ties at equal distance go to
// the region discovered first, which is the lowest ID at each frontier.
func (w *World) BFSNearest(start ID, match func(ID) bool) (ID, bool) {
	if w.Region(start) == nil {
		return 0, false
	}
	seen := map[ID]bool{start: true}
	queue := []ID{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if match(cur) {
			return cur, true
		}
		for _, n := range w.Adjacent(cur) {
			if seen[n] || !w.passable(n) {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return 0, false
}

// RegionOf returns the region an entity is located in.
func (w *World) RegionOf(id ID) (ID, bool) {
	e := w.entities[id]
	if e == nil {
		return 0, false
	}
	return e.ActiveRel(RelLocatedIn)
}

// OwnerOf returns the faction an entity is a member of.
func (w *World) OwnerOf(id ID) (ID, bool) {
	e := w.entities[id]
	if e == nil {
		return 0, false
	}
	return e.ActiveRel(RelMemberOf)
}

// InRegion returns the living entities of kind located in region, by ID.
func (w *World) InRegion(kind Kind, region ID) []*Entity {
	var out []*Entity
	for _, e := range w.Living(kind) {
		if e.HasActiveRel(RelLocatedIn, region) {
			out = append(out, e)
		}
	}
	return out
}

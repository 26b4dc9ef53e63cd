package conflict

import (
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// defenseBonus multiplies the power of a side defending on this terrain.
func defenseBonus(t world.Terrain) float64 {
	switch t {
	case world.TerrainMountains, world.TerrainHills:
		return 1.3
	case world.TerrainForest, world.TerrainJungle:
		return 1.15
	}
	return 1.0
}

func forageModifier(t world.Terrain) float64 {
	switch t {
	case world.TerrainPlains, world.TerrainCoast:
		return 1.3
	case world.TerrainForest:
		return 1.0
	case world.TerrainHills:
		return 0.8
	case world.TerrainJungle:
		return 0.7
	case world.TerrainSwamp:
		return 0.6
	case world.TerrainMountains:
		return 0.4
	case world.TerrainTundra:
		return 0.2
	case world.TerrainDesert:
		return 0.1
	}
	return 0.5
}

// diseaseRate is the monthly share of an army lost to sickness.
func diseaseRate(t world.Terrain) float64 {
	switch t {
	case world.TerrainSwamp:
		return 0.03
	case world.TerrainJungle:
		return 0.025
	case world.TerrainTundra:
		return 0.02
	case world.TerrainDesert:
		return 0.015
	case world.TerrainMountains:
		return 0.01
	}
	return 0.005
}

// unknownTerrain stands in for a region without terrain data. It takes the
// default modifiers of every table.
const unknownTerrain world.Terrain = 255

func terrainOf(w *world.World, region world.ID) world.Terrain {
	if r := w.Region(region); r != nil {
		return r.Terrain
	}
	return unknownTerrain
}

// territory is how a region relates to an army's faction.
type territory uint8

const (
	neutral territory = iota
	friendly
	hostile
)

func (t territory) forage() float64 {
	switch t {
	case friendly:
		return 0.8
	case hostile:
		return 0.15
	}
	return 0.4
}

// territoryOf classifies region by the owners of the settlements in it. Any
// settlement of the army's own faction makes it friendly; otherwise any
// foreign settlement makes it hostile.
func territoryOf(w *world.World, region, faction world.ID) territory {
	status := neutral
	for _, s := range w.InRegion(world.KindSettlement, region) {
		owner, ok := s.ActiveRel(world.RelMemberOf)
		if !ok {
			continue
		}
		if owner == faction {
			return friendly
		}
		status = hostile
	}
	return status
}

// hostileArmyIn reports whether region holds a living army whose faction is
// at war with faction.
func hostileArmyIn(w *world.World, region, faction world.ID) bool {
	for _, a := range w.InRegion(world.KindArmy, region) {
		if a.Army != nil && a.Army.Strength > 0 && w.HasRelation(faction, a.Army.Faction, world.RelAtWar) {
			return true
		}
	}
	return false
}

// hostileSettlementIn reports whether region holds a living settlement owned
// by a faction at war with faction.
func hostileSettlementIn(w *world.World, region, faction world.ID) bool {
	for _, s := range w.InRegion(world.KindSettlement, region) {
		if owner, ok := s.ActiveRel(world.RelMemberOf); ok && w.HasRelation(faction, owner, world.RelAtWar) {
			return true
		}
	}
	return false
}

func atWar(w *world.World, faction world.ID) bool {
	return len(social.Enemies(w, faction)) > 0
}

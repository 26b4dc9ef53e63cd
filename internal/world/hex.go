// Package world provides the entity store, region graph, and terrain model
// that the conflict engine reads and mutates each tick.
// Regions sit on a hex grid using axial coordinates (q, r).
package world

// HexCoord represents a region position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Terrain types for regions.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Open ground, good forage
	TerrainForest                   // Cover for defenders
	TerrainMountains                // Strong defense, poor forage
	TerrainHills                    // Defensive, middling forage
	TerrainCoast                    // Fishing, good forage
	TerrainRiver                    // Freshwater valleys
	TerrainDesert                   // Almost no forage
	TerrainSwamp                    // Disease
	TerrainJungle                   // Disease and cover
	TerrainTundra                   // Cold, little forage
	TerrainOcean                    // Impassable for land armies
)

var terrainNames = [...]string{
	TerrainPlains:    "plains",
	TerrainForest:    "forest",
	TerrainMountains: "mountains",
	TerrainHills:     "hills",
	TerrainCoast:     "coast",
	TerrainRiver:     "river",
	TerrainDesert:    "desert",
	TerrainSwamp:     "swamp",
	TerrainJungle:    "jungle",
	TerrainTundra:    "tundra",
	TerrainOcean:     "ocean",
}

// String returns the lowercase terrain name.
func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// IsWater reports whether land armies can't cross the terrain.
func (t Terrain) IsWater() bool {
	return t == TerrainOcean
}

// ParseTerrain maps a terrain name back to its value.
func ParseTerrain(name string) (Terrain, bool) {
	for i, n := range terrainNames {
		if n == name {
			return Terrain(i), true
		}
	}
	return 0, false
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package world

import (
	"fmt"
	"slices"
)

// Hex is one cell of a generated terrain grid, before it becomes a region.
type Hex struct {
	Coord       HexCoord
	Terrain     Terrain
	Elevation   float64 // 0-1
	Rainfall    float64 // 0-1
	Temperature float64 // 0-1
}

// Map holds a generated hex grid.
type Map struct {
	Hexes  map[HexCoord]*Hex
	Radius int
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Hex),
		Radius: radius,
	}
}

// Get returns the hex at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Hex {
	return m.Hexes[coord]
}

// Set places a hex at its coordinate.
func (m *Map) Set(hex *Hex) {
	m.Hexes[hex.Coord] = hex
}

// InBounds reports whether the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return max(abs(coord.Q), abs(coord.R), abs(coord.S())) <= m.Radius
}

// Coords returns every coordinate sorted by (q, r). Range over this, not
// the Hexes map, anywhere the order can affect the result.
func (m *Map) Coords() []HexCoord {
	out := make([]HexCoord, 0, len(m.Hexes))
	for c := range m.Hexes {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b HexCoord) int {
		if a.Q != b.Q {
			return a.Q - b.Q
		}
		return a.R - b.R
	})
	return out
}

// TerrainCounts returns a summary of terrain distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, hex := range m.Hexes {
		counts[hex.Terrain]++
	}
	return counts
}

func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, len(m.Hexes))
}

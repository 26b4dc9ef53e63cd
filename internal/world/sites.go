package world

import (
	"math/rand/v2"
	"slices"
)

// Site is a candidate settlement location on a generated map.
type Site struct {
	Coord HexCoord
	Score float64 // Desirability
	Name  string
}

// PlaceSites picks up to count settlement sites, best first, no two closer
// than minDist hexes.
func PlaceSites(m *Map, rng *rand.Rand, count, minDist int) []Site {
	var candidates []Site
	for _, coord := range m.Coords() {
		if s := siteScore(m, coord); s > 0 {
			candidates = append(candidates, Site{Coord: coord, Score: s})
		}
	}
	slices.SortStableFunc(candidates, func(a, b Site) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	var sites []Site
	for _, c := range candidates {
		if len(sites) >= count {
			break
		}
		if tooClose(c.Coord, sites, minDist) {
			continue
		}
		sites = append(sites, c)
	}

	names := GenerateNames(rng, len(sites))
	for i := range sites {
		sites[i].Name = names[i]
	}
	return sites
}

// siteScore prefers coast, rivers and plains with varied surroundings.
func siteScore(m *Map, coord HexCoord) float64 {
	hex := m.Get(coord)
	score := 0.0
	switch hex.Terrain {
	case TerrainCoast:
		score += 4.0
	case TerrainRiver:
		score += 3.5
	case TerrainPlains:
		score += 3.0
	case TerrainForest, TerrainHills:
		score += 1.5
	case TerrainDesert, TerrainSwamp, TerrainJungle, TerrainTundra:
		score += 0.5
	case TerrainMountains:
		score += 0.3
	default:
		return 0
	}

	seen := make(map[Terrain]bool)
	water := false
	for _, nc := range coord.Neighbors() {
		nh := m.Get(nc)
		if nh == nil {
			continue
		}
		if nh.Terrain != TerrainOcean {
			seen[nh.Terrain] = true
		}
		if nh.Terrain == TerrainRiver || nh.Terrain == TerrainCoast {
			water = true
		}
	}
	score += float64(len(seen)) * 0.3
	if water {
		score += 0.5
	}
	return score
}

func tooClose(coord HexCoord, existing []Site, minDist int) bool {
	for _, s := range existing {
		if Distance(coord, s.Coord) < minDist {
			return true
		}
	}
	return false
}

var (
	namePrefixes = []string{
		"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
		"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
		"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
		"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
	}
	nameSuffixes = []string{
		"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
		"stead", "wood", "field", "dale", "crest", "vale", "port",
		"town", "bury", "marsh", "well", "brook", "cliff", "moor",
		"ridge", "watch", "fall", "rest", "point", "reach", "helm",
	}
)

// GenerateNames produces count distinct names by combining syllables.
func GenerateNames(rng *rand.Rand, count int) []string {
	used := make(map[string]bool)
	names := make([]string, 0, count)
	for len(names) < count {
		name := namePrefixes[rng.IntN(len(namePrefixes))] + nameSuffixes[rng.IntN(len(nameSuffixes))]
		if used[name] {
			continue
		}
		used[name] = true
		names = append(names, name)
	}
	return names
}

// Terrain generation using layered simplex noise.
// Elevation, rainfall and temperature layers are sampled per hex and folded
// into a single terrain type that drives forage, disease and defense.
package world

import (
	"math"
	"math/rand/v2"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds terrain generation parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius
	Seed        int64   // Noise seed; callers resolve 0 before generating
	SeaLevel    float64 // Elevation threshold for ocean (0.0-1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0-1.0)
	HillLvl     float64 // Elevation threshold for hills (0.0-1.0)
}

// DefaultGenConfig returns a small continent suited to a handful of factions.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:      7,
		SeaLevel:    0.22,
		MountainLvl: 0.74,
		HillLvl:     0.60,
	}
}

// Generate creates a terrain grid. The result depends only on cfg.
func Generate(cfg GenConfig) *Map {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	rainNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	tempNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	m := NewMap(cfg.Radius)
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			coord := HexCoord{Q: q, R: r}
			if !m.InBounds(coord) {
				continue
			}

			// Axial to cartesian for noise sampling.
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.12, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.09, 0.5)
			temp := octaveNoise(tempNoise, x, y, 3, 0.07, 0.5)

			// Continental shaping: push the rim under water.
			dist := math.Sqrt(x*x+y*y) / float64(cfg.Radius+1)
			elev *= max(0, 1.0-math.Pow(dist, 3.5))

			temp = temp*0.6 + (1.0-math.Abs(y)/float64(cfg.Radius+1))*0.3 + (1.0-elev)*0.1

			m.Set(&Hex{
				Coord:       coord,
				Terrain:     deriveTerrain(elev, rain, temp, cfg),
				Elevation:   elev,
				Rainfall:    rain,
				Temperature: temp,
			})
		}
	}

	markCoastalHexes(m)
	placeRivers(m, cfg.Seed)
	return m
}

func deriveTerrain(elev, rain, temp float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainOcean
	case elev > cfg.MountainLvl:
		return TerrainMountains
	case elev > cfg.HillLvl:
		return TerrainHills
	case temp < 0.25:
		return TerrainTundra
	case rain < 0.25 && temp > 0.5:
		return TerrainDesert
	case rain > 0.7 && temp > 0.6:
		return TerrainJungle
	case rain > 0.7 && elev < 0.45:
		return TerrainSwamp
	case rain > 0.45 && elev > 0.45:
		return TerrainForest
	}
	return TerrainPlains
}

// markCoastalHexes turns low plains and forest touching the ocean into coast.
func markCoastalHexes(m *Map) {
	var toMark []HexCoord
	for _, coord := range m.Coords() {
		hex := m.Get(coord)
		if hex.Terrain != TerrainPlains && hex.Terrain != TerrainForest {
			continue
		}
		if hex.Elevation >= 0.5 {
			continue
		}
		for _, nc := range coord.Neighbors() {
			if nh := m.Get(nc); nh != nil && nh.Terrain == TerrainOcean {
				toMark = append(toMark, coord)
				break
			}
		}
	}
	for _, coord := range toMark {
		m.Get(coord).Terrain = TerrainCoast
	}
}

// placeRivers traces a few paths downhill from high ground.
func placeRivers(m *Map, seed int64) {
	rng := rand.New(rand.NewPCG(uint64(seed), 100))

	var sources []HexCoord
	for _, coord := range m.Coords() {
		if hex := m.Get(coord); hex.Elevation > 0.6 && hex.Terrain != TerrainOcean {
			sources = append(sources, coord)
		}
	}

	n := min(max(len(sources)/8, 1), 4)
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > n {
		sources = sources[:n]
	}
	for _, start := range sources {
		traceRiver(m, start)
	}
}

// traceRiver follows the steepest descent from a source hex until it reaches
// the ocean or runs out of downhill neighbors.
func traceRiver(m *Map, start HexCoord) {
	current := start
	visited := make(map[HexCoord]bool)
	for range 30 {
		visited[current] = true
		hex := m.Get(current)
		if hex == nil || hex.Terrain == TerrainOcean {
			return
		}
		switch hex.Terrain {
		case TerrainMountains, TerrainHills, TerrainCoast:
		default:
			hex.Terrain = TerrainRiver
		}

		var next *HexCoord
		best := hex.Elevation
		for _, nc := range current.Neighbors() {
			if visited[nc] {
				continue
			}
			if nh := m.Get(nc); nh != nil && nh.Elevation < best {
				best = nh.Elevation
				c := nc
				next = &c
			}
		}
		if next == nil {
			return
		}
		current = *next
	}
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for range octaves {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

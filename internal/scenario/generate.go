package scenario

import (
	"fmt"
	"math/rand/v2"

	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/social"
	"github.com/talgya/warfront/internal/world"
)

// GenConfig controls procedural scenario generation.
type GenConfig struct {
	Seed      uint64
	Radius    int
	Factions  int
	StartYear uint32
}

// Generate builds a continent of hex regions, places capitals and towns, and
// divides them among factions. Identical configs produce identical worlds.
func Generate(cfg GenConfig) (*world.World, error) {
	if cfg.Factions < 2 {
		return nil, fmt.Errorf("generate: need at least 2 factions, got %d", cfg.Factions)
	}
	if cfg.StartYear == 0 {
		cfg.StartYear = 1
	}

	gen := world.DefaultGenConfig()
	if cfg.Radius > 0 {
		gen.Radius = cfg.Radius
	}
	gen.Seed = int64(cfg.Seed & 0x7fffffffffffffff)
	m := world.Generate(gen)

	// A separate stream from the simulation's, so fixtures built from the
	// same seed don't shift the tick draws.
	rng := entropy.New(entropy.Derive(cfg.Seed, 1<<16))
	b := New(cfg.StartYear)

	regions := make(map[world.HexCoord]world.ID, len(m.Hexes))
	for _, c := range m.Coords() {
		hex := m.Get(c)
		regions[c] = b.RegionAt(fmt.Sprintf("%s (%d,%d)", hex.Terrain, c.Q, c.R), hex.Terrain, c)
	}
	for _, c := range m.Coords() {
		for _, n := range c.Neighbors() {
			if nid, ok := regions[n]; ok && regions[c] < nid {
				b.Adjacent(regions[c], nid)
			}
		}
	}

	capitals := world.PlaceSites(m, rng.Rand(), cfg.Factions, max(3, gen.Radius/2))
	if len(capitals) < cfg.Factions {
		return nil, fmt.Errorf("generate: room for %d capitals, want %d (radius %d)", len(capitals), cfg.Factions, gen.Radius)
	}
	towns := world.PlaceSites(m, rng.Rand(), cfg.Factions*4, 2)

	factions := make([]world.ID, len(capitals))
	for i, c := range capitals {
		factions[i] = b.Faction("Realm of "+c.Name,
			Stability(rng.Range(0.3, 0.8)),
			Prestige(rng.Range(0.2, 0.7)),
			Legitimacy(rng.Range(0.4, 0.9)),
			Treasury(rng.Range(50, 400)),
			EconomicMotivation(rng.Range(0, 0.5)),
		)
		capital := b.Settlement(c.Name, factions[i], regions[c.Coord], uint32(rng.IntRange(800, 2000)),
			Fortification(uint8(rng.IntRange(2, 4))),
			Prosperity(rng.Range(0.5, 0.8)),
		)
		addCourt(b, rng.Rand(), factions[i], capital)
	}

	for _, t := range towns {
		if isCapital(t.Coord, capitals) {
			continue
		}
		owner := nearest(t.Coord, capitals)
		b.Settlement(t.Name, factions[owner], regions[t.Coord], uint32(rng.IntRange(150, 600)),
			Fortification(uint8(rng.IntRange(0, 2))),
			Prosperity(rng.Range(0.4, 0.8)),
		)
	}

	w, err := b.Build()
	if err != nil {
		return nil, err
	}

	for i, x := range factions {
		for _, y := range factions[i+1:] {
			switch {
			case !social.Bordering(w, x, y):
			case rng.Chance(0.6):
				b.Enemies(x, y)
			case rng.Chance(0.3):
				b.Allies(x, y)
			}
		}
	}
	if w, err = b.Build(); err != nil {
		return nil, err
	}

	id := w.AddEvent(world.EventWorldGenerated, fmt.Sprintf("%d factions on a radius-%d continent", len(factions), gen.Radius))
	w.SetEventData(id, map[string]any{"seed": cfg.Seed, "regions": len(regions)})
	return w, nil
}

var traitPool = []world.Trait{world.TraitAggressive, world.TraitCautious, world.TraitAmbitious, world.TraitPious}

// addCourt seats a ruler and a few notables in the capital.
func addCourt(b *Builder, rng *rand.Rand, faction, capital world.ID) {
	names := world.GenerateNames(rng, 4)
	ruler := b.Person(names[0], faction, capital, world.RoleRuler, traitPool[rng.IntN(len(traitPool))])
	b.Leader(ruler, faction)
	b.Person(names[1], faction, capital, world.RoleWarrior, traitPool[rng.IntN(len(traitPool))])
	b.Person(names[2], faction, capital, world.RoleWarrior)
	b.Person(names[3], faction, capital, world.RoleMerchant)
}

func isCapital(c world.HexCoord, capitals []world.Site) bool {
	for _, s := range capitals {
		if s.Coord == c {
			return true
		}
	}
	return false
}

func nearest(c world.HexCoord, capitals []world.Site) int {
	best := 0
	for i, s := range capitals {
		if world.Distance(c, s.Coord) < world.Distance(c, capitals[best].Coord) {
			best = i
		}
	}
	return best
}

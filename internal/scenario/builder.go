// Package scenario builds worlds: hand-placed fixtures for tests and
// procedurally generated continents for batch runs.
package scenario

import (
	"fmt"

	"github.com/talgya/warfront/internal/world"
)

// Builder assembles a world entity by entity. The first failure is kept and
// returned by Build; later calls become no-ops.
type Builder struct {
	w   *world.World
	err error
}

// New starts an empty world at the first month of year.
func New(year uint32) *Builder {
	return &Builder{w: world.New(world.YearStart(year))}
}

// FactionOption tweaks a faction before it is stored.
type FactionOption func(*world.FactionData)

// SettlementOption tweaks a settlement before it is stored.
type SettlementOption func(*world.SettlementData)

// ArmyOption tweaks an army before it is stored.
type ArmyOption func(*world.ArmyData)

func Stability(v float64) FactionOption { return func(f *world.FactionData) { f.Stability = v } }
func Prestige(v float64) FactionOption { return func(f *world.FactionData) { f.Prestige = v } }
func Treasury(v float64) FactionOption { return func(f *world.FactionData) { f.Treasury = v } }
func Legitimacy(v float64) FactionOption { return func(f *world.FactionData) { f.Legitimacy = v } }
func EconomicMotivation(v float64) FactionOption {
	return func(f *world.FactionData) { f.EconomicMotivation = v }
}

func Fortification(v uint8) SettlementOption {
	return func(s *world.SettlementData) { s.Fortification = v }
}
func Prosperity(v float64) SettlementOption {
	return func(s *world.SettlementData) { s.Prosperity = v }
}

func Morale(v float64) ArmyOption { return func(a *world.ArmyData) { a.Morale = v } }
func Supply(v float64) ArmyOption { return func(a *world.ArmyData) { a.Supply = v } }
func Home(region world.ID) ArmyOption {
	return func(a *world.ArmyData) { a.HomeRegion = region }
}
func StartingStrength(v uint32) ArmyOption {
	return func(a *world.ArmyData) { a.StartingStrength = v }
}

func (b *Builder) add(e *world.Entity) world.ID {
	if b.err != nil {
		return 0
	}
	return b.w.AddEntity(e)
}

func (b *Builder) relate(src, dst world.ID, kind world.RelKind) {
	if b.err != nil {
		return
	}
	if err := b.w.AddRelationship(src, dst, kind, 0); err != nil {
		b.err = fmt.Errorf("scenario: %w", err)
	}
}

func (b *Builder) mutual(x, y world.ID, kind world.RelKind) {
	if b.err != nil {
		return
	}
	if err := b.w.AddMutual(x, y, kind, 0); err != nil {
		b.err = fmt.Errorf("scenario: %w", err)
	}
}

// Region adds a region.
func (b *Builder) Region(name string, terrain world.Terrain) world.ID {
	return b.add(&world.Entity{
		Kind:   world.KindRegion,
		Name:   name,
		Region: &world.RegionData{Terrain: terrain},
	})
}

// RegionAt adds a region with a grid coordinate.
func (b *Builder) RegionAt(name string, terrain world.Terrain, coord world.HexCoord) world.ID {
	return b.add(&world.Entity{
		Kind:   world.KindRegion,
		Name:   name,
		Region: &world.RegionData{Terrain: terrain, Coord: coord},
	})
}

// Adjacent links two regions both ways.
func (b *Builder) Adjacent(x, y world.ID) {
	b.mutual(x, y, world.RelAdjacentTo)
}

// Faction adds a faction. Defaults: stability, prestige and legitimacy 0.5,
// treasury 100.
func (b *Builder) Faction(name string, opts ...FactionOption) world.ID {
	fd := &world.FactionData{
		Stability:  0.5,
		Prestige:   0.5,
		Legitimacy: 0.5,
		Treasury:   100,
	}
	for _, o := range opts {
		o(fd)
	}
	return b.add(&world.Entity{Kind: world.KindFaction, Name: name, Faction: fd})
}

// Settlement adds a settlement of pop people owned by faction in region.
// Defaults: prosperity 0.5, fortification 2.
func (b *Builder) Settlement(name string, faction, region world.ID, pop uint32, opts ...SettlementOption) world.ID {
	sd := &world.SettlementData{
		Breakdown:     world.BreakdownFromTotal(pop),
		Prosperity:    0.5,
		Fortification: 2,
	}
	sd.Population = sd.Breakdown.Total()
	for _, o := range opts {
		o(sd)
	}
	id := b.add(&world.Entity{Kind: world.KindSettlement, Name: name, Settlement: sd})
	b.relate(id, faction, world.RelMemberOf)
	b.relate(id, region, world.RelLocatedIn)
	return id
}

// Army adds an army of strength troops in region. Defaults: morale 1,
// supply 3, home region = region, starting strength = strength.
func (b *Builder) Army(name string, faction, region world.ID, strength uint32, opts ...ArmyOption) world.ID {
	ad := &world.ArmyData{
		Strength:         strength,
		StartingStrength: strength,
		Morale:           1,
		Supply:           3,
		Faction:          faction,
		HomeRegion:       region,
	}
	for _, o := range opts {
		o(ad)
	}
	id := b.add(&world.Entity{Kind: world.KindArmy, Name: name, Army: ad})
	b.relate(id, faction, world.RelMemberOf)
	b.relate(id, region, world.RelLocatedIn)
	return id
}

// Person adds a person of role belonging to faction, located at location
// (a settlement or region; 0 for nowhere).
func (b *Builder) Person(name string, faction, location world.ID, role world.Role, traits ...world.Trait) world.ID {
	id := b.add(&world.Entity{
		Kind:   world.KindPerson,
		Name:   name,
		Person: &world.PersonData{Role: role, Prestige: 0.3, Traits: traits},
	})
	b.relate(id, faction, world.RelMemberOf)
	if location != 0 {
		b.relate(id, location, world.RelLocatedIn)
	}
	return id
}

// Leader makes person the leader of faction.
func (b *Builder) Leader(person, faction world.ID) {
	b.relate(person, faction, world.RelLeaderOf)
}

// Enemies marks two factions as hostile.
func (b *Builder) Enemies(x, y world.ID) {
	b.mutual(x, y, world.RelEnemy)
}

// Allies marks two factions as allied.
func (b *Builder) Allies(x, y world.ID) {
	b.mutual(x, y, world.RelAlly)
}

// Treaty links two factions with a peace treaty.
func (b *Builder) Treaty(x, y world.ID) {
	b.mutual(x, y, world.RelTreatyWith)
}

// War puts two factions at war since startYear, with no stored war goals.
func (b *Builder) War(x, y world.ID, startYear uint32) {
	b.mutual(x, y, world.RelAtWar)
	if b.err != nil {
		return
	}
	for _, id := range []world.ID{x, y} {
		if fd := b.w.Faction(id); fd != nil {
			year := startYear
			fd.WarStarted = &year
		}
	}
}

// WarGoal stores the goal attacker fights for against defender.
func (b *Builder) WarGoal(attacker, defender world.ID, goal world.WarGoal) {
	if b.err != nil {
		return
	}
	fd := b.w.Faction(attacker)
	if fd == nil {
		b.err = fmt.Errorf("scenario: war goal for %d: %w", attacker, world.ErrNotFound)
		return
	}
	if fd.WarGoals == nil {
		fd.WarGoals = make(map[world.ID]world.WarGoal)
	}
	fd.WarGoals[defender] = goal
}

// Tribute records that payer owes payee amount per year for years.
func (b *Builder) Tribute(payer, payee world.ID, amount float64, years uint32) {
	if b.err != nil {
		return
	}
	fd := b.w.Faction(payer)
	if fd == nil {
		b.err = fmt.Errorf("scenario: tribute from %d: %w", payer, world.ErrNotFound)
		return
	}
	if fd.Tributes == nil {
		fd.Tributes = make(map[world.ID]world.TributeObligation)
	}
	fd.Tributes[payee] = world.TributeObligation{Amount: amount, YearsRemaining: years}
	b.relate(payer, payee, world.RelTributeTo)
}

// Besiege opens a siege of settlement by army with months already elapsed.
func (b *Builder) Besiege(army, settlement world.ID, months uint32) {
	if b.err != nil {
		return
	}
	ad := b.w.Army(army)
	sd := b.w.Settlement(settlement)
	if ad == nil || sd == nil {
		b.err = fmt.Errorf("scenario: siege %d by %d: %w", settlement, army, world.ErrNotFound)
		return
	}
	sd.Siege = &world.ActiveSiege{
		AttackerArmy:    army,
		AttackerFaction: ad.Faction,
		Started:         b.w.Now,
		MonthsElapsed:   months,
	}
	target := settlement
	ad.Besieging = &target
}

// World returns the world under construction.
func (b *Builder) World() *world.World {
	return b.w
}

// Build returns the finished world, or the first error hit while building.
func (b *Builder) Build() (*world.World, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.w, nil
}

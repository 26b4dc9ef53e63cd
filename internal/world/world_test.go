package world

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
)

func newRegion(w *World, name string, t Terrain) ID {
	return w.AddEntity(&Entity{Kind: KindRegion, Name: name, Region: &RegionData{Terrain: t}})
}

func link(t *testing.T, w *World, a, b ID) {
	t.Helper()
	if err := w.AddMutual(a, b, RelAdjacentTo, 0); err != nil {
		t.Fatalf("link %d-%d: %v", a, b, err)
	}
}

func TestInsertEntityDuplicate(t *testing.T) {
	w := New(YearStart(1))
	if err := w.InsertEntity(&Entity{ID: 5, Kind: KindFaction, Name: "A"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := w.InsertEntity(&Entity{ID: 5, Kind: KindFaction, Name: "B"})
	if !errors.Is(err, ErrDuplicateEntity) {
		t.Fatalf("second insert err = %v, want ErrDuplicateEntity", err)
	}
	if got := w.AddEntity(&Entity{Kind: KindFaction, Name: "C"}); got != 6 {
		t.Errorf("next allocated id = %d, want 6", got)
	}
}

func TestLivingIsOrderedByID(t *testing.T) {
	w := New(YearStart(1))
	for _, id := range []ID{9, 3, 7, 1} {
		if err := w.InsertEntity(&Entity{ID: id, Kind: KindFaction}); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.EndEntity(7, 0); err != nil {
		t.Fatal(err)
	}

	var got []ID
	for _, e := range w.Living(KindFaction) {
		got = append(got, e.ID)
	}
	if want := []ID{1, 3, 9}; !slices.Equal(got, want) {
		t.Errorf("Living = %v, want %v", got, want)
	}
}

func TestEndEntityTwice(t *testing.T) {
	w := New(YearStart(1))
	id := w.AddEntity(&Entity{Kind: KindArmy, Army: &ArmyData{}})
	if err := w.EndEntity(id, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.EndEntity(id, 0); !errors.Is(err, ErrEnded) {
		t.Errorf("second end err = %v, want ErrEnded", err)
	}
	if err := w.EndEntity(999, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing end err = %v, want ErrNotFound", err)
	}
}

func TestMutualRelationsStaySymmetric(t *testing.T) {
	w := New(YearStart(1))
	a := w.AddEntity(&Entity{Kind: KindFaction, Faction: &FactionData{}})
	b := w.AddEntity(&Entity{Kind: KindFaction, Faction: &FactionData{}})

	if err := w.AddMutual(a, b, RelAtWar, 0); err != nil {
		t.Fatal(err)
	}
	if !w.HasRelation(a, b, RelAtWar) || !w.HasRelation(b, a, RelAtWar) {
		t.Fatal("at_war not present in both directions")
	}
	if !w.EndMutual(a, b, RelAtWar, 0) {
		t.Fatal("EndMutual reported nothing ended")
	}
	if w.HasRelation(a, b, RelAtWar) || w.HasRelation(b, a, RelAtWar) {
		t.Fatal("at_war still active after EndMutual")
	}

	// Rejected up front: neither side is written.
	if err := w.AddMutual(a, 404, RelAlly, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if w.HasRelation(a, 404, RelAlly) {
		t.Error("half-written ally relation")
	}
}

func TestAddRelationshipIsIdempotent(t *testing.T) {
	w := New(YearStart(1))
	a := w.AddEntity(&Entity{Kind: KindArmy})
	r := newRegion(w, "r", TerrainPlains)
	for range 3 {
		if err := w.AddRelationship(a, r, RelLocatedIn, 0); err != nil {
			t.Fatal(err)
		}
	}
	if n := len(w.Entity(a).Rels); n != 1 {
		t.Errorf("relationships = %d, want 1", n)
	}
}

func TestEndAllRelationships(t *testing.T) {
	w := New(YearStart(1))
	f := w.AddEntity(&Entity{Kind: KindFaction})
	p := w.AddEntity(&Entity{Kind: KindPerson, Person: &PersonData{}})
	if err := w.AddRelationship(p, f, RelMemberOf, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.AddRelationship(p, f, RelLeaderOf, 0); err != nil {
		t.Fatal(err)
	}

	w.EndAllRelationships(p, 0)
	if _, ok := w.Entity(p).ActiveRel(RelMemberOf); ok {
		t.Error("member_of still active")
	}
	if _, ok := w.Entity(p).ActiveRel(RelLeaderOf); ok {
		t.Error("leader_of still active")
	}
}

func TestBFS(t *testing.T) {
	// a - b - c - d, with a water shortcut a - sea - d.
	w := New(YearStart(1))
	a := newRegion(w, "a", TerrainPlains)
	b := newRegion(w, "b", TerrainForest)
	c := newRegion(w, "c", TerrainHills)
	d := newRegion(w, "d", TerrainPlains)
	sea := newRegion(w, "sea", TerrainOcean)
	link(t, w, a, b)
	link(t, w, b, c)
	link(t, w, c, d)
	link(t, w, a, sea)
	link(t, w, sea, d)

	tests := []struct {
		name       string
		start, end ID
		want       ID
		ok         bool
	}{
		{"skips water", a, d, b, true},
		{"one hop", c, d, d, true},
		{"same region", a, a, 0, false},
		{"into water", a, sea, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.BFSNextStep(tt.start, tt.end)
			if got != tt.want || ok != tt.ok {
				t.Errorf("BFSNextStep(%d, %d) = %d, %v; want %d, %v", tt.start, tt.end, got, ok, tt.want, tt.ok)
			}
		})
	}

	if got, ok := w.BFSNearest(a, func(id ID) bool { return id == a }); !ok || got != a {
		t.Errorf("BFSNearest includes start: got %d, %v", got, ok)
	}
	if got, ok := w.BFSNearest(a, func(id ID) bool { return id == c || id == d }); !ok || got != c {
		t.Errorf("BFSNearest = %d, %v; want %d", got, ok, c)
	}
	if _, ok := w.BFSNearest(a, func(id ID) bool { return id == sea }); ok {
		t.Error("BFSNearest entered water")
	}
}

func TestEventsAndFingerprint(t *testing.T) {
	w := New(YearStart(3))
	first := w.AddEvent(EventWarDeclared, "war")
	w.Now = w.Now.Next()
	second := w.AddCausedEvent(EventBattle, "battle", first)
	w.AddParticipant(second, 42, RoleAttacker)

	ev := w.Event(second)
	if ev.CausedBy == nil || *ev.CausedBy != first {
		t.Errorf("CausedBy = %v, want %d", ev.CausedBy, first)
	}
	if !ev.HasParticipant(42, RoleAttacker) {
		t.Error("participant missing")
	}
	want := []string{"Y3 M01 war_declared", "Y3 M02 battle"}
	if got := w.EventKinds(); !slices.Equal(got, want) {
		t.Errorf("EventKinds = %v, want %v", got, want)
	}
	if got := w.EventsSince(first); len(got) != 1 || got[0].ID != second {
		t.Errorf("EventsSince = %v", got)
	}
}

func TestTimestamp(t *testing.T) {
	ts := Timestamp{Year: 1, Month: 12}
	next := ts.Next()
	if next != YearStart(2) || !next.IsYearStart() {
		t.Errorf("Next = %v, want Y2 M01", next)
	}
	if !ts.Before(next) || next.Before(ts) {
		t.Error("Before ordering wrong")
	}
	if got := YearStart(10).YearsSince(YearStart(4)); got != 6 {
		t.Errorf("YearsSince = %d, want 6", got)
	}
	if got := YearStart(4).YearsSince(YearStart(10)); got != 0 {
		t.Errorf("YearsSince backwards = %d, want 0", got)
	}
}

func TestBreakdown(t *testing.T) {
	b := BreakdownFromTotal(1001)
	if got := b.Total(); got != 1001 {
		t.Fatalf("Total = %d, want 1001", got)
	}

	before := b.AbleBodiedMen()
	taken := b.Draft(100)
	if taken != 100 {
		t.Errorf("Draft took %d, want 100", taken)
	}
	if got := b.AbleBodiedMen(); got != before-100 {
		t.Errorf("able-bodied after draft = %d, want %d", got, before-100)
	}

	b.Restore(51)
	if got := b.Total(); got != 1001-100+51 {
		t.Errorf("Total after restore = %d", got)
	}

	b.ScaleTo(500)
	if got := b.Total(); got != 500 {
		t.Errorf("Total after scale = %d, want 500", got)
	}
}

func TestDraftCapsAtAvailable(t *testing.T) {
	var b Breakdown
	b.Male[YoungAdult] = 3
	b.Male[MiddleAge] = 2
	if got := b.Draft(50); got != 5 {
		t.Errorf("Draft = %d, want 5", got)
	}
	if b.AbleBodiedMen() != 0 {
		t.Errorf("able-bodied left = %d", b.AbleBodiedMen())
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultGenConfig()
	cfg.Seed = 42
	m1, m2 := Generate(cfg), Generate(cfg)

	if len(m1.Hexes) != len(m2.Hexes) {
		t.Fatalf("hex counts differ: %d vs %d", len(m1.Hexes), len(m2.Hexes))
	}
	// 3R(R+1)+1 hexes in a radius-R grid.
	if want := 3*cfg.Radius*(cfg.Radius+1) + 1; len(m1.Hexes) != want {
		t.Errorf("hexes = %d, want %d", len(m1.Hexes), want)
	}
	for _, c := range m1.Coords() {
		if m1.Get(c).Terrain != m2.Get(c).Terrain {
			t.Fatalf("terrain differs at %v", c)
		}
	}

	s1 := PlaceSites(m1, rand.New(rand.NewPCG(1, 2)), 4, 3)
	s2 := PlaceSites(m2, rand.New(rand.NewPCG(1, 2)), 4, 3)
	if !slices.Equal(s1, s2) {
		t.Errorf("sites differ: %v vs %v", s1, s2)
	}
	for i, a := range s1 {
		for _, b := range s1[i+1:] {
			if Distance(a.Coord, b.Coord) < 3 {
				t.Errorf("sites %v and %v closer than 3", a.Coord, b.Coord)
			}
		}
	}
}

func TestExtraRecordsChanges(t *testing.T) {
	w := New(YearStart(1))
	id := w.AddEntity(&Entity{Kind: KindArmy, Army: &ArmyData{}})

	w.SetExtra(id, "campaign_target", ID(4), 7)
	w.SetExtra(id, "campaign_target", ID(5), 8)
	w.RemoveExtra(id, "campaign_target", 9)
	w.RemoveExtra(id, "campaign_target", 10)
	w.SetExtra(999, "campaign_target", ID(1), 11)

	if _, ok := w.Entity(id).Extra["campaign_target"]; ok {
		t.Error("key survived removal")
	}
	want := []Change{
		{Entity: id, Event: 7, Field: "campaign_target", Old: nil, New: ID(4)},
		{Entity: id, Event: 8, Field: "campaign_target", Old: ID(4), New: ID(5)},
		{Entity: id, Event: 9, Field: "campaign_target", Old: ID(5), New: nil},
	}
	if got := w.Changes(); !slices.Equal(got, want) {
		t.Errorf("changes = %+v, want %+v", got, want)
	}
}

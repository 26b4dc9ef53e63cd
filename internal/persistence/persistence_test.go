package persistence

import (
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"github.com/talgya/warfront/internal/conflict"
	"github.com/talgya/warfront/internal/engine"
	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/scenario"
	"github.com/talgya/warfront/internal/world"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func warWorld(t *testing.T) *world.World {
	t.Helper()
	b := scenario.New(1)
	r1 := b.Region("West", world.TerrainPlains)
	r2 := b.Region("East", world.TerrainHills)
	b.Adjacent(r1, r2)
	x := b.Faction("Crown", scenario.Stability(0.2))
	y := b.Faction("League")
	b.Settlement("Seat", x, r1, 1500)
	b.Settlement("Port", y, r2, 1500)
	b.Enemies(x, y)
	w, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestRecordTickRoundTrip(t *testing.T) {
	db := openTestDB(t)
	w := warWorld(t)
	run, err := db.StartRun(42, w.Now)
	if err != nil {
		t.Fatal(err)
	}

	tuning := conflict.DefaultTuning()
	tuning.DeclarationChance = 100
	r := engine.NewRunner(w, entropy.New(42), slog.New(slog.NewTextHandler(io.Discard, nil)), conflict.New(tuning))

	signals := 0
	for range 24 {
		report := r.Step()
		signals += len(report.Signals)
		if err := db.RecordTick(run, report); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.FinishRun(run, w); err != nil {
		t.Fatal(err)
	}

	got, err := db.EventKinds(run)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, w.EventKinds()) {
		t.Errorf("stored kinds differ from world:\n got %v\nwant %v", got, w.EventKinds())
	}

	delivered, _, err := db.SignalCount(run)
	if err != nil {
		t.Fatal(err)
	}
	if delivered != signals || signals == 0 {
		t.Errorf("delivered signals = %d, want %d (> 0)", delivered, signals)
	}

	recent, err := db.RecentEvents(run, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != min(3, len(w.Events())) || recent[0].EventID != uint64(len(w.Events())) {
		t.Errorf("recent = %+v", recent)
	}
}

func TestRunsAreSeparate(t *testing.T) {
	db := openTestDB(t)
	a, err := db.StartRun(1, world.YearStart(1))
	if err != nil {
		t.Fatal(err)
	}
	b, err := db.StartRun(1, world.YearStart(1))
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatal("runs share an ID")
	}

	w := world.New(world.YearStart(1))
	ev := w.AddEvent(world.EventWorldGenerated, "a world")
	report := engine.TickReport{Time: w.Now, Events: []*world.Event{w.Event(ev)}}
	if err := db.RecordTick(a, report); err != nil {
		t.Fatal(err)
	}

	kinds, err := db.EventKinds(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(kinds) != 0 {
		t.Errorf("run b sees %v", kinds)
	}
}

func TestSaveChangesRejectsUnencodableValue(t *testing.T) {
	db := openTestDB(t)
	run, err := db.StartRun(3, world.YearStart(1))
	if err != nil {
		t.Fatal(err)
	}
	changes := []world.Change{
		{Entity: 1, Event: 1, Field: "strength", Old: uint32(10), New: uint32(8)},
		{Entity: 2, Event: 1, Field: "orders", New: make(chan int)},
	}
	if err := db.SaveChanges(run, changes); err == nil {
		t.Fatal("expected an encode error")
	}

	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM changes WHERE run_id = ?", run.ID.String()); err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("stored %d changes from a failed batch", n)
	}
}

func TestMeta(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveMeta("last_seed", "7"); err != nil {
		t.Fatal(err)
	}
	if err := db.SaveMeta("last_seed", "8"); err != nil {
		t.Fatal(err)
	}
	got, err := db.GetMeta("last_seed")
	if err != nil {
		t.Fatal(err)
	}
	if got != "8" {
		t.Errorf("meta = %q, want 8", got)
	}
}

func TestExportJSONL(t *testing.T) {
	w, err := scenario.Generate(scenario.GenConfig{Seed: 9, Factions: 2, Radius: 5})
	if err != nil {
		t.Fatal(err)
	}
	path := ExportPath(filepath.Join(t.TempDir(), "out"), Run{Seed: 9})
	if err := ExportJSONL(path, w); err != nil {
		t.Fatal(err)
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := w.Len() + len(w.Events()); len(records) != want {
		t.Fatalf("records = %d, want %d", len(records), want)
	}

	first := records[0]
	if first.Type != "entity" || first.Entity == nil || first.Entity.ID != w.All()[0].ID {
		t.Errorf("first record = %+v", first)
	}
	last := records[len(records)-1]
	if last.Type != "event" || last.Event == nil || last.Event.Kind != world.EventWorldGenerated {
		t.Errorf("last record = %+v", last)
	}

	rels := 0
	for _, r := range records {
		rels += len(r.Relationships)
	}
	if rels == 0 {
		t.Error("no relationships exported")
	}
}

package engine

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/world"
)

// emitter emits one WarStarted per tick and counts its runs.
type emitter struct {
	freq  Frequency
	ticks int
}

func (e *emitter) Name() string         { return "emitter" }
func (e *emitter) Frequency() Frequency { return e.freq }
func (e *emitter) Tick(ctx *TickContext) {
	e.ticks++
	id := ctx.World.AddEvent(world.EventWarDeclared, "war")
	ctx.Emit(id, WarStarted{Attacker: 1, Defender: 2})
}

// reactor records what it receives and emits a reaction per signal.
type reactor struct {
	received [][]Signal
}

func (r *reactor) Name() string          { return "reactor" }
func (r *reactor) Frequency() Frequency  { return Monthly }
func (r *reactor) Tick(ctx *TickContext) {}
func (r *reactor) HandleSignals(ctx *TickContext) {
	r.received = append(r.received, ctx.Inbox)
	for _, s := range ctx.Inbox {
		ctx.Emit(s.EventID, TreasuryDepleted{Faction: 1})
	}
}

func newTestRunner(systems ...System) *Runner {
	return NewRunner(world.New(world.YearStart(1)), entropy.New(1), nil, systems...)
}

func TestHandlerEmissionsAreNotRedelivered(t *testing.T) {
	em := &emitter{freq: Monthly}
	re := &reactor{}
	r := newTestRunner(em, re)

	report := r.Step()
	if len(report.Signals) != 1 {
		t.Fatalf("delivered %d signals, want 1", len(report.Signals))
	}
	if len(report.Deferred) != 1 {
		t.Fatalf("deferred %d signals, want 1", len(report.Deferred))
	}
	if len(re.received) != 1 || len(re.received[0]) != 1 {
		t.Fatalf("reactor received %v", re.received)
	}
	if _, ok := re.received[0][0].Payload.(WarStarted); !ok {
		t.Errorf("reactor saw %T, want WarStarted", re.received[0][0].Payload)
	}

	// Next tick starts with empty buffers.
	report = r.Step()
	if len(report.Signals) != 1 || len(report.Deferred) != 1 {
		t.Errorf("second tick signals=%d deferred=%d, want 1/1", len(report.Signals), len(report.Deferred))
	}
}

func TestYearlySystemsRunOnYearStart(t *testing.T) {
	em := &emitter{freq: Yearly}
	r := newTestRunner(em)
	for range 25 {
		r.Step()
	}
	// Y1 M01, Y2 M01, Y3 M01.
	if em.ticks != 3 {
		t.Errorf("yearly ticks = %d, want 3", em.ticks)
	}
	if r.World.Now != (world.Timestamp{Year: 3, Month: 2}) {
		t.Errorf("now = %v, want Y3 M02", r.World.Now)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newTestRunner(&emitter{})
	ctx, cancel := context.WithCancel(context.Background())
	r.OnTick = func(rep TickReport) {
		if rep.Time.Month == 3 {
			cancel()
		}
	}
	err := r.Run(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if r.Ticks != 3 {
		t.Errorf("ticks = %d, want 3", r.Ticks)
	}
}

func TestRunBatchKeepsSeedOrder(t *testing.T) {
	seeds := []uint64{5, 1, 9, 3}
	build := func(seed uint64) (*Runner, error) {
		r := NewRunner(world.New(world.YearStart(1)), entropy.New(seed), nil, &emitter{})
		return r, nil
	}
	results, err := RunBatch(context.Background(), seeds, 6, 4, build)
	if err != nil {
		t.Fatal(err)
	}
	var got []uint64
	for _, res := range results {
		got = append(got, res.Seed)
		if res.Events != 6 {
			t.Errorf("seed %d: events = %d, want 6", res.Seed, res.Events)
		}
	}
	if !slices.Equal(got, seeds) {
		t.Errorf("result seeds = %v, want %v", got, seeds)
	}
}

func TestRunBatchBuildError(t *testing.T) {
	boom := errors.New("boom")
	_, err := RunBatch(context.Background(), []uint64{1}, 1, 1, func(uint64) (*Runner, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestSimTime(t *testing.T) {
	if got := SimTime(world.YearStart(4)); got != "Deepwinter, Year 4" {
		t.Errorf("SimTime = %q", got)
	}
}

// Package engine provides the monthly tick loop: it steps each system in a
// fixed order against one world, then delivers the tick's signals.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/world"
)

// TickReport summarizes one completed tick.
type TickReport struct {
	Time     world.Timestamp
	Events   []*world.Event // events appended during the tick
	Signals  []Signal       // delivered to handlers
	Deferred []Signal       // emitted by handlers, not delivered
}

// Runner drives a world forward one month at a time.
type Runner struct {
	World   *world.World
	Rand    *entropy.Source
	Log     *slog.Logger
	Systems []System

	// OnTick is called after every tick, once signals have been dispatched.
	OnTick func(r TickReport)

	Ticks uint64 // completed ticks

	dispatch Dispatcher
}

// NewRunner creates a runner. Systems tick in the order given.
func NewRunner(w *world.World, rng *entropy.Source, log *slog.Logger, systems ...System) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		World:   w,
		Rand:    rng,
		Log:     log,
		Systems: systems,
	}
}

// Step advances the world by one month.
func (r *Runner) Step() TickReport {
	now := r.World.Now
	firstEvent := world.ID(len(r.World.Events()))
	r.dispatch.Reset()

	for _, sys := range r.Systems {
		if sys.Frequency() == Yearly && !now.IsYearStart() {
			continue
		}
		ctx := r.context(sys.Name(), now)
		r.dispatch.bindSystem(ctx)
		sys.Tick(ctx)
	}

	for _, sys := range r.Systems {
		h, ok := sys.(SignalHandler)
		if !ok {
			continue
		}
		ctx := r.context(sys.Name(), now)
		r.dispatch.bindHandler(ctx)
		h.HandleSignals(ctx)
	}

	report := TickReport{
		Time:     now,
		Events:   r.World.EventsSince(firstEvent),
		Signals:  r.dispatch.Primary(),
		Deferred: r.dispatch.Deferred(),
	}
	r.Ticks++
	r.World.Now = now.Next()

	if r.OnTick != nil {
		r.OnTick(report)
	}
	return report
}

// Run steps the world for months ticks. The context is checked between ticks
// only; a tick in progress always completes.
func (r *Runner) Run(ctx context.Context, months int) error {
	r.Log.Info("simulation started", "time", r.World.Now, "months", months, "seed", r.Rand.Seed())
	for i := 0; i < months; i++ {
		if err := ctx.Err(); err != nil {
			r.Log.Info("simulation stopped", "time", r.World.Now, "ticks", r.Ticks)
			return fmt.Errorf("run stopped at %s: %w", r.World.Now, err)
		}
		r.Step()
	}
	r.Log.Info("simulation finished", "time", r.World.Now, "ticks", r.Ticks, "events", len(r.World.Events()))
	return nil
}

func (r *Runner) context(system string, now world.Timestamp) *TickContext {
	return &TickContext{
		World: r.World,
		Rand:  r.Rand,
		Log:   r.Log.With("system", system),
		Time:  now,
	}
}

// SimTime returns a human-readable simulation time.
func SimTime(t world.Timestamp) string {
	return fmt.Sprintf("%s, Year %d", monthNames[(t.Month+11)%12], t.Year)
}

var monthNames = [12]string{
	"Deepwinter", "Thaw", "Sowing", "Rain", "Bloom", "Highsun",
	"Harvest", "Reaping", "Leaffall", "Frost", "Longnight", "Yearsend",
}

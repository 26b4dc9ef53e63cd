package engine

import (
	"log/slog"

	"github.com/talgya/warfront/internal/entropy"
	"github.com/talgya/warfront/internal/world"
)

// Frequency says how often a system runs.
type Frequency uint8

const (
	Monthly Frequency = iota // every tick
	Yearly                   // first month of each year
)

// TickContext is what a system sees during one tick: exclusive access to the
// world, the run's random source, a scoped logger, and the signal buffers.
type TickContext struct {
	World *world.World
	Rand  *entropy.Source
	Log   *slog.Logger
	Time  world.Timestamp

	// Inbox holds signals delivered to handlers. Empty while systems tick.
	Inbox []Signal

	outbox *[]Signal
}

// Emit queues a signal. Signals emitted by systems reach handlers later in
// the same tick; signals emitted by handlers are recorded but not delivered.
func (c *TickContext) Emit(eventID world.ID, payload any) {
	if c.outbox == nil {
		return
	}
	*c.outbox = append(*c.outbox, Signal{EventID: eventID, Payload: payload})
	c.Log.Debug("signal", "kind", SignalKind(payload), "event", eventID)
}

// System is one domain stepped by the runner.
type System interface {
	Name() string
	Frequency() Frequency
	Tick(ctx *TickContext)
}

// SignalHandler is implemented by systems that react to other systems'
// signals after all systems have ticked.
type SignalHandler interface {
	HandleSignals(ctx *TickContext)
}

package engine

// Dispatcher owns the two signal buffers of a tick. Systems write into the
// first buffer. Handlers read the first buffer and write into the second,
// which is recorded for audit but never delivered, so reactions can't cascade.
type Dispatcher struct {
	primary  []Signal
	deferred []Signal
}

// Reset clears both buffers for a new tick.
func (d *Dispatcher) Reset() {
	d.primary = nil
	d.deferred = nil
}

// bindSystem points ctx's outbox at the primary buffer.
func (d *Dispatcher) bindSystem(ctx *TickContext) {
	ctx.Inbox = nil
	ctx.outbox = &d.primary
}

// bindHandler gives ctx a read-only copy of the primary buffer and points
// its outbox at the deferred buffer.
func (d *Dispatcher) bindHandler(ctx *TickContext) {
	ctx.Inbox = append([]Signal(nil), d.primary...)
	ctx.outbox = &d.deferred
}

// Primary returns the signals delivered this tick.
func (d *Dispatcher) Primary() []Signal {
	return d.primary
}

// Deferred returns the signals handlers emitted this tick.
func (d *Dispatcher) Deferred() []Signal {
	return d.deferred
}

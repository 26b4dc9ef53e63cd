package world

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrDuplicateEntity is returned when an entity is inserted with an ID
	// already present in the store.
	ErrDuplicateEntity = errors.New("duplicate entity id")
	// ErrNotFound is returned when a referenced entity doesn't exist.
	ErrNotFound = errors.New("entity not found")
	// ErrEnded is returned when mutating an entity that has already ended.
	ErrEnded = errors.New("entity already ended")
)

// World is the in-memory entity store. Iteration is always in ascending ID
// order so that every pass over the store is deterministic.
type World struct {
	Now Timestamp

	entities map[ID]*Entity
	order    []ID
	nextID   ID

	events  []*Event
	changes []Change
}

// New creates an empty world at the given time.
func New(now Timestamp) *World {
	return &World{
		Now:      now,
		entities: make(map[ID]*Entity),
		nextID:   1,
	}
}

// Entity returns the entity with id, or nil.
func (w *World) Entity(id ID) *Entity {
	return w.entities[id]
}

// Len returns the number of entities ever created, living or ended.
func (w *World) Len() int {
	return len(w.order)
}

// All returns every entity in ascending ID order.
func (w *World) All() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// Living returns the living entities of kind in ascending ID order.
func (w *World) Living(kind Kind) []*Entity {
	var out []*Entity
	for _, id := range w.order {
		e := w.entities[id]
		if e.Kind == kind && e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// Faction returns the faction payload of id, or nil.
func (w *World) Faction(id ID) *FactionData {
	if e := w.entities[id]; e != nil {
		return e.Faction
	}
	return nil
}

// Settlement returns the settlement payload of id, or nil.
func (w *World) Settlement(id ID) *SettlementData {
	if e := w.entities[id]; e != nil {
		return e.Settlement
	}
	return nil
}

// Army returns the army payload of id, or nil.
func (w *World) Army(id ID) *ArmyData {
	if e := w.entities[id]; e != nil {
		return e.Army
	}
	return nil
}

// Region returns the region payload of id, or nil.
func (w *World) Region(id ID) *RegionData {
	if e := w.entities[id]; e != nil {
		return e.Region
	}
	return nil
}

// Name returns the entity's name, or a placeholder for unknown IDs.
func (w *World) Name(id ID) string {
	if e := w.entities[id]; e != nil {
		return e.Name
	}
	return fmt.Sprintf("#%d", id)
}

// IsAlive reports whether id exists and has not ended.
func (w *World) IsAlive(id ID) bool {
	e := w.entities[id]
	return e != nil && e.Alive()
}

// InsertEntity stores a fully formed entity under its own ID.
// Used by world generation and fixtures; tick code uses AddEntity.
func (w *World) InsertEntity(e *Entity) error {
	if e.ID == 0 {
		return fmt.Errorf("insert %s %q: zero id", e.Kind, e.Name)
	}
	if _, ok := w.entities[e.ID]; ok {
		return fmt.Errorf("insert %s %q (id %d): %w", e.Kind, e.Name, e.ID, ErrDuplicateEntity)
	}
	w.entities[e.ID] = e
	idx, _ := slices.BinarySearch(w.order, e.ID)
	w.order = slices.Insert(w.order, idx, e.ID)
	if e.ID >= w.nextID {
		w.nextID = e.ID + 1
	}
	return nil
}

// AddEntity allocates a fresh ID for e, stamps its origin, and stores it.
func (w *World) AddEntity(e *Entity) ID {
	e.ID = w.nextID
	e.Origin = w.Now
	// A fresh ID can't collide.
	_ = w.InsertEntity(e)
	return e.ID
}

// EndEntity marks id as ended at the current time.
func (w *World) EndEntity(id ID, event ID) error {
	e := w.entities[id]
	if e == nil {
		return fmt.Errorf("end %d: %w", id, ErrNotFound)
	}
	if !e.Alive() {
		return fmt.Errorf("end %s %q: %w", e.Kind, e.Name, ErrEnded)
	}
	now := w.Now
	e.End = &now
	w.RecordChange(id, event, "end", nil, now)
	return nil
}

// AddRelationship adds an active edge src -> dst. Adding an edge that is
// already active is a no-op.
func (w *World) AddRelationship(src, dst ID, kind RelKind, event ID) error {
	e := w.entities[src]
	if e == nil {
		return fmt.Errorf("relate %d -%s-> %d: %w", src, kind, dst, ErrNotFound)
	}
	if w.entities[dst] == nil {
		return fmt.Errorf("relate %d -%s-> %d: %w", src, kind, dst, ErrNotFound)
	}
	if e.HasActiveRel(kind, dst) {
		return nil
	}
	e.Rels = append(e.Rels, &Relationship{Kind: kind, Target: dst, Start: w.Now})
	w.RecordChange(src, event, "rel+"+string(kind), nil, dst)
	return nil
}

// EndRelationship ends every active edge src -> dst of kind.
// Reports whether anything was ended.
func (w *World) EndRelationship(src, dst ID, kind RelKind, event ID) bool {
	e := w.entities[src]
	if e == nil {
		return false
	}
	ended := false
	for _, r := range e.Rels {
		if r.Kind == kind && r.Target == dst && r.Active() {
			now := w.Now
			r.End = &now
			ended = true
		}
	}
	if ended {
		w.RecordChange(src, event, "rel-"+string(kind), dst, nil)
	}
	return ended
}

// EndAllRelationships ends every active edge owned by id, and every active
// edge pointing at id from another entity.
func (w *World) EndAllRelationships(id ID, event ID) {
	e := w.entities[id]
	if e == nil {
		return
	}
	for _, r := range e.Rels {
		if r.Active() {
			w.EndRelationship(id, r.Target, r.Kind, event)
		}
	}
	for _, oid := range w.order {
		if oid == id {
			continue
		}
		other := w.entities[oid]
		for _, r := range other.Rels {
			if r.Target == id && r.Active() && r.Kind != RelAdjacentTo {
				w.EndRelationship(oid, id, r.Kind, event)
			}
		}
	}
}

// AddMutual adds kind in both directions between a and b. Both entities are
// validated before either edge is written, so the pair is never half-linked.
func (w *World) AddMutual(a, b ID, kind RelKind, event ID) error {
	ea, eb := w.entities[a], w.entities[b]
	if ea == nil || eb == nil {
		return fmt.Errorf("relate %d <-%s-> %d: %w", a, kind, b, ErrNotFound)
	}
	if !ea.Alive() || !eb.Alive() {
		return fmt.Errorf("relate %d <-%s-> %d: %w", a, kind, b, ErrEnded)
	}
	if err := w.AddRelationship(a, b, kind, event); err != nil {
		return err
	}
	return w.AddRelationship(b, a, kind, event)
}

// EndMutual ends kind in both directions between a and b.
// Reports whether either direction was active.
func (w *World) EndMutual(a, b ID, kind RelKind, event ID) bool {
	ab := w.EndRelationship(a, b, kind, event)
	ba := w.EndRelationship(b, a, kind, event)
	return ab || ba
}

// HasRelation reports whether a has an active kind edge to b.
func (w *World) HasRelation(a, b ID, kind RelKind) bool {
	e := w.entities[a]
	return e != nil && e.HasActiveRel(kind, b)
}

// RecordChange appends an audit entry for a field mutation.
func (w *World) RecordChange(entity, event ID, field string, old, new any) {
	w.changes = append(w.changes, Change{
		Entity: entity,
		Event:  event,
		Field:  field,
		Old:    old,
		New:    new,
	})
}

// SetExtra attaches keyed metadata to an entity.
func (w *World) SetExtra(id ID, key string, value any, event ID) {
	e := w.entities[id]
	if e == nil {
		return
	}
	if e.Extra == nil {
		e.Extra = make(map[string]any)
	}
	old := e.Extra[key]
	e.Extra[key] = value
	w.RecordChange(id, event, key, old, value)
}

// RemoveExtra deletes keyed metadata from an entity.
func (w *World) RemoveExtra(id ID, key string, event ID) {
	e := w.entities[id]
	if e == nil || e.Extra == nil {
		return
	}
	old, ok := e.Extra[key]
	if !ok {
		return
	}
	delete(e.Extra, key)
	w.RecordChange(id, event, key, old, nil)
}

// AddEvent appends a narrative event at the current time.
func (w *World) AddEvent(kind EventKind, description string) ID {
	ev := &Event{
		ID:          ID(len(w.events) + 1),
		Kind:        kind,
		Time:        w.Now,
		Description: description,
	}
	w.events = append(w.events, ev)
	return ev.ID
}

// AddCausedEvent appends an event linked to the event that caused it.
func (w *World) AddCausedEvent(kind EventKind, description string, cause ID) ID {
	id := w.AddEvent(kind, description)
	w.events[id-1].CausedBy = &cause
	return id
}

// AddParticipant links an entity to an event.
func (w *World) AddParticipant(event, entity ID, role ParticipantRole) {
	if ev := w.Event(event); ev != nil {
		ev.Participants = append(ev.Participants, Participant{Entity: entity, Role: role})
	}
}

// SetEventData attaches structured data to an event.
func (w *World) SetEventData(event ID, data any) {
	if ev := w.Event(event); ev != nil {
		ev.Data = data
	}
}

// Event returns the event with id, or nil.
func (w *World) Event(id ID) *Event {
	if id == 0 || int(id) > len(w.events) {
		return nil
	}
	return w.events[id-1]
}

// Events returns every event in creation order.
func (w *World) Events() []*Event {
	return w.events
}

// EventsSince returns events with an ID greater than after.
func (w *World) EventsSince(after ID) []*Event {
	if int(after) >= len(w.events) {
		return nil
	}
	return w.events[after:]
}

// Changes returns the audit trail in write order.
func (w *World) Changes() []Change {
	return w.changes
}

// EventKinds returns "time kind" for every event in order. Two runs with the
// same seed produce identical slices.
func (w *World) EventKinds() []string {
	out := make([]string, len(w.events))
	for i, ev := range w.events {
		out[i] = ev.Time.String() + " " + string(ev.Kind)
	}
	return out
}

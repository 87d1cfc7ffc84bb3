package ecs

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
)

// record is one fighter slot. mask carries the Alive bit alongside the data kinds.
type record struct {
	id    AgentID
	mask  Mask
	agent Agent
}

// World is the in-process Store. Fighters live in a dense slice in creation
// order with an id index beside it, so presence checks are O(1) and filtered
// iteration is a single linear scan.
type World struct {
	index   map[AgentID]int
	records []record
	newID   func() AgentID
}

// NewWorld returns an empty World issuing random UUIDs.
func NewWorld() *World {
	return NewWorldWithIDs(uuid.New)
}

// NewWorldWithIDs returns an empty World that takes ids from gen.
//
// Precondition: gen never repeats an id.
func NewWorldWithIDs(gen func() AgentID) *World {
	return &World{
		index:   make(map[AgentID]int),
		records: make([]record, 0, 8),
		newID:   gen,
	}
}

// Spawn implements Store.
func (w *World) Spawn(a Agent) AgentID {
	id := w.newID()
	w.index[id] = len(w.records)
	w.records = append(w.records, record{id: id, mask: FullMask, agent: a})
	return id
}

func (w *World) lookup(id AgentID) (*record, bool) {
	i, ok := w.index[id]
	if !ok {
		return nil, false
	}
	return &w.records[i], true
}

// Get implements Store.
func (w *World) Get(id AgentID) (Agent, Mask, bool) {
	r, ok := w.lookup(id)
	if !ok {
		return Agent{}, 0, false
	}
	return project(r.agent, r.mask), r.mask, true
}

// Has implements Store.
func (w *World) Has(id AgentID, k Kind) bool {
	r, ok := w.lookup(id)
	return ok && r.mask.Has(k)
}

// Query implements Store.
func (w *World) Query(f Filter) iter.Seq2[AgentID, Agent] {
	return func(yield func(AgentID, Agent) bool) {
		for i := 0; i < len(w.records); i++ {
			r := w.records[i]
			if !f.Matches(r.mask) {
				continue
			}
			if !yield(r.id, project(r.agent, r.mask)) {
				return
			}
		}
	}
}

// QueryMut implements Store.
func (w *World) QueryMut(f Filter) iter.Seq2[AgentID, *Agent] {
	return func(yield func(AgentID, *Agent) bool) {
		for i := 0; i < len(w.records); i++ {
			if !f.Matches(w.records[i].mask) {
				continue
			}
			id, mask := w.records[i].id, w.records[i].mask
			view := project(w.records[i].agent, mask)
			cont := yield(id, &view)
			merge(&w.records[i].agent, view, mask)
			if !cont {
				return
			}
		}
	}
}

// Remove implements Store.
func (w *World) Remove(id AgentID, k Kind) error {
	r, ok := w.lookup(id)
	if !ok {
		return fmt.Errorf("removing %s from %s: %w", k, id, ErrNoSuchAgent)
	}
	if !r.mask.Has(k) {
		return fmt.Errorf("removing %s from %s: %w", k, id, ErrMissingAttribute)
	}
	r.mask = r.mask.Without(k)
	return nil
}

// Count implements Store.
func (w *World) Count(f Filter) int {
	n := 0
	for i := range w.records {
		if f.Matches(w.records[i].mask) {
			n++
		}
	}
	return n
}

// Len implements Store.
func (w *World) Len() int { return len(w.records) }

package ecs

import (
	"errors"
	"fmt"
	"iter"
)

// Backend names accepted by NewStore.
const (
	BackendNative  = "native"
	BackendDonburi = "donburi"
)

var (
	// ErrNoSuchAgent is returned when an id was never spawned in the store.
	ErrNoSuchAgent = errors.New("ecs: no such agent")
	// ErrMissingAttribute is returned when removing an attribute the agent does not carry.
	ErrMissingAttribute = errors.New("ecs: attribute not attached")
)

// Store holds fighters and their attributes.
//
// Iteration order is backend specific; callers must not depend on it for
// correctness. Stores are not safe for concurrent use.
type Store interface {
	// Spawn creates a fighter carrying every attribute plus Alive.
	Spawn(a Agent) AgentID
	// Get returns the fighter's attributes and the set of kinds it carries.
	Get(id AgentID) (Agent, Mask, bool)
	// Has reports in O(1) whether the fighter carries kind k.
	Has(id AgentID, k Kind) bool
	// Query yields a copy of every fighter matching f.
	Query(f Filter) iter.Seq2[AgentID, Agent]
	// QueryMut yields every fighter matching f for in-place modification.
	// Writes to attributes the fighter does not carry are discarded.
	QueryMut(f Filter) iter.Seq2[AgentID, *Agent]
	// Remove detaches one attribute from a fighter. The fighter itself is never deleted.
	Remove(id AgentID, k Kind) error
	// Count returns how many fighters match f.
	Count(f Filter) int
	// Len returns how many fighters were ever spawned.
	Len() int
}

// NewStore returns an empty store for the named backend.
func NewStore(backend string) (Store, error) {
	switch backend {
	case BackendNative, "":
		return NewWorld(), nil
	case BackendDonburi:
		return NewDonburiWorld(), nil
	default:
		return nil, fmt.Errorf("ecs: unknown backend %q", backend)
	}
}

// IsAlive reports whether id is still in play.
func IsAlive(s Store, id AgentID) bool {
	return s.Has(id, KindAlive)
}

// IsAliveRef reports whether r refers to a fighter still in play.
func IsAliveRef(s Store, r Ref) bool {
	id, ok := r.Get()
	return ok && IsAlive(s, id)
}

// LivingIDs returns the ids of every fighter still in play, in store order.
func LivingIDs(s Store) []AgentID {
	var ids []AgentID
	for id := range s.Query(Living) {
		ids = append(ids, id)
	}
	return ids
}

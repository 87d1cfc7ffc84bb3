// Package ecs holds the fighters and the attributes attached to them, behind a
// Store abstraction queried by attribute presence.
package ecs

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultHealth is the health every fighter starts with unless a roster overrides it.
const DefaultHealth uint32 = 10

// AgentID is the opaque, stable identity of a fighter.
type AgentID = uuid.UUID

// Ref is an optional reference to another fighter. The zero value refers to nobody.
type Ref struct {
	id    AgentID
	valid bool
}

// RefTo returns a Ref pointing at id.
func RefTo(id AgentID) Ref {
	return Ref{id: id, valid: true}
}

// Get returns the referenced id and whether the reference is set.
func (r Ref) Get() (AgentID, bool) {
	return r.id, r.valid
}

// IsSome reports whether r refers to a fighter.
func (r Ref) IsSome() bool { return r.valid }

// IsNone reports whether r refers to nobody.
func (r Ref) IsNone() bool { return !r.valid }

// Is reports whether r refers to id.
func (r Ref) Is(id AgentID) bool { return r.valid && r.id == id }

func (r Ref) String() string {
	if !r.valid {
		return "none"
	}
	return r.id.String()
}

// Action is what a fighter does during the current turn.
type Action int

const (
	Idle Action = iota
	Barks
	Snarls
	Attack
)

// Aggressions is the set a fighter with an enemy picks its action from.
var Aggressions = []Action{Barks, Snarls, Attack}

// String returns the lower-case action label.
func (a Action) String() string {
	switch a {
	case Idle:
		return "idle"
	case Barks:
		return "barks"
	case Snarls:
		return "snarls"
	case Attack:
		return "attack"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Agent is the attribute data of one fighter. Whether the fighter is alive is
// tracked by the Store, not by this struct.
type Agent struct {
	Name     string
	Health   uint32
	Action   Action
	Attacker Ref // last fighter that damaged this one
	Enemy    Ref // current target
	Damage   uint32
}

// NewAgent returns a fighter named name with default attributes.
func NewAgent(name string) Agent {
	return Agent{Name: name, Health: DefaultHealth, Action: Idle}
}

// TakeDamage reduces Health by amount, saturating at zero.
//
// Postcondition: Health never underflows.
func (a *Agent) TakeDamage(amount uint32) {
	if amount >= a.Health {
		a.Health = 0
		return
	}
	a.Health -= amount
}

// Package systems implements the per-turn fight systems. Each system runs to
// completion over the store before the next one starts.
package systems

import (
	"github.com/cory-johannsen/streetfight/internal/game/dice"
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
)

// ChooseEnemy recomputes every living fighter's Enemy in three passes:
//  1. an Enemy that is no longer alive is cleared;
//  2. a living Attacker becomes the Enemy, replacing any still-valid target;
//  3. fighters still without an Enemy get a random living fighter other than
//     themselves, or stay without one when nobody else is left.
//
// Postcondition: every living fighter's Enemy is none or a living fighter other than itself.
func ChooseEnemy(s ecs.Store, src dice.Source) {
	targets := ecs.LivingIDs(s)

	for id, a := range s.QueryMut(ecs.Living.And(ecs.KindEnemy)) {
		if a.Enemy.IsSome() && (!ecs.IsAliveRef(s, a.Enemy) || a.Enemy.Is(id)) {
			a.Enemy = ecs.Ref{}
		}
	}

	for id, a := range s.QueryMut(ecs.Living.And(ecs.KindEnemy, ecs.KindAttacker)) {
		if ecs.IsAliveRef(s, a.Attacker) && !a.Attacker.Is(id) {
			a.Enemy = a.Attacker
		}
	}

	for id, a := range s.QueryMut(ecs.Living.And(ecs.KindEnemy)) {
		if a.Enemy.IsSome() {
			continue
		}
		if target, ok := dice.Choose(src, others(targets, id)); ok {
			a.Enemy = ecs.RefTo(target)
		}
	}
}

// others returns ids without self.
func others(ids []ecs.AgentID, self ecs.AgentID) []ecs.AgentID {
	out := make([]ecs.AgentID, 0, len(ids))
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

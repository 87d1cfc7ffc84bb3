package systems

import (
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
)

// AttackEvent is one attacker hitting one target during a turn.
type AttackEvent struct {
	Attacker ecs.AgentID
	Target   ecs.AgentID
	Damage   uint32
}

// Attack resolves the turn's attacks as if they happened simultaneously.
//
// Every living fighter whose Action is Attack and whose Enemy is alive yields
// one event. All events are reported with each target's health as it stood
// before this turn, then applied: a target hit several times takes every hit
// in event order and records the last attacker as its Attacker.
//
// Postcondition: returns the applied events in collection order.
func Attack(s ecs.Store, n narration.Narrator) []AttackEvent {
	events := collectAttacks(s)
	if len(events) == 0 {
		return nil
	}
	reportAttacks(s, n, events)
	applyAttacks(s, events)
	return events
}

func collectAttacks(s ecs.Store) []AttackEvent {
	var events []AttackEvent
	for id, a := range s.Query(ecs.Living.And(ecs.KindAction, ecs.KindEnemy, ecs.KindDamage)) {
		if a.Action != ecs.Attack {
			continue
		}
		target, ok := a.Enemy.Get()
		if !ok || target == id || !ecs.IsAlive(s, target) {
			continue
		}
		events = append(events, AttackEvent{Attacker: id, Target: target, Damage: a.Damage})
	}
	return events
}

type snapshot struct {
	name   string
	health uint32
}

func reportAttacks(s ecs.Store, n narration.Narrator, events []AttackEvent) {
	before := make(map[ecs.AgentID]snapshot)
	look := func(id ecs.AgentID) snapshot {
		if snap, ok := before[id]; ok {
			return snap
		}
		a, _, _ := s.Get(id)
		snap := snapshot{name: a.Name, health: a.Health}
		before[id] = snap
		return snap
	}

	for _, ev := range events {
		attacker, target := look(ev.Attacker), look(ev.Target)
		n.Attack(narration.AttackLine{
			Attacker:       attacker.name,
			AttackerHealth: attacker.health,
			Target:         target.name,
			TargetHealth:   target.health,
			Damage:         ev.Damage,
		})
	}
}

func applyAttacks(s ecs.Store, events []AttackEvent) {
	hits := make(map[ecs.AgentID][]AttackEvent)
	for _, ev := range events {
		hits[ev.Target] = append(hits[ev.Target], ev)
	}

	for id, a := range s.QueryMut(ecs.Living.And(ecs.KindHealth, ecs.KindAttacker)) {
		for _, ev := range hits[id] {
			a.TakeDamage(ev.Damage)
			a.Attacker = ecs.RefTo(ev.Attacker)
		}
	}
}

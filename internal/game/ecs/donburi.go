package ecs

import (
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"
	"github.com/yohamta/donburi/filter"
)

type (
	identityData struct{ ID AgentID }
	aliveTag     struct{}
	nameData     struct{ Value string }
	healthData   struct{ Value uint32 }
	actionData   struct{ Value Action }
	attackerData struct{ Value Ref }
	enemyData    struct{ Value Ref }
	damageData   struct{ Value uint32 }
)

var (
	identityComponent = donburi.NewComponentType[identityData]()
	aliveComponent    = donburi.NewComponentType[aliveTag]()
	nameComponent     = donburi.NewComponentType[nameData]()
	healthComponent   = donburi.NewComponentType[healthData]()
	actionComponent   = donburi.NewComponentType[actionData]()
	attackerComponent = donburi.NewComponentType[attackerData]()
	enemyComponent    = donburi.NewComponentType[enemyData]()
	damageComponent   = donburi.NewComponentType[damageData]()
)

var componentByKind = [kindCount]component.IComponentType{
	KindAlive:    aliveComponent,
	KindName:     nameComponent,
	KindHealth:   healthComponent,
	KindAction:   actionComponent,
	KindAttacker: attackerComponent,
	KindEnemy:    enemyComponent,
	KindDamage:   damageComponent,
}

// DonburiWorld is a Store backed by a donburi archetype ECS. Every attribute
// is its own component and Alive is an empty tag component, so filters map
// one-to-one onto donburi layout filters.
type DonburiWorld struct {
	world    donburi.World
	entities map[AgentID]donburi.Entity
	order    []AgentID
	newID    func() AgentID
}

// NewDonburiWorld returns an empty donburi-backed Store issuing random UUIDs.
func NewDonburiWorld() *DonburiWorld {
	return &DonburiWorld{
		world:    donburi.NewWorld(),
		entities: make(map[AgentID]donburi.Entity),
		newID:    uuid.New,
	}
}

// Spawn implements Store.
func (d *DonburiWorld) Spawn(a Agent) AgentID {
	id := d.newID()
	e := d.world.Create(
		identityComponent, aliveComponent, nameComponent, healthComponent,
		actionComponent, attackerComponent, enemyComponent, damageComponent,
	)
	entry := d.world.Entry(e)
	identityComponent.Set(entry, &identityData{ID: id})
	writeEntry(entry, a, FullMask)
	d.entities[id] = e
	d.order = append(d.order, id)
	return id
}

func (d *DonburiWorld) entry(id AgentID) (*donburi.Entry, bool) {
	e, ok := d.entities[id]
	if !ok || !d.world.Valid(e) {
		return nil, false
	}
	return d.world.Entry(e), true
}

// Get implements Store.
func (d *DonburiWorld) Get(id AgentID) (Agent, Mask, bool) {
	entry, ok := d.entry(id)
	if !ok {
		return Agent{}, 0, false
	}
	m := maskOf(entry)
	return readEntry(entry, m), m, true
}

// Has implements Store.
func (d *DonburiWorld) Has(id AgentID, k Kind) bool {
	entry, ok := d.entry(id)
	return ok && entry.HasComponent(componentByKind[k])
}

// entries runs the donburi query for f and returns the matching entries.
// Collecting first keeps archetype changes made by the caller from disturbing
// the walk.
func (d *DonburiWorld) entries(f Filter) []*donburi.Entry {
	var out []*donburi.Entry
	donburi.NewQuery(layoutFilter(f)).Each(d.world, func(entry *donburi.Entry) {
		out = append(out, entry)
	})
	return out
}

// Query implements Store.
func (d *DonburiWorld) Query(f Filter) iter.Seq2[AgentID, Agent] {
	return func(yield func(AgentID, Agent) bool) {
		for _, entry := range d.entries(f) {
			if !entry.Valid() {
				continue
			}
			m := maskOf(entry)
			if !yield(identityComponent.Get(entry).ID, readEntry(entry, m)) {
				return
			}
		}
	}
}

// QueryMut implements Store.
func (d *DonburiWorld) QueryMut(f Filter) iter.Seq2[AgentID, *Agent] {
	return func(yield func(AgentID, *Agent) bool) {
		for _, entry := range d.entries(f) {
			if !entry.Valid() {
				continue
			}
			m := maskOf(entry)
			view := readEntry(entry, m)
			cont := yield(identityComponent.Get(entry).ID, &view)
			writeEntry(entry, view, m&maskOf(entry))
			if !cont {
				return
			}
		}
	}
}

// Remove implements Store.
func (d *DonburiWorld) Remove(id AgentID, k Kind) error {
	entry, ok := d.entry(id)
	if !ok {
		return fmt.Errorf("removing %s from %s: %w", k, id, ErrNoSuchAgent)
	}
	c := componentByKind[k]
	if !entry.HasComponent(c) {
		return fmt.Errorf("removing %s from %s: %w", k, id, ErrMissingAttribute)
	}
	entry.RemoveComponent(c)
	return nil
}

// Count implements Store.
func (d *DonburiWorld) Count(f Filter) int {
	return donburi.NewQuery(layoutFilter(f)).Count(d.world)
}

// Len implements Store.
func (d *DonburiWorld) Len() int { return len(d.order) }

func layoutFilter(f Filter) filter.LayoutFilter {
	filters := []filter.LayoutFilter{filter.Contains(identityComponent)}
	for _, k := range f.with.Kinds() {
		filters = append(filters, filter.Contains(componentByKind[k]))
	}
	for _, k := range f.without.Kinds() {
		filters = append(filters, filter.Not(filter.Contains(componentByKind[k])))
	}
	if len(filters) == 1 {
		return filters[0]
	}
	return filter.And(filters...)
}

func maskOf(entry *donburi.Entry) Mask {
	var m Mask
	for k := Kind(0); k < kindCount; k++ {
		if entry.HasComponent(componentByKind[k]) {
			m |= MaskOf(k)
		}
	}
	return m
}

func readEntry(entry *donburi.Entry, m Mask) Agent {
	var a Agent
	if m.Has(KindName) {
		a.Name = nameComponent.Get(entry).Value
	}
	if m.Has(KindHealth) {
		a.Health = healthComponent.Get(entry).Value
	}
	if m.Has(KindAction) {
		a.Action = actionComponent.Get(entry).Value
	}
	if m.Has(KindAttacker) {
		a.Attacker = attackerComponent.Get(entry).Value
	}
	if m.Has(KindEnemy) {
		a.Enemy = enemyComponent.Get(entry).Value
	}
	if m.Has(KindDamage) {
		a.Damage = damageComponent.Get(entry).Value
	}
	return a
}

func writeEntry(entry *donburi.Entry, a Agent, m Mask) {
	if m.Has(KindName) {
		nameComponent.Set(entry, &nameData{Value: a.Name})
	}
	if m.Has(KindHealth) {
		healthComponent.Set(entry, &healthData{Value: a.Health})
	}
	if m.Has(KindAction) {
		actionComponent.Set(entry, &actionData{Value: a.Action})
	}
	if m.Has(KindAttacker) {
		attackerComponent.Set(entry, &attackerData{Value: a.Attacker})
	}
	if m.Has(KindEnemy) {
		enemyComponent.Set(entry, &enemyData{Value: a.Enemy})
	}
	if m.Has(KindDamage) {
		damageComponent.Set(entry, &damageData{Value: a.Damage})
	}
}

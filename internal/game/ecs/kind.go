package ecs

import "strings"

// Kind names one attribute a fighter may carry.
type Kind uint8

const (
	KindAlive Kind = iota
	KindName
	KindHealth
	KindAction
	KindAttacker
	KindEnemy
	KindDamage
	kindCount
)

var kindNames = [kindCount]string{"alive", "name", "health", "action", "attacker", "enemy", "damage"}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Mask is a set of attribute kinds.
type Mask uint8

// MaskOf builds a Mask containing kinds.
func MaskOf(kinds ...Kind) Mask {
	var m Mask
	for _, k := range kinds {
		m |= 1 << k
	}
	return m
}

// FullMask is the set every freshly spawned fighter carries.
var FullMask = MaskOf(KindAlive, KindName, KindHealth, KindAction, KindAttacker, KindEnemy, KindDamage)

// Has reports whether k is in m.
func (m Mask) Has(k Kind) bool { return m&(1<<k) != 0 }

// Contains reports whether every kind in other is in m.
func (m Mask) Contains(other Mask) bool { return m&other == other }

// Without returns m minus kind k.
func (m Mask) Without(k Kind) Mask { return m &^ (1 << k) }

// Kinds lists the kinds in m in declaration order.
func (m Mask) Kinds() []Kind {
	var out []Kind
	for k := Kind(0); k < kindCount; k++ {
		if m.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (m Mask) String() string {
	names := make([]string, 0, kindCount)
	for _, k := range m.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Filter selects fighters by which attributes they carry and which they lack.
type Filter struct {
	with    Mask
	without Mask
}

// With returns a Filter requiring every kind listed.
func With(kinds ...Kind) Filter {
	return Filter{with: MaskOf(kinds...)}
}

// And returns f additionally requiring kinds.
func (f Filter) And(kinds ...Kind) Filter {
	f.with |= MaskOf(kinds...)
	return f
}

// Without returns f additionally excluding fighters carrying any of kinds.
func (f Filter) Without(kinds ...Kind) Filter {
	f.without |= MaskOf(kinds...)
	return f
}

// Matches reports whether a fighter carrying m passes the filter.
func (f Filter) Matches(m Mask) bool {
	return m.Contains(f.with) && m&f.without == 0
}

// Living selects every fighter still in play.
var Living = With(KindAlive)

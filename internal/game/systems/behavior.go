package systems

import (
	"github.com/cory-johannsen/streetfight/internal/game/dice"
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
)

// DamageExpression is the default per-turn damage roll.
var DamageExpression = dice.MustParse("1d8")

// RandomizeDamage gives every living fighter a fresh damage roll, whether or
// not it attacks this turn. Totals below zero are stored as zero.
func RandomizeDamage(s ecs.Store, roller *dice.Roller, expr dice.Expression) {
	for _, a := range s.QueryMut(ecs.Living.And(ecs.KindDamage)) {
		total := roller.Roll(expr).Total()
		if total < 0 {
			total = 0
		}
		a.Damage = uint32(total)
	}
}

// ChooseAction picks each living fighter's action: a uniform pick among
// barking, snarling and attacking when it has an Enemy, Idle otherwise.
//
// Precondition: ChooseEnemy has run this turn.
func ChooseAction(s ecs.Store, src dice.Source) {
	for _, a := range s.QueryMut(ecs.Living.And(ecs.KindAction, ecs.KindEnemy)) {
		if a.Enemy.IsNone() {
			a.Action = ecs.Idle
			continue
		}
		a.Action, _ = dice.Choose(src, ecs.Aggressions)
	}
}

// Bark narrates every living fighter that barks this turn.
func Bark(s ecs.Store, n narration.Narrator) {
	for _, a := range s.Query(ecs.Living.And(ecs.KindName, ecs.KindAction, ecs.KindHealth)) {
		if a.Action == ecs.Barks {
			n.Bark(a.Name, a.Health)
		}
	}
}

// Snarls narrates every living fighter that snarls this turn.
func Snarls(s ecs.Store, n narration.Narrator) {
	for _, a := range s.Query(ecs.Living.And(ecs.KindName, ecs.KindAction, ecs.KindHealth)) {
		if a.Action == ecs.Snarls {
			n.Snarl(a.Name, a.Health)
		}
	}
}

package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/streetfight/internal/game/narration"
)

// Hooks forwards narrated fight events to Lua functions of the same meaning:
// on_begin, on_turn, on_bark, on_snarl, on_attack, on_death and on_victory.
// Undefined hooks are skipped.
type Hooks struct {
	m *Manager
}

var _ narration.Narrator = Hooks{}

// NewHooks returns a Narrator backed by m.
//
// Precondition: m must be non-nil.
func NewHooks(m *Manager) Hooks { return Hooks{m: m} }

func (h Hooks) Begin() { h.call("on_begin") }

func (h Hooks) Turn(n int) { h.call("on_turn", lua.LNumber(n)) }

func (h Hooks) Bark(name string, health uint32) {
	h.call("on_bark", lua.LString(name), lua.LNumber(health))
}

func (h Hooks) Snarl(name string, health uint32) {
	h.call("on_snarl", lua.LString(name), lua.LNumber(health))
}

func (h Hooks) Attack(l narration.AttackLine) {
	h.call("on_attack",
		lua.LString(l.Attacker), lua.LNumber(l.AttackerHealth),
		lua.LString(l.Target), lua.LNumber(l.TargetHealth),
		lua.LNumber(l.Damage),
	)
}

func (h Hooks) Death(name string) { h.call("on_death", lua.LString(name)) }

func (h Hooks) Victory(name string) { h.call("on_victory", lua.LString(name)) }

func (h Hooks) call(hook string, args ...lua.LValue) {
	_, _ = h.m.CallHook(hook, args...)
}

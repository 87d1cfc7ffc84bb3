package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the fight global:
//
//	fight.log(msg)   writes msg to the logger at info level
//	fight.roll(expr) rolls a dice expression such as "2d6+1" and returns the total
//
// Precondition: L must belong to a Sandbox.
func (m *Manager) RegisterModules(L *lua.LState) {
	fight := L.NewTable()
	L.SetFuncs(fight, map[string]lua.LGFunction{
		"log":  m.luaLog,
		"roll": m.luaRoll,
	})
	L.SetGlobal("fight", fight)
}

func (m *Manager) luaLog(L *lua.LState) int {
	m.logger.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

func (m *Manager) luaRoll(L *lua.LState) int {
	expr := L.CheckString(1)
	result, err := m.roller.RollExpr(expr)
	if err != nil {
		L.RaiseError("fight.roll: %s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(result.Total()))
	return 1
}

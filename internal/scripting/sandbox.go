// Package scripting runs optional Lua fight hooks in a sandboxed GopherLua VM.
// It knows nothing about the store; hooks only see what the narrator sees.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes a single load
// or hook call may execute when no limit is configured.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's mainLoopWithContext calls Done() once
// per opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context that cancels after limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// Sandbox is a GopherLua VM with:
//   - only the base, table, string and math libraries loaded;
//   - dofile, loadfile, load, collectgarbage and require removed;
//   - a fresh instruction budget for every DoFile, DoString and Call.
//
// A Sandbox is not safe for concurrent use.
type Sandbox struct {
	L     *lua.LState
	limit int
}

// NewSandbox creates a Sandbox.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: The caller owns the Sandbox and must Close it.
func NewSandbox(instLimit int) *Sandbox {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &Sandbox{L: L, limit: instLimit}
}

// Limit returns the per-call instruction budget.
func (s *Sandbox) Limit() int { return s.limit }

// DoString executes src under the instruction budget.
func (s *Sandbox) DoString(src string) error {
	return s.limited(func() error { return s.L.DoString(src) })
}

// DoFile executes the file at path under the instruction budget.
func (s *Sandbox) DoFile(path string) error {
	return s.limited(func() error { return s.L.DoFile(path) })
}

// Call invokes fn in protected mode under the instruction budget.
//
// Postcondition: On success returns fn's first result, or LNil.
func (s *Sandbox) Call(fn lua.LValue, args ...lua.LValue) (lua.LValue, error) {
	var ret lua.LValue = lua.LNil
	err := s.limited(func() error {
		if err := s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = s.L.Get(-1)
		s.L.Pop(1)
		return nil
	})
	return ret, err
}

// Close releases the VM.
func (s *Sandbox) Close() { s.L.Close() }

func (s *Sandbox) limited(fn func() error) error {
	ctx, cancel := newCountingContext(s.limit)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()
	return fn()
}

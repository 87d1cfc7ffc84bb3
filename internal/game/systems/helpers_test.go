package systems_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
)

// scriptedSource replays vals in order, each reduced modulo n, then returns 0.
type scriptedSource struct {
	vals []int
	pos  int
}

func (s *scriptedSource) Intn(n int) int {
	if s.pos >= len(s.vals) {
		return 0
	}
	v := s.vals[s.pos]
	s.pos++
	return v % n
}

// recorder keeps every narrated line.
type recorder struct{ lines []string }

func (r *recorder) Begin()                           { r.lines = append(r.lines, narration.BeginText()) }
func (r *recorder) Turn(n int)                       { r.lines = append(r.lines, narration.TurnText(n)) }
func (r *recorder) Bark(name string, health uint32)  { r.lines = append(r.lines, narration.BarkText(name, health)) }
func (r *recorder) Snarl(name string, health uint32) { r.lines = append(r.lines, narration.SnarlText(name, health)) }
func (r *recorder) Attack(l narration.AttackLine)    { r.lines = append(r.lines, narration.AttackText(l)) }
func (r *recorder) Death(name string)                { r.lines = append(r.lines, narration.DeathText(name)) }
func (r *recorder) Victory(name string)              { r.lines = append(r.lines, narration.VictoryText(name)) }

func backends() map[string]func() ecs.Store {
	return map[string]func() ecs.Store{
		"native":  func() ecs.Store { return ecs.NewWorld() },
		"donburi": func() ecs.Store { return ecs.NewDonburiWorld() },
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s ecs.Store)) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) { fn(t, mk()) })
	}
}

func spawn(s ecs.Store, names ...string) []ecs.AgentID {
	ids := make([]ecs.AgentID, len(names))
	for i, n := range names {
		ids[i] = s.Spawn(ecs.NewAgent(n))
	}
	return ids
}

func update(s ecs.Store, id ecs.AgentID, fn func(a *ecs.Agent)) {
	for got, a := range s.QueryMut(ecs.With()) {
		if got == id {
			fn(a)
			return
		}
	}
}

func get(t testing.TB, s ecs.Store, id ecs.AgentID) ecs.Agent {
	t.Helper()
	a, _, ok := s.Get(id)
	require.True(t, ok)
	return a
}

func kill(t testing.TB, s ecs.Store, id ecs.AgentID) {
	t.Helper()
	update(s, id, func(a *ecs.Agent) { a.Health = 0 })
	require.NoError(t, s.Remove(id, ecs.KindAlive))
}

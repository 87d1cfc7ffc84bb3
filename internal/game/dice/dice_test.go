package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/streetfight/internal/game/dice"
)

// sequenceSource replays fixed values, each reduced modulo n.
type sequenceSource struct {
	vals []int
	pos  int
}

func (s *sequenceSource) Intn(n int) int {
	v := s.vals[s.pos%len(s.vals)]
	s.pos++
	return v % n
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, "2d6+3 → [4 5] +3 = 12", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_String_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		expr := rapid.StringMatching(`[0-9]+d[0-9]+[+-][0-9]+`).Draw(rt, "expression")
		ds := rapid.SliceOfN(rapid.IntRange(1, 20), 1, 10).Draw(rt, "dice")
		modifier := rapid.IntRange(-100, 100).Draw(rt, "modifier")

		r := dice.RollResult{Expression: expr, Dice: ds, Modifier: modifier}
		s := r.String()
		assert.True(rt, strings.Contains(s, expr))
		assert.Contains(rt, s, fmt.Sprintf("%d", r.Total()))
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want dice.Expression
	}{
		{"d8", dice.Expression{Raw: "d8", Count: 1, Sides: 8}},
		{"1d8", dice.Expression{Raw: "1d8", Count: 1, Sides: 8}},
		{"2d6+3", dice.Expression{Raw: "2d6+3", Count: 2, Sides: 6, Modifier: 3}},
		{"4D8-2", dice.Expression{Raw: "4D8-2", Count: 4, Sides: 8, Modifier: -2}},
		{"4d6kh3", dice.Expression{Raw: "4d6kh3", Count: 4, Sides: 6, KeepHighest: 3}},
		{"4d6kh3+1", dice.Expression{Raw: "4d6kh3+1", Count: 4, Sides: 6, KeepHighest: 3, Modifier: 1}},
	}
	for _, tc := range tests {
		got, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "8", "0d6", "1d1", "1d", "d", "2d6kh2", "2d6kh0", "abc", "1d8+"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, "expected error for %q", in)
	}
}

func TestMustParse_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { dice.MustParse("nope") })
	assert.NotPanics(t, func() { dice.MustParse("1d8") })
}

func TestExpression_MinMax(t *testing.T) {
	e := dice.MustParse("1d8")
	assert.Equal(t, 1, e.Min())
	assert.Equal(t, 8, e.Max())

	e = dice.MustParse("4d6kh3-2")
	assert.Equal(t, 1, e.Min())
	assert.Equal(t, 16, e.Max())
}

func TestRoll_Property_TotalWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "count")
		sides := rapid.IntRange(2, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 5).Draw(rt, "mod")
		expr := dice.MustParse(fmt.Sprintf("%dd%d%+d", count, sides, mod))
		seed := rapid.Uint64().Draw(rt, "seed")

		r := dice.Roll(expr, dice.NewSeededSource(seed))
		assert.Len(rt, r.Dice, count)
		assert.GreaterOrEqual(rt, r.Total(), expr.Min())
		assert.LessOrEqual(rt, r.Total(), expr.Max())
	})
}

func TestRoll_KeepHighest(t *testing.T) {
	src := &sequenceSource{vals: []int{0, 5, 2, 3}}
	r := dice.Roll(dice.MustParse("4d6kh2"), src)
	assert.Equal(t, []int{6, 4}, r.Dice)
	assert.Equal(t, 10, r.Total())
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestSources_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
}

func TestRange_Property_ClosedBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(-50, 50).Draw(rt, "lo")
		hi := rapid.IntRange(lo, lo+50).Draw(rt, "hi")
		v := dice.Range(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), lo, hi)
		assert.GreaterOrEqual(rt, v, lo)
		assert.LessOrEqual(rt, v, hi)
	})
}

func TestRange_HitsBothEnds(t *testing.T) {
	src := &sequenceSource{vals: []int{0, 7}}
	assert.Equal(t, 1, dice.Range(src, 1, 8))
	assert.Equal(t, 8, dice.Range(src, 1, 8))
}

func TestRange_PanicsOnInvertedBounds(t *testing.T) {
	assert.Panics(t, func() { dice.Range(dice.NewSeededSource(1), 5, 4) })
}

func TestChoose(t *testing.T) {
	_, ok := dice.Choose(dice.NewSeededSource(1), []string{})
	assert.False(t, ok)

	src := &sequenceSource{vals: []int{2}}
	v, ok := dice.Choose(src, []string{"a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, "c", v)
}

func TestShuffle_Property_IsPermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		items := rapid.SliceOf(rapid.IntRange(0, 100)).Draw(rt, "items")
		shuffled := append([]int(nil), items...)
		dice.Shuffle(dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")), shuffled)
		assert.ElementsMatch(rt, items, shuffled)
	})
}

func TestRoller_LogsEachRoll(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(&sequenceSource{vals: []int{3}}, zap.New(core))

	r, err := roller.RollExpr("1d8")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Total())

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "1d8", entries[0].ContextMap()["expression"])
	assert.EqualValues(t, 4, entries[0].ContextMap()["total"])
}

func TestRoller_RollExpr_ParseError(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	_, err := roller.RollExpr("bogus")
	assert.Error(t, err)
}

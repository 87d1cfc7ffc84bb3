// Package fight drives a street fight turn by turn over an ecs.Store.
package fight

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/streetfight/internal/game/dice"
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
	"github.com/cory-johannsen/streetfight/internal/game/systems"
)

// DefaultTurns is the turn limit used when none is configured.
const DefaultTurns = 5

// State is the lifecycle state of a Fight.
type State int

const (
	Running State = iota
	Finished
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// Options tune a Fight.
type Options struct {
	// Turns is the maximum number of ticks. Must be >= 1.
	Turns int
	// Damage is rolled for every living fighter each turn. Zero value means systems.DamageExpression.
	Damage dice.Expression
}

// Result summarises a finished fight.
type Result struct {
	// Turns is the number of ticks played.
	Turns int
	// Winner is the last fighter standing; only meaningful when HasWinner is set.
	Winner     ecs.AgentID
	WinnerName string
	HasWinner  bool
	// Survivors lists the fighters still alive at the end.
	Survivors []ecs.AgentID
}

// Fight owns a populated store for the duration of one fight.
type Fight struct {
	store    ecs.Store
	roller   *dice.Roller
	narrator narration.Narrator
	logger   *zap.Logger
	turns    int
	damage   dice.Expression

	turn   int
	state  State
	winner ecs.Ref
}

// New creates a Fight over an already populated store.
//
// Precondition: store, roller, narrator and logger must be non-nil.
// Postcondition: Returns an error if opts.Turns < 1; otherwise a Running fight at turn 0.
func New(store ecs.Store, roller *dice.Roller, narrator narration.Narrator, logger *zap.Logger, opts Options) (*Fight, error) {
	if opts.Turns < 1 {
		return nil, fmt.Errorf("turns must be at least 1, got %d", opts.Turns)
	}
	damage := opts.Damage
	if damage.Sides == 0 {
		damage = systems.DamageExpression
	}
	return &Fight{
		store:    store,
		roller:   roller,
		narrator: narrator,
		logger:   logger,
		turns:    opts.Turns,
		damage:   damage,
		state:    Running,
	}, nil
}

// State returns the current lifecycle state.
func (f *Fight) State() State { return f.state }

// Turn returns the number of ticks played so far.
func (f *Fight) Turn() int { return f.turn }

// Tick plays one turn. Ticking a Finished fight does nothing.
//
// Postcondition: Returns the state after the turn.
func (f *Fight) Tick() State {
	if f.state == Finished {
		return f.state
	}
	if f.turn == 0 {
		f.logger.Info("fight started",
			zap.Int("fighters", f.store.Count(ecs.Living)),
			zap.Int("turns", f.turns),
		)
		f.narrator.Begin()
	}

	f.turn++
	f.narrator.Turn(f.turn)
	src := f.roller.Source()

	f.run("choose_enemy", func() { systems.ChooseEnemy(f.store, src) })
	f.run("randomize_damage", func() { systems.RandomizeDamage(f.store, f.roller, f.damage) })
	f.run("choose_action", func() { systems.ChooseAction(f.store, src) })
	f.run("bark", func() { systems.Bark(f.store, f.narrator) })
	f.run("snarls", func() { systems.Snarls(f.store, f.narrator) })

	var attacks []systems.AttackEvent
	f.run("attack", func() { attacks = systems.Attack(f.store, f.narrator) })

	var dead []ecs.AgentID
	f.run("death", func() {
		var err error
		dead, err = systems.Death(f.store, f.narrator)
		if err != nil {
			f.logger.Error("removing dead fighters", zap.Int("turn", f.turn), zap.Error(err))
		}
	})

	alive := ecs.LivingIDs(f.store)
	f.logger.Debug("turn complete",
		zap.Int("turn", f.turn),
		zap.Int("attacks", len(attacks)),
		zap.Int("deaths", len(dead)),
		zap.Int("alive", len(alive)),
	)

	switch {
	case len(alive) == 1:
		f.winner = ecs.RefTo(alive[0])
		a, _, _ := f.store.Get(alive[0])
		f.narrator.Victory(a.Name)
		f.finish("last fighter standing")
	case len(alive) == 0:
		f.finish("no fighters left")
	case f.turn >= f.turns:
		f.finish("turn limit reached")
	}
	return f.state
}

// Run ticks until the fight is Finished and returns its Result.
func (f *Fight) Run() Result {
	for f.Tick() == Running {
	}
	return f.Result()
}

// Result reports the fight's outcome so far.
func (f *Fight) Result() Result {
	r := Result{
		Turns:     f.turn,
		Survivors: ecs.LivingIDs(f.store),
	}
	if id, ok := f.winner.Get(); ok {
		a, _, _ := f.store.Get(id)
		r.Winner, r.WinnerName, r.HasWinner = id, a.Name, true
	}
	return r
}

func (f *Fight) run(system string, fn func()) {
	start := time.Now()
	fn()
	f.logger.Debug("system",
		zap.String("system", system),
		zap.Int("turn", f.turn),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func (f *Fight) finish(reason string) {
	f.state = Finished
	f.logger.Info("fight finished",
		zap.String("reason", reason),
		zap.Int("turns", f.turn),
		zap.Bool("has_winner", f.winner.IsSome()),
	)
}

// Package narration renders what happens in a fight.
package narration

import (
	"fmt"
	"io"
	"sync"
)

// AttackLine describes one attack as reported to observers. TargetHealth is
// the target's health before any damage from the current turn.
type AttackLine struct {
	Attacker       string
	AttackerHealth uint32
	Target         string
	TargetHealth   uint32
	Damage         uint32
}

// Narrator observes a fight. Implementations must not mutate fight state.
type Narrator interface {
	Begin()
	Turn(n int)
	Bark(name string, health uint32)
	Snarl(name string, health uint32)
	Attack(line AttackLine)
	Death(name string)
	Victory(name string)
}

// Text renderers for the console contract.

func BeginText() string { return "Street fight begins!" }

func TurnText(n int) string { return fmt.Sprintf("Turn %d", n) }

func BarkText(name string, health uint32) string {
	return fmt.Sprintf("%s[%d] barks.", name, health)
}

func SnarlText(name string, health uint32) string {
	return fmt.Sprintf("%s[%d] snarls.", name, health)
}

func AttackText(l AttackLine) string {
	return fmt.Sprintf("%s[%d] attacks %s[%d] for %d damage",
		l.Attacker, l.AttackerHealth, l.Target, l.TargetHealth, l.Damage)
}

func DeathText(name string) string { return fmt.Sprintf("Sadly %s is dead", name) }

func VictoryText(name string) string {
	return fmt.Sprintf("Only one dog is alive! The winner is %s", name)
}

// Console writes one line per event to an io.Writer.
// Console is safe for concurrent use.
type Console struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

// NewConsole returns a Console writing to w.
//
// Precondition: w must be non-nil.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return
	}
	if _, err := io.WriteString(c.w, s+"\n"); err != nil {
		c.err = fmt.Errorf("writing narration: %w", err)
	}
}

// Err returns the first write error, if any. Later lines are dropped after an error.
func (c *Console) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Console) Begin()                           { c.println(BeginText()) }
func (c *Console) Turn(n int)                       { c.println(TurnText(n)) }
func (c *Console) Bark(name string, health uint32)  { c.println(BarkText(name, health)) }
func (c *Console) Snarl(name string, health uint32) { c.println(SnarlText(name, health)) }
func (c *Console) Attack(l AttackLine)              { c.println(AttackText(l)) }
func (c *Console) Death(name string)                { c.println(DeathText(name)) }
func (c *Console) Victory(name string)              { c.println(VictoryText(name)) }

// Multi fans every event out to each narrator in order.
type Multi []Narrator

func (m Multi) Begin() {
	for _, n := range m {
		n.Begin()
	}
}

func (m Multi) Turn(t int) {
	for _, n := range m {
		n.Turn(t)
	}
}

func (m Multi) Bark(name string, health uint32) {
	for _, n := range m {
		n.Bark(name, health)
	}
}

func (m Multi) Snarl(name string, health uint32) {
	for _, n := range m {
		n.Snarl(name, health)
	}
}

func (m Multi) Attack(l AttackLine) {
	for _, n := range m {
		n.Attack(l)
	}
}

func (m Multi) Death(name string) {
	for _, n := range m {
		n.Death(name)
	}
}

func (m Multi) Victory(name string) {
	for _, n := range m {
		n.Victory(name)
	}
}

// Discard is a Narrator that ignores every event.
type Discard struct{}

func (Discard) Begin()               {}
func (Discard) Turn(int)             {}
func (Discard) Bark(string, uint32)  {}
func (Discard) Snarl(string, uint32) {}
func (Discard) Attack(AttackLine)    {}
func (Discard) Death(string)         {}
func (Discard) Victory(string)       {}

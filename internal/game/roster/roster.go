// Package roster resolves who takes part in a fight and spawns them into a store.
package roster

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/streetfight/internal/game/dice"
	"github.com/cory-johannsen/streetfight/internal/game/ecs"
)

// DefaultNames are the fighters used when neither names nor a roster are given.
var DefaultNames = []string{"Rex", "Fluffy"}

// Entry is one fighter in a roster.
type Entry struct {
	Name string `yaml:"name"`
	// Health overrides ecs.DefaultHealth when set.
	Health *uint32 `yaml:"health,omitempty"`
}

// Roster is the document loaded from a roster YAML file.
type Roster struct {
	Fighters []Entry `yaml:"fighters"`
}

// Validate checks that every fighter has a name and, if given, a positive health.
// Duplicate names are allowed; names are labels, not identities.
//
// Postcondition: Returns nil iff all entries are valid; otherwise one error listing every violation.
func (r *Roster) Validate() error {
	var errs []string
	for i, e := range r.Fighters {
		if strings.TrimSpace(e.Name) == "" {
			errs = append(errs, fmt.Sprintf("fighters[%d]: name must not be empty", i))
		}
		if e.Health != nil && *e.Health == 0 {
			errs = append(errs, fmt.Sprintf("fighters[%d] %q: health must be >= 1", i, e.Name))
		}
	}
	if len(errs) > 0 {
		return errors.New("roster: " + strings.Join(errs, "; "))
	}
	return nil
}

// LoadFromBytes parses and validates a roster from raw YAML.
func LoadFromBytes(data []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing roster YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads the roster file at path.
//
// Postcondition: Returns a validated *Roster, or an error naming path.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster %q: %w", path, err)
	}
	r, err := LoadFromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading roster %q: %w", path, err)
	}
	return r, nil
}

// Resolve merges plain names with roster entries, names first. r may be nil.
//
// Postcondition: Returns DefaultNames as entries when both sources are empty.
func Resolve(names []string, r *Roster) []Entry {
	var entries []Entry
	for _, n := range names {
		entries = append(entries, Entry{Name: n})
	}
	if r != nil {
		entries = append(entries, r.Fighters...)
	}
	if len(entries) == 0 {
		for _, n := range DefaultNames {
			entries = append(entries, Entry{Name: n})
		}
	}
	return entries
}

// Populate spawns one living fighter per entry, optionally in shuffled order.
// entries is not modified.
//
// Precondition: src must be non-nil when shuffle is set.
// Postcondition: Returns the spawned ids in spawn order.
func Populate(s ecs.Store, entries []Entry, shuffle bool, src dice.Source) []ecs.AgentID {
	order := slices.Clone(entries)
	if shuffle {
		dice.Shuffle(src, order)
	}

	ids := make([]ecs.AgentID, 0, len(order))
	for _, e := range order {
		a := ecs.NewAgent(e.Name)
		if e.Health != nil {
			a.Health = *e.Health
		}
		ids = append(ids, s.Spawn(a))
	}
	return ids
}

package systems

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/streetfight/internal/game/ecs"
	"github.com/cory-johannsen/streetfight/internal/game/narration"
)

// Death takes every living fighter at zero health out of play. Fighters are
// never deleted; only their Alive attribute is removed, after the scan.
//
// Postcondition: returns the ids of the fighters that died this turn.
func Death(s ecs.Store, n narration.Narrator) ([]ecs.AgentID, error) {
	var dead []ecs.AgentID
	for id, a := range s.Query(ecs.Living.And(ecs.KindHealth, ecs.KindName)) {
		if a.Health == 0 {
			n.Death(a.Name)
			dead = append(dead, id)
		}
	}

	var errs []error
	for _, id := range dead {
		if err := s.Remove(id, ecs.KindAlive); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return dead, fmt.Errorf("death: %w", errors.Join(errs...))
	}
	return dead, nil
}

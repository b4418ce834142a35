// Package attribution decides which actor produced a contact event.
package attribution

import (
	"github.com/okian/rallystats/internal/domain/model"
)

// Result describes the outcome of resolving one contact event.
type Result struct {
	Striker  model.ActorID
	Opponent model.ActorID

	// Distances from each role to the object at the contact frame.
	StrikerDistance  float64
	OpponentDistance float64

	// Tie is set when both actors were exactly equidistant.
	Tie bool
}

// Resolve returns the actor nearest to object at frame as the striker.
// Equal distances resolve to the lower actor id. Positions for ids other
// than the two known actors are ignored.
func Resolve(frame int, actors map[model.ActorID]model.Position, object model.Position) (Result, error) {
	var dist [2]float64
	for i, id := range model.Actors {
		p, ok := actors[id]
		if !ok {
			return Result{}, &MissingActorError{Frame: frame, Actor: id}
		}
		dist[i] = model.Distance(p, object)
	}

	// Fixed evaluation order plus a strict comparison keeps Actor1 on ties.
	striker := model.Actor1
	if dist[1] < dist[0] {
		striker = model.Actor2
	}
	opponent := striker.Other()
	return Result{
		Striker:          striker,
		Opponent:         opponent,
		StrikerDistance:  dist[int(striker)-1],
		OpponentDistance: dist[int(opponent)-1],
		Tie:              dist[0] == dist[1],
	}, nil
}

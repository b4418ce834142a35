// Package model contains the value types shared by the rally statistics
// pipeline: actors, positions, segments and the statistic snapshots derived
// from them.
package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ActorID identifies one of the two tracked actors.
type ActorID int

// The two actors of a match.
const (
	Actor1 ActorID = 1
	Actor2 ActorID = 2
)

// Actors lists the actor ids in ascending order.
var Actors = [...]ActorID{Actor1, Actor2}

// Valid reports whether id is one of the two known actors.
func (id ActorID) Valid() bool { return id == Actor1 || id == Actor2 }

// Other returns the opposing actor. It panics on an invalid id.
func (id ActorID) Other() ActorID {
	switch id {
	case Actor1:
		return Actor2
	case Actor2:
		return Actor1
	default:
		panic(fmt.Sprintf("model: invalid actor id %d", int(id)))
	}
}

func (id ActorID) index() int { return int(id) - 1 }

func (id ActorID) String() string { return fmt.Sprintf("actor-%d", int(id)) }

// Position is a point in the shared mini-court coordinate space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Position) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// Segment is the frame interval between two consecutive contact events.
type Segment struct {
	Start int `json:"start_frame"`
	End   int `json:"end_frame"`
}

// Frames returns the number of frames the segment spans.
func (s Segment) Frames() int { return s.End - s.Start }

// DurationSeconds converts the segment length to seconds at frameRate.
func (s Segment) DurationSeconds(frameRate float64) float64 {
	return float64(s.End-s.Start) / frameRate
}

func (s Segment) String() string { return fmt.Sprintf("[%d,%d]", s.Start, s.End) }

// Package stats folds per-segment results into an append-only sequence of
// per-actor statistic snapshots.
package stats

import (
	"fmt"

	"github.com/okian/rallystats/internal/domain/model"
)

// Delta is the outcome of analysing one segment.
type Delta struct {
	Segment  model.Segment `json:"segment"`
	Striker  model.ActorID `json:"striker"`
	Opponent model.ActorID `json:"opponent"`

	// ShotSpeed is the object's speed over the segment, credited to the
	// striker. OpponentSpeed is the opponent's own movement speed.
	// The striker's movement is not measured.
	ShotSpeed     float64 `json:"shot_speed_kmh"`
	OpponentSpeed float64 `json:"opponent_speed_kmh"`

	Tie bool `json:"tie"`
}

// Accumulator holds the snapshot history. Entries are never modified once
// appended.
type Accumulator struct {
	history []model.Snapshot
}

// NewAccumulator returns an accumulator seeded with an all-zero snapshot at
// frame 0.
func NewAccumulator() *Accumulator {
	return &Accumulator{history: []model.Snapshot{{FrameNum: 0}}}
}

// Latest returns the most recent snapshot.
func (a *Accumulator) Latest() model.Snapshot {
	return a.history[len(a.history)-1]
}

// Len returns the number of snapshots including the seed.
func (a *Accumulator) Len() int { return len(a.history) }

// Snapshots returns a copy of the snapshot sequence.
func (a *Accumulator) Snapshots() []model.Snapshot {
	out := make([]model.Snapshot, len(a.history))
	copy(out, a.history)
	return out
}

// Apply derives the next snapshot from the latest one and d, appends it and
// returns it. Deltas must arrive in segment order.
func (a *Accumulator) Apply(d Delta) (model.Snapshot, error) {
	if !d.Striker.Valid() {
		return model.Snapshot{}, fmt.Errorf("%w: striker %d", ErrInvalidActor, int(d.Striker))
	}
	if d.Opponent != d.Striker.Other() {
		return model.Snapshot{}, fmt.Errorf("%w: opponent %d for striker %d", ErrInvalidActor, int(d.Opponent), int(d.Striker))
	}
	prev := a.Latest()
	if d.Segment.Start < prev.FrameNum {
		return model.Snapshot{}, fmt.Errorf("%w: segment %s after frame %d", ErrOutOfOrder, d.Segment, prev.FrameNum)
	}
	if d.ShotSpeed < 0 || d.OpponentSpeed < 0 {
		return model.Snapshot{}, fmt.Errorf("%w: segment %s", ErrNegativeSpeed, d.Segment)
	}

	next := prev
	next.FrameNum = d.Segment.Start

	s := next.Of(d.Striker)
	s.ShotCount++
	s.TotalShotSpeed += d.ShotSpeed
	s.LastShotSpeed = d.ShotSpeed
	next = next.With(d.Striker, s)

	o := next.Of(d.Opponent)
	o.TotalMovementSpeed += d.OpponentSpeed
	o.LastMovementSpeed = d.OpponentSpeed
	next = next.With(d.Opponent, o)

	a.history = append(a.history, next)
	return next, nil
}

// Fold applies deltas in order to a fresh accumulator and returns the full
// snapshot sequence.
func Fold(deltas []Delta) ([]model.Snapshot, error) {
	acc := NewAccumulator()
	for i, d := range deltas {
		if _, err := acc.Apply(d); err != nil {
			return nil, fmt.Errorf("delta %d: %w", i, err)
		}
	}
	return acc.Snapshots(), nil
}

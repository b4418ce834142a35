// Package expand turns the sparse snapshot sequence into a dense table with
// one row per frame.
package expand

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/rallystats/internal/domain/model"
)

// Denominator selects the shot count used to average movement speed.
type Denominator int

const (
	// DenominatorCross divides an actor's movement total by the other
	// actor's shot count. This reproduces the historical report output
	// and is almost certainly a defect; it stays the default until
	// consumers opt into DenominatorSelf.
	DenominatorCross Denominator = iota
	// DenominatorSelf divides an actor's movement total by its own shot
	// count.
	DenominatorSelf
)

func (d Denominator) String() string {
	switch d {
	case DenominatorCross:
		return "cross"
	case DenominatorSelf:
		return "self"
	default:
		return fmt.Sprintf("denominator(%d)", int(d))
	}
}

// ParseDenominator accepts "cross" or "self".
func ParseDenominator(s string) (Denominator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cross":
		return DenominatorCross, nil
	case "self":
		return DenominatorSelf, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDenominator, s)
	}
}

// Expander builds dense per-frame tables. It holds no state between calls.
type Expander struct {
	denominator Denominator
}

// New creates an Expander; the default denominator is DenominatorCross.
func New(opts ...Option) *Expander {
	e := &Expander{denominator: DenominatorCross}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Denominator reports the configured movement-average denominator.
func (e *Expander) Denominator() Denominator { return e.denominator }

// Expand returns rows for frames 0..totalFrames-1. Each row carries the
// latest snapshot whose frame_num is at or before the row's frame; when
// several snapshots share a frame_num the last one wins. Snapshots must be
// ordered by frame_num and start at frame 0.
func (e *Expander) Expand(snapshots []model.Snapshot, totalFrames int) ([]model.Row, error) {
	if totalFrames < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFrames, totalFrames)
	}
	if len(snapshots) == 0 || snapshots[0].FrameNum != 0 {
		return nil, ErrMissingSeed
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].FrameNum < snapshots[i-1].FrameNum {
			return nil, fmt.Errorf("%w: snapshot %d at frame %d follows frame %d",
				ErrUnorderedSnapshots, i, snapshots[i].FrameNum, snapshots[i-1].FrameNum)
		}
	}

	rows := make([]model.Row, totalFrames)
	for f := range rows {
		// first snapshot strictly after f, minus one
		i := sort.Search(len(snapshots), func(i int) bool { return snapshots[i].FrameNum > f }) - 1
		rows[f] = e.row(f, snapshots[i])
	}
	return rows, nil
}

func (e *Expander) row(frame int, snap model.Snapshot) model.Row {
	r := model.Row{Frame: frame, SnapshotFrame: snap.FrameNum}
	for i, id := range model.Actors {
		own := snap.Of(id)
		movementShots := snap.Of(id.Other()).ShotCount
		if e.denominator == DenominatorSelf {
			movementShots = own.ShotCount
		}
		r.Stats[i] = model.RowStats{
			ActorStats:           own,
			AverageShotSpeed:     model.Mean(own.TotalShotSpeed, own.ShotCount),
			AverageMovementSpeed: model.Mean(own.TotalMovementSpeed, movementShots),
		}
	}
	return r
}

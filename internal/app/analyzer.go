package service

import (
	"context"
	"fmt"

	"github.com/okian/rallystats/internal/domain/attribution"
	"github.com/okian/rallystats/internal/domain/model"
	"github.com/okian/rallystats/internal/domain/speed"
	"github.com/okian/rallystats/internal/domain/stats"
)

// segmentAnalyzer resolves the striker of one segment and measures the two
// speeds credited for it. It only reads the match, so it is safe to share
// between workers.
type segmentAnalyzer struct {
	frames []model.Observation
	calc   *speed.Calculator
}

func (a *segmentAnalyzer) Analyze(_ context.Context, seg model.Segment) (stats.Delta, error) {
	start, end := a.frames[seg.Start], a.frames[seg.End]
	if start.Object == nil {
		return stats.Delta{}, &MissingObjectError{Frame: seg.Start}
	}
	if end.Object == nil {
		return stats.Delta{}, &MissingObjectError{Frame: seg.End}
	}

	res, err := attribution.Resolve(seg.Start, start.Actors, *start.Object)
	if err != nil {
		return stats.Delta{}, err
	}

	oppFrom := start.Actors[res.Opponent]
	oppTo, ok := end.Actors[res.Opponent]
	if !ok {
		return stats.Delta{}, &attribution.MissingActorError{Frame: seg.End, Actor: res.Opponent}
	}

	shot, err := a.calc.SegmentSpeed(seg, *start.Object, *end.Object)
	if err != nil {
		return stats.Delta{}, fmt.Errorf("shot speed: %w", err)
	}
	moved, err := a.calc.SegmentSpeed(seg, oppFrom, oppTo)
	if err != nil {
		return stats.Delta{}, fmt.Errorf("opponent speed: %w", err)
	}

	return stats.Delta{
		Segment:       seg,
		Striker:       res.Striker,
		Opponent:      res.Opponent,
		ShotSpeed:     shot,
		OpponentSpeed: moved,
		Tie:           res.Tie,
	}, nil
}

// Package segment turns an ordered list of contact frames into the
// intervals statistics are computed over.
package segment

import (
	"github.com/okian/rallystats/internal/domain/model"
)

// Build pairs each contact frame with the next one and returns the M-1
// resulting segments in input order. Fewer than two frames yield no
// segments.
//
// Precondition: frames is strictly increasing and duplicate-free. Build
// does not check, reorder or deduplicate; callers run Validate first.
func Build(frames []int) []model.Segment {
	if len(frames) < 2 {
		return nil
	}
	out := make([]model.Segment, 0, len(frames)-1)
	for i := 0; i+1 < len(frames); i++ {
		out = append(out, model.Segment{Start: frames[i], End: frames[i+1]})
	}
	return out
}

// Validate checks the Build precondition and that every frame lies in
// [0, totalFrames). It reports the first offending frame.
func Validate(frames []int, totalFrames int) error {
	for i, f := range frames {
		if f < 0 || f >= totalFrames {
			return &RangeError{Index: i, Frame: f, TotalFrames: totalFrames}
		}
		if i > 0 && f <= frames[i-1] {
			return &OrderError{Index: i, Frame: f, Previous: frames[i-1]}
		}
	}
	return nil
}

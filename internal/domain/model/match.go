package model

// Observation is what the detection/projection provider reports for a
// single frame. Object is nil when the object was not located.
type Observation struct {
	Actors map[ActorID]Position
	Object *Position
}

// Match is the complete, already projected input of one pipeline run.
type Match struct {
	ID string

	// Frames holds one observation per video frame; its length is the
	// total frame count of the match.
	Frames []Observation

	// ContactFrames are the frames flagged as object contacts, strictly
	// increasing.
	ContactFrames []int

	// ProjectionPixelWidth is the full court width in mini-court units.
	ProjectionPixelWidth float64

	// ReferenceWidthMeters optionally overrides the configured real-world
	// court width. Zero means unset.
	ReferenceWidthMeters float64
}

// TotalFrames returns the number of frames in the match.
func (m *Match) TotalFrames() int { return len(m.Frames) }

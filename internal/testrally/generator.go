// Package testrally generates synthetic, valid rally inputs for tests and
// demos. Generation is deterministic for a given seed.
package testrally

import (
	"math"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"github.com/okian/rallystats/internal/domain/model"
)

// Default generation constants, in mini-court units.
const (
	defaultSeed        = 42
	defaultCourtWidth  = 100.0
	defaultCourtLength = 230.0
	defaultStep        = 1.5
	defaultReach       = 4.0
)

// Generator produces random rally data.
type Generator struct {
	rng         *rand.Rand
	courtWidth  float64
	courtLength float64
	step        float64
	reach       float64
	dropout     float64
}

// New creates a generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		rng:         rand.New(rand.NewSource(defaultSeed)), //nolint:gosec // reproducible test data
		courtWidth:  defaultCourtWidth,
		courtLength: defaultCourtLength,
		step:        defaultStep,
		reach:       defaultReach,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CourtWidth is the projection width of the generated court.
func (g *Generator) CourtWidth() float64 { return g.courtWidth }

// Intn returns a random int in [0, n).
func (g *Generator) Intn(n int) int { return g.rng.Intn(n) }

// Float64 returns a random float in [0, 1).
func (g *Generator) Float64() float64 { return g.rng.Float64() }

// Position returns a uniformly random point on the court.
func (g *Generator) Position() model.Position {
	return model.Position{X: g.rng.Float64() * g.courtWidth, Y: g.rng.Float64() * g.courtLength}
}

// Observation returns a frame with both actors and the object at random
// positions.
func (g *Generator) Observation() model.Observation {
	obj := g.Position()
	return model.Observation{
		Actors: map[model.ActorID]model.Position{
			model.Actor1: g.Position(),
			model.Actor2: g.Position(),
		},
		Object: &obj,
	}
}

// ContactFrames returns up to n distinct, strictly increasing frames in
// [0, total).
func (g *Generator) ContactFrames(total, n int) []int {
	if n > total {
		n = total
	}
	if n <= 0 {
		return nil
	}
	frames := g.rng.Perm(total)[:n]
	sort.Ints(frames)
	return frames
}

// Match builds a complete match of the given length with `contacts`
// contact events. Actors random-walk on their own half; at each contact the
// object sits within reach of the alternating striker and travels in a
// straight line to the next contact.
func (g *Generator) Match(frames, contacts int) model.Match {
	m := model.Match{
		ID:                   g.id(),
		Frames:               make([]model.Observation, frames),
		ContactFrames:        g.ContactFrames(frames, contacts),
		ProjectionPixelWidth: g.courtWidth,
	}
	if frames == 0 {
		return m
	}

	half := g.courtLength / 2
	p1 := model.Position{X: g.courtWidth / 2, Y: half / 2}
	p2 := model.Position{X: g.courtWidth / 2, Y: half + half/2}
	for f := range m.Frames {
		p1 = g.walk(p1, 0, half)
		p2 = g.walk(p2, half, g.courtLength)
		m.Frames[f].Actors = map[model.ActorID]model.Position{model.Actor1: p1, model.Actor2: p2}
	}

	// Object anchors at each contact.
	anchors := make([]model.Position, len(m.ContactFrames))
	striker := model.Actors[g.rng.Intn(2)]
	for i, cf := range m.ContactFrames {
		near := m.Frames[cf].Actors[striker]
		anchors[i] = model.Position{
			X: near.X + (g.rng.Float64()*2-1)*g.reach/2,
			Y: near.Y + (g.rng.Float64()*2-1)*g.reach/2,
		}
		striker = striker.Other()
	}

	contact := make(map[int]bool, len(m.ContactFrames))
	for _, cf := range m.ContactFrames {
		contact[cf] = true
	}
	for f := range m.Frames {
		if !contact[f] && g.dropout > 0 && g.rng.Float64() < g.dropout {
			continue
		}
		p := g.objectAt(f, m.ContactFrames, anchors)
		m.Frames[f].Object = &p
	}
	return m
}

func (g *Generator) objectAt(f int, contacts []int, anchors []model.Position) model.Position {
	if len(contacts) == 0 {
		return model.Position{X: g.courtWidth / 2, Y: g.courtLength / 2}
	}
	i := sort.SearchInts(contacts, f)
	switch {
	case i < len(contacts) && contacts[i] == f:
		return anchors[i]
	case i == 0:
		return anchors[0]
	case i == len(contacts):
		return anchors[len(anchors)-1]
	}
	a, b := anchors[i-1], anchors[i]
	t := float64(f-contacts[i-1]) / float64(contacts[i]-contacts[i-1])
	return model.Position{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func (g *Generator) walk(p model.Position, minY, maxY float64) model.Position {
	p.X = clamp(p.X+(g.rng.Float64()*2-1)*g.step, 0, g.courtWidth)
	p.Y = clamp(p.Y+(g.rng.Float64()*2-1)*g.step, minY, maxY)
	return p
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

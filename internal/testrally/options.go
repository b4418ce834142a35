package testrally

import "math/rand"

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithSeed seeds the generator.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible test data
	}
}

// WithCourt sets the court dimensions in mini-court units.
func WithCourt(width, length float64) Option {
	return func(g *Generator) {
		if width > 0 && length > 0 {
			g.courtWidth = width
			g.courtLength = length
		}
	}
}

// WithObjectDropout drops the object from non-contact frames with
// probability p.
func WithObjectDropout(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.dropout = p
		}
	}
}

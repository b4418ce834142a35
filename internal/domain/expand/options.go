package expand

// Option applies a configuration option to the Expander.
type Option func(*Expander)

// WithDenominator selects how movement-speed averages are divided.
func WithDenominator(d Denominator) Option {
	return func(e *Expander) {
		if d == DenominatorCross || d == DenominatorSelf {
			e.denominator = d
		}
	}
}

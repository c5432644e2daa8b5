// Package engine joins performance records to creative assets and computes
// the aggregated views over them. Every entry point is a pure function of
// its inputs: callers pass an immutable snapshot per invocation and may call
// as often as they like (for example on every label edit).
package engine

// DefaultMinSpendForWinner is the spend a creative must reach before it can
// be considered for the winner flag, in currency units.
const DefaultMinSpendForWinner = 10.0

// Engine holds the tunables of the aggregation pipeline. The zero value is
// not usable; construct with New.
type Engine struct {
	minSpendForWinner float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinSpendForWinner overrides the winner spend threshold, mainly for
// configuration wiring and tests.
func WithMinSpendForWinner(spend float64) Option {
	return func(e *Engine) {
		e.minSpendForWinner = spend
	}
}

// New constructs an Engine with default thresholds applied.
func New(opts ...Option) *Engine {
	e := &Engine{minSpendForWinner: DefaultMinSpendForWinner}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

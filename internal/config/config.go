// Package config implements the solver-wide tunables of SPEC_FULL.md §4.12:
// the truncation size quantum, the goal-nesting depth at which the forest
// abandons a branch, and the diagnostics sink, assembled via the functional-
// options constructor convention the teacher uses throughout its own
// configuration surface.
package config

import "github.com/gitrdm/traitsolve/internal/diagnostics"

const (
	// DefaultMaxSize is the node budget Truncator enforces absent an
	// override: generous enough for any finite type likely to appear by
	// hand, tight enough to cut off a runaway recursive ADT in microseconds.
	DefaultMaxSize = 30
	// DefaultOverflowDepth bounds how deeply the forest's proveGoal nests
	// subgoals before it abandons that branch and marks the solve's table
	// Truncated.
	DefaultOverflowDepth = 100
)

// Config bundles every tunable the forest and recursive solver read; it is
// immutable once built, so one Config can be safely shared read-only
// between concurrent top-level solves.
type Config struct {
	MaxSize       int
	OverflowDepth int
	Sink          diagnostics.Sink
}

// Option mutates a Config under construction.
type Option func(*Config)

// New builds a Config with the package defaults, then applies opts in
// order.
func New(opts ...Option) *Config {
	c := &Config{
		MaxSize:       DefaultMaxSize,
		OverflowDepth: DefaultOverflowDepth,
		Sink:          diagnostics.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithMaxSize(n int) Option {
	return func(c *Config) { c.MaxSize = n }
}

func WithOverflowDepth(n int) Option {
	return func(c *Config) { c.OverflowDepth = n }
}

func WithSink(s diagnostics.Sink) Option {
	return func(c *Config) {
		if s != nil {
			c.Sink = s
		}
	}
}

package dvengine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvtally"
)

const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-6
)

// Engine holds the resolution parameters.
// An Engine has no per-run state and is safe for concurrent use,
// as long as each graph it resolves is not concurrently modified.
type Engine struct {
	log *slog.Logger

	maxIterations int
	tolerance     float64
}

// Opt is an option for [New].
type Opt func(*Engine) error

// WithMaxIterations sets the iteration limit for weighted resolution.
// The limit must be at least 1.
func WithMaxIterations(n int) Opt {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("max iterations must be at least 1 (got %d)", n)
		}
		e.maxIterations = n
		return nil
	}
}

// WithTolerance sets the convergence tolerance for weighted resolution.
// A tolerance of zero disables early exit.
func WithTolerance(tol float64) Opt {
	return func(e *Engine) error {
		if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
			return fmt.Errorf("tolerance must be finite and non-negative (got %g)", tol)
		}
		e.tolerance = tol
		return nil
	}
}

// New returns an Engine with [DefaultMaxIterations] and [DefaultTolerance],
// modified by opts.
func New(log *slog.Logger, opts ...Opt) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	e := &Engine{
		log: log,

		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("invalid engine option: %w", err)
		}
	}

	return e, nil
}

// MaxIterations returns the configured weighted iteration limit.
func (e *Engine) MaxIterations() int {
	return e.maxIterations
}

// Tolerance returns the configured weighted convergence tolerance.
func (e *Engine) Tolerance() float64 {
	return e.tolerance
}

// Resolve runs the resolution selected by mode over g.
// The only possible error is an unknown mode.
func (e *Engine) Resolve(g *dvgraph.Graph, mode dvtally.Mode) (dvtally.Tally, error) {
	switch mode {
	case dvtally.ModeBroadcast:
		return e.ResolveBroadcast(g), nil
	case dvtally.ModeWeighted:
		return e.ResolveWeighted(g), nil
	default:
		return dvtally.Tally{}, fmt.Errorf("cannot resolve: unknown mode %s", mode)
	}
}

// ResolveRegistry builds a fresh graph from reg and resolves it.
func (e *Engine) ResolveRegistry(reg *dvregistry.Registry, mode dvtally.Mode) (dvtally.Tally, error) {
	return e.Resolve(dvgraph.Build(reg), mode)
}

// trapped returns the IDs of participants with positive stake
// that have no delegation path into sinks.
func trapped(g *dvgraph.Graph, sinks *bitset.BitSet) []string {
	reach := g.CanReach(sinks)

	var out []string
	for i := range g.Len() {
		if reach.Test(uint(i)) || g.Stake(i) <= 0 {
			continue
		}
		out = append(out, g.ID(i))
	}
	return out
}

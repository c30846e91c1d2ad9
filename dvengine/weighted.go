package dvengine

import (
	"math"

	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvtally"
)

type distribution = [dvregistry.NumOutcomes]float64

// ResolveWeighted resolves g in weighted mode.
//
// Every distribution starts at zero.
// Each iteration computes every participant's distribution
// from the previous iteration's distributions only,
// so the result does not depend on participant order.
// Iteration stops when the summed absolute change over all participants
// and outcomes is below the tolerance, keeping the previous iterate,
// or when the iteration limit is reached.
func (e *Engine) ResolveWeighted(g *dvgraph.Graph) dvtally.Tally {
	n := g.Len()

	prev := make([]distribution, n)
	next := make([]distribution, n)

	var d dvtally.Diagnostics
	if n == 0 {
		d.Converged = true
	}

	for n > 0 && d.Iterations < e.maxIterations {
		d.Iterations++

		var change float64
		for i := range n {
			next[i] = weightedPower(g, i, prev)
			for o := range next[i] {
				change += math.Abs(next[i][o] - prev[i][o])
			}
		}
		d.FinalChange = change

		if change < e.tolerance {
			d.Converged = true
			break
		}

		prev, next = next, prev
	}

	d.Trapped = trapped(g, g.Committers())

	t := dvtally.NewWeighted(g, prev, d)

	if !d.Converged {
		e.log.Info(
			"Weighted delegation did not converge within iteration limit",
			"participants", n,
			"max_iterations", e.maxIterations,
			"final_change", d.FinalChange,
			"tolerance", e.tolerance,
		)
	}
	e.log.Debug(
		"Resolved weighted delegation",
		"participants", n,
		"iterations", d.Iterations,
		"converged", d.Converged,
		"yes", t.Outcome(dvregistry.OutcomeYes),
		"no", t.Outcome(dvregistry.OutcomeNo),
		"lost", t.LostWeight(),
	)

	return t
}

// weightedPower computes the distribution of participant i
// given the previous iteration's distributions.
func weightedPower(g *dvgraph.Graph, i int, prev []distribution) distribution {
	out := g.Commitments(i)

	uncommitted := g.Uncommitted(i)
	dels := g.Delegates(i)
	if len(dels) == 0 || uncommitted <= 0 {
		return out
	}

	var combined distribution
	for _, dl := range dels {
		for o, v := range prev[dl] {
			combined[o] += v
		}
	}

	var total float64
	for _, v := range combined {
		total += v
	}
	if total <= 0 {
		// Delegates hold no power yet; nothing to follow this iteration.
		return out
	}

	for o, v := range combined {
		out[o] += uncommitted * v / total
	}
	return out
}

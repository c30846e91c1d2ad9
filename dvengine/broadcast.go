package dvengine

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvtally"
)

// ResolveBroadcast resolves g in broadcast mode.
//
// Every voter's own stake counts immediately.
// Every other participant starts with its whole stake pending.
// In each round, each participant holding pending weight
// splits it evenly across its delegate list:
// shares landing on a voter are counted,
// shares landing on a non-voter are pending for the next round,
// and weight held by a participant with no delegates is dropped.
//
// There are at most 2*g.Len() rounds.
// Anything still pending after the last round is discarded.
func (e *Engine) ResolveBroadcast(g *dvgraph.Graph) dvtally.Tally {
	n := g.Len()

	resolved := make([]float64, n)

	// Pending weight for the current and the next round.
	// A participant is "holding" if it received weight, even zero weight,
	// so a zero-stake forwarder still takes part in a round.
	pending := make([]float64, n)
	next := make([]float64, n)
	holding := bitset.New(uint(n))
	nextHolding := bitset.New(uint(n))

	for i := range n {
		if g.IsTerminal(i) {
			resolved[i] = g.Stake(i)
			continue
		}
		pending[i] = g.Stake(i)
		holding.Set(uint(i))
	}

	d := dvtally.Diagnostics{
		RoundBudget: 2 * n,
	}

	for d.Iterations < d.RoundBudget && holding.Any() {
		d.Iterations++

		for u, ok := holding.NextSet(0); ok; u, ok = holding.NextSet(u + 1) {
			w := pending[u]
			dels := g.Delegates(int(u))
			if len(dels) == 0 {
				d.DroppedWeight += w
				continue
			}

			share := w / float64(len(dels))
			for _, to := range dels {
				if g.IsTerminal(to) {
					resolved[to] += share
					continue
				}
				next[to] += share
				nextHolding.Set(uint(to))
			}
		}

		pending, next = next, pending
		clear(next)
		holding, nextHolding = nextHolding, holding
		nextHolding.ClearAll()
	}

	for u, ok := holding.NextSet(0); ok; u, ok = holding.NextSet(u + 1) {
		d.DiscardedWeight += pending[u]
	}
	d.Converged = !holding.Any()
	d.Trapped = trapped(g, g.Terminals())

	t := dvtally.NewBroadcast(g, resolved, d)

	e.log.Debug(
		"Resolved broadcast delegation",
		"participants", n,
		"rounds", d.Iterations,
		"round_budget", d.RoundBudget,
		"converged", d.Converged,
		"resolved", t.TotalResolved(),
		"lost", t.LostWeight(),
	)

	return t
}

package dvgraph

import "github.com/bits-and-blooms/bitset"

// CanReach returns the set of participants that have a delegation path,
// of length zero or more, to any participant in targets.
//
// Participants outside the returned set cannot route any weight to targets,
// no matter how many rounds a resolution runs.
func (g *Graph) CanReach(targets *bitset.BitSet) *bitset.BitSet {
	n := len(g.nodes)

	// Reverse edges: for each delegate, who delegates to it.
	// Duplicates do not matter for reachability.
	incoming := make([][]int, n)
	for from, nd := range g.nodes {
		for _, to := range nd.delegates {
			incoming[to] = append(incoming[to], from)
		}
	}

	reached := bitset.New(uint(n))
	queue := make([]int, 0, n)
	for i, ok := targets.NextSet(0); ok && int(i) < n; i, ok = targets.NextSet(i + 1) {
		reached.Set(i)
		queue = append(queue, int(i))
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, from := range incoming[cur] {
			if reached.Test(uint(from)) {
				continue
			}
			reached.Set(uint(from))
			queue = append(queue, from)
		}
	}

	return reached
}

package dvgraph

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/gordian-engine/gdelegate/dvregistry"
)

// Graph is an immutable snapshot of a [dvregistry.Registry],
// arranged for resolution.
//
// Methods that accept an index use unchecked access,
// so an index outside [0, Len()) panics.
type Graph struct {
	ids   []string
	byID  map[string]int
	nodes []node

	totalStake float64

	terminals  *bitset.BitSet
	deadEnds   *bitset.BitSet
	committers *bitset.BitSet
}

type node struct {
	stake       float64
	commitments [dvregistry.NumOutcomes]float64
	delegates   []int
}

// Build returns a snapshot of reg.
func Build(reg *dvregistry.Registry) *Graph {
	n := reg.Len()
	g := &Graph{
		ids:   reg.IDs(),
		byID:  make(map[string]int, n),
		nodes: make([]node, n),

		terminals:  bitset.New(uint(n)),
		deadEnds:   bitset.New(uint(n)),
		committers: bitset.New(uint(n)),
	}

	for i, id := range g.ids {
		g.byID[id] = i

		p := reg.At(i)
		g.nodes[i] = node{
			stake:       p.Stake,
			commitments: p.Commitments,
			delegates:   reg.DelegateIndices(i),
		}
		g.totalStake += p.Stake

		if p.IsVoter {
			g.terminals.Set(uint(i))
		}
		if len(g.nodes[i].delegates) == 0 {
			g.deadEnds.Set(uint(i))
		}
		if p.Committed() > 0 {
			g.committers.Set(uint(i))
		}
	}

	return g
}

// Len returns the number of participants in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// ID returns the participant ID at index i.
func (g *Graph) ID(i int) string {
	return g.ids[i]
}

// Index returns the index of the participant with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.byID[id]
	return i, ok
}

// Delegates returns the out-edges of i, in delegation order,
// including repeated entries.
// The returned slice must not be modified.
func (g *Graph) Delegates(i int) []int {
	return g.nodes[i].delegates
}

// Stake returns the stake of participant i.
func (g *Graph) Stake(i int) float64 {
	return g.nodes[i].stake
}

// Commitment returns the amount participant i committed directly to o.
func (g *Graph) Commitment(i int, o dvregistry.Outcome) float64 {
	if !o.Valid() {
		return 0
	}
	return g.nodes[i].commitments[o]
}

// Commitments returns every direct commitment of participant i.
func (g *Graph) Commitments(i int) [dvregistry.NumOutcomes]float64 {
	return g.nodes[i].commitments
}

// Committed returns the sum of participant i's direct commitments.
func (g *Graph) Committed(i int) float64 {
	var sum float64
	for _, c := range g.nodes[i].commitments {
		sum += c
	}
	return sum
}

// Uncommitted returns the stake of participant i not used by direct commitments.
func (g *Graph) Uncommitted(i int) float64 {
	return g.nodes[i].stake - g.Committed(i)
}

// TotalStake returns the sum of every participant's stake.
func (g *Graph) TotalStake() float64 {
	return g.totalStake
}

// IsTerminal reports whether participant i is a voter.
func (g *Graph) IsTerminal(i int) bool {
	return g.terminals.Test(uint(i))
}

// Terminals returns a copy of the set of voter indices.
func (g *Graph) Terminals() *bitset.BitSet {
	return g.terminals.Clone()
}

// IsDeadEnd reports whether participant i has no delegates.
func (g *Graph) IsDeadEnd(i int) bool {
	return g.deadEnds.Test(uint(i))
}

// DeadEnds returns a copy of the set of indices with no delegates.
func (g *Graph) DeadEnds() *bitset.BitSet {
	return g.deadEnds.Clone()
}

// Committers returns a copy of the set of indices
// with a positive direct commitment.
func (g *Graph) Committers() *bitset.BitSet {
	return g.committers.Clone()
}

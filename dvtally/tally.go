package dvtally

import (
	"github.com/gordian-engine/gdelegate/dvgraph"
	"github.com/gordian-engine/gdelegate/dvregistry"
)

// Diagnostics describes how a resolution run terminated.
type Diagnostics struct {
	// Iterations is the number of rounds (broadcast)
	// or fixed-point iterations (weighted) actually executed.
	Iterations int `json:"iterations"`

	// Converged is true if a weighted run satisfied the tolerance,
	// or if a broadcast run had no pending weight left when it stopped.
	Converged bool `json:"converged"`

	// RoundBudget is the hard round limit of a broadcast run.
	RoundBudget int `json:"round_budget,omitempty"`

	// FinalChange is the aggregate absolute change
	// measured in the last weighted iteration.
	FinalChange float64 `json:"final_change,omitempty"`

	// DroppedWeight is weight that reached a forwarder with no delegates
	// during a broadcast run.
	DroppedWeight float64 `json:"dropped_weight,omitempty"`

	// DiscardedWeight is weight still pending when the round budget ran out.
	DiscardedWeight float64 `json:"discarded_weight,omitempty"`

	// Trapped lists participants with positive stake
	// and no delegation path to any voter (broadcast)
	// or to any participant with a direct commitment (weighted).
	Trapped []string `json:"trapped,omitempty"`
}

// Tally is the read-only result of a resolution run.
// Accessors return zero for participants or outcomes without an entry.
type Tally struct {
	mode Mode

	totalStake    float64
	totalResolved float64

	// Broadcast: resolved weight of every voter.
	weights map[string]float64

	// Weighted: aggregate per outcome, and per participant.
	outcomes  [dvregistry.NumOutcomes]float64
	breakdown map[string][dvregistry.NumOutcomes]float64

	diag Diagnostics
}

// NewBroadcast returns the tally of a broadcast run over g.
// resolved is indexed like g; only voters receive entries in the tally.
func NewBroadcast(g *dvgraph.Graph, resolved []float64, d Diagnostics) Tally {
	t := Tally{
		mode:       ModeBroadcast,
		totalStake: g.TotalStake(),
		weights:    make(map[string]float64),
		diag:       d,
	}
	for i, w := range resolved {
		if !g.IsTerminal(i) {
			continue
		}
		t.weights[g.ID(i)] = w
		t.totalResolved += w
	}
	return t
}

// NewWeighted returns the tally of a weighted run over g.
// dists is indexed like g.
func NewWeighted(g *dvgraph.Graph, dists [][dvregistry.NumOutcomes]float64, d Diagnostics) Tally {
	t := Tally{
		mode:       ModeWeighted,
		totalStake: g.TotalStake(),
		breakdown:  make(map[string][dvregistry.NumOutcomes]float64, len(dists)),
		diag:       d,
	}
	for i, dist := range dists {
		t.breakdown[g.ID(i)] = dist
		for o, v := range dist {
			t.outcomes[o] += v
		}
	}
	for _, v := range t.outcomes {
		t.totalResolved += v
	}
	return t
}

// Mode returns the mode the tally was resolved with.
func (t Tally) Mode() Mode {
	return t.mode
}

// Weight returns the resolved weight of a voter in a broadcast tally.
func (t Tally) Weight(id string) float64 {
	return t.weights[id]
}

// Weights returns a copy of the resolved weight of every voter.
// It is empty for a weighted tally.
func (t Tally) Weights() map[string]float64 {
	out := make(map[string]float64, len(t.weights))
	for k, v := range t.weights {
		out[k] = v
	}
	return out
}

// Outcome returns the aggregate weight resolved to o in a weighted tally.
func (t Tally) Outcome(o dvregistry.Outcome) float64 {
	if !o.Valid() {
		return 0
	}
	return t.outcomes[o]
}

// Outcomes returns the aggregate weight of every outcome.
// It is empty for a broadcast tally.
func (t Tally) Outcomes() map[dvregistry.Outcome]float64 {
	if t.mode != ModeWeighted {
		return map[dvregistry.Outcome]float64{}
	}
	out := make(map[dvregistry.Outcome]float64, dvregistry.NumOutcomes)
	for _, o := range dvregistry.Outcomes() {
		out[o] = t.outcomes[o]
	}
	return out
}

// Breakdown returns the resolved outcome distribution of one participant
// in a weighted tally.
func (t Tally) Breakdown(id string) [dvregistry.NumOutcomes]float64 {
	return t.breakdown[id]
}

// TotalStake returns the stake of every participant in the resolved graph.
func (t Tally) TotalStake() float64 {
	return t.totalStake
}

// TotalResolved returns the weight that reached a voter or an outcome.
func (t Tally) TotalResolved() float64 {
	return t.totalResolved
}

// LostWeight returns the stake that was not resolved.
func (t Tally) LostWeight() float64 {
	return t.totalStake - t.totalResolved
}

// Diagnostics returns details of how the run terminated.
func (t Tally) Diagnostics() Diagnostics {
	d := t.diag
	d.Trapped = append([]string(nil), t.diag.Trapped...)
	return d
}

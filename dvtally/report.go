package dvtally

import "github.com/gordian-engine/gdelegate/dvregistry"

// Report is the JSON representation of a [Tally].
type Report struct {
	Mode string `json:"mode"`

	// Broadcast only.
	Weights map[string]float64 `json:"weights,omitempty"`

	// Weighted only.
	Outcomes  map[dvregistry.Outcome]float64            `json:"outcomes,omitempty"`
	Breakdown map[string]map[dvregistry.Outcome]float64 `json:"breakdown,omitempty"`

	TotalStake    float64 `json:"total_stake"`
	TotalResolved float64 `json:"total_resolved"`
	LostWeight    float64 `json:"lost_weight"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// Report returns a serializable summary of t.
// Per-participant breakdown is only included if withBreakdown is set.
func (t Tally) Report(withBreakdown bool) Report {
	r := Report{
		Mode: t.mode.String(),

		TotalStake:    t.totalStake,
		TotalResolved: t.totalResolved,
		LostWeight:    t.LostWeight(),

		Diagnostics: t.Diagnostics(),
	}

	switch t.mode {
	case ModeBroadcast:
		r.Weights = t.Weights()
	case ModeWeighted:
		r.Outcomes = t.Outcomes()
		if withBreakdown {
			r.Breakdown = make(map[string]map[dvregistry.Outcome]float64, len(t.breakdown))
			for id, dist := range t.breakdown {
				m := make(map[dvregistry.Outcome]float64, len(dist))
				for o, v := range dist {
					m[dvregistry.Outcome(o)] = v
				}
				r.Breakdown[id] = m
			}
		}
	}

	return r
}

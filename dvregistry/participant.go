package dvregistry

// Participant is a copy of a registry entry.
// Modifying a Participant does not modify the registry it came from.
type Participant struct {
	ID    string
	Stake float64

	// Direct commitments, indexed by Outcome.
	Commitments [NumOutcomes]float64

	// Delegate IDs in the order they were added.
	// A delegate listed twice receives two shares.
	Delegates []string

	// IsVoter marks the participant as terminal in broadcast resolution.
	IsVoter bool
}

// Committed returns the sum of all direct commitments.
func (p Participant) Committed() float64 {
	var sum float64
	for _, c := range p.Commitments {
		sum += c
	}
	return sum
}

// Uncommitted returns the stake not used by direct commitments.
func (p Participant) Uncommitted() float64 {
	return p.Stake - p.Committed()
}

// Commitment returns the amount committed to o, or zero.
func (p Participant) Commitment(o Outcome) float64 {
	if !o.Valid() {
		return 0
	}
	return p.Commitments[o]
}

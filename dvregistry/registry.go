package dvregistry

import (
	"fmt"
	"math"
	"slices"
)

// Registry owns every participant record.
//
// Participants are stored in a flat slice in insertion order,
// and delegation edges are stored as indices into that slice.
// The index of a participant never changes once assigned.
//
// Every mutating method either fully applies or returns an error
// without modifying the registry.
//
// A Registry is not safe for concurrent use.
// Callers must not mutate a Registry while a graph is being built from it.
type Registry struct {
	entries []entry
	byID    map[string]int
}

type entry struct {
	id          string
	stake       float64
	commitments [NumOutcomes]float64
	delegates   []int
	isVoter     bool
}

func (e *entry) committed() float64 {
	var sum float64
	for _, c := range e.commitments {
		sum += c
	}
	return sum
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		byID: make(map[string]int),
	}
}

// AddParticipant creates a participant with the given stake,
// or updates the stake of an existing participant (last write wins).
//
// The stake must be finite and non-negative,
// and for an existing participant it must not fall below
// the amount already committed.
func (r *Registry) AddParticipant(id string, stake float64) error {
	if id == "" {
		return ErrEmptyID
	}
	if !validAmount(stake) {
		return fmt.Errorf("stake for participant %q: %w: %g", id, ErrNegativeAmount, stake)
	}

	if idx, ok := r.byID[id]; ok {
		e := &r.entries[idx]
		if c := e.committed(); c > stake {
			return &OverCommitmentError{
				ID:        id,
				Stake:     stake,
				Committed: c,
				Available: stake,
			}
		}
		e.stake = stake
		return nil
	}

	r.byID[id] = len(r.entries)
	r.entries = append(r.entries, entry{
		id:    id,
		stake: stake,
	})
	return nil
}

// RecordCommitment sets the amount the participant commits directly to o,
// replacing any earlier commitment to the same outcome.
func (r *Registry) RecordCommitment(id string, o Outcome, amount float64) error {
	if !o.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidOutcome, uint8(o))
	}
	if !validAmount(amount) {
		return fmt.Errorf("commitment for participant %q: %w: %g", id, ErrNegativeAmount, amount)
	}
	idx, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}

	e := &r.entries[idx]
	others := e.committed() - e.commitments[o]
	if others+amount > e.stake {
		return &OverCommitmentError{
			ID:        id,
			Stake:     e.stake,
			Committed: others + amount,
			Available: e.stake - others,
		}
	}

	e.commitments[o] = amount
	return nil
}

// RecordCommitmentLabel is like [Registry.RecordCommitment]
// but accepts an outcome label such as "yes" or "no".
func (r *Registry) RecordCommitmentLabel(id, label string, amount float64) error {
	o, err := ParseOutcome(label)
	if err != nil {
		return fmt.Errorf("commitment for participant %q: %w", id, err)
	}
	return r.RecordCommitment(id, o, amount)
}

// AddDelegate appends delegateID to the delegate list of id.
// Self-delegation and repeated delegates are permitted;
// a repeated delegate receives one share per occurrence.
func (r *Registry) AddDelegate(id, delegateID string) error {
	from, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	to, ok := r.byID[delegateID]
	if !ok {
		return fmt.Errorf("delegate of %q: %w: %q", id, ErrUnknownParticipant, delegateID)
	}

	r.entries[from].delegates = append(r.entries[from].delegates, to)
	return nil
}

// SetVoter sets or clears the voter flag of a single participant.
func (r *Registry) SetVoter(id string, isVoter bool) error {
	idx, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
	}
	r.entries[idx].isVoter = isVoter
	return nil
}

// SetVoters clears every voter flag and then marks each of ids as a voter.
// If any ID is unknown, no flag is changed.
func (r *Registry) SetVoters(ids []string) error {
	for _, id := range ids {
		if _, ok := r.byID[id]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParticipant, id)
		}
	}

	for i := range r.entries {
		r.entries[i].isVoter = false
	}
	for _, id := range ids {
		r.entries[r.byID[id]].isVoter = true
	}
	return nil
}

// Len returns the number of participants.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Has reports whether id is a known participant.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Index returns the stable arena index of id.
func (r *Registry) Index(id string) (int, bool) {
	idx, ok := r.byID[id]
	return idx, ok
}

// IDs returns all participant IDs in index order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.id
	}
	return out
}

// Participant returns a copy of the participant with the given ID.
func (r *Registry) Participant(id string) (Participant, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Participant{}, false
	}
	return r.At(idx), true
}

// At returns a copy of the participant at the given arena index.
// It panics if idx is out of range.
func (r *Registry) At(idx int) Participant {
	e := r.entries[idx]
	p := Participant{
		ID:          e.id,
		Stake:       e.stake,
		Commitments: e.commitments,
		IsVoter:     e.isVoter,
		Delegates:   make([]string, len(e.delegates)),
	}
	for i, d := range e.delegates {
		p.Delegates[i] = r.entries[d].id
	}
	return p
}

// DelegateIndices returns a copy of the delegate indices of the participant at idx.
// It panics if idx is out of range.
func (r *Registry) DelegateIndices(idx int) []int {
	return slices.Clone(r.entries[idx].delegates)
}

// TotalStake returns the sum of every participant's stake.
func (r *Registry) TotalStake() float64 {
	var sum float64
	for _, e := range r.entries {
		sum += e.stake
	}
	return sum
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

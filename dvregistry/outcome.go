package dvregistry

import "fmt"

// Outcome is one of the discrete choices a participant may commit stake to.
//
// The set of outcomes is closed;
// use [ParseOutcome] to convert external labels,
// so that an unknown label is rejected instead of creating a new bucket.
type Outcome uint8

const (
	OutcomeYes Outcome = iota
	OutcomeNo

	// NumOutcomes is the number of valid outcomes.
	// Per-outcome values are stored in [NumOutcomes]float64 arrays.
	NumOutcomes = 2
)

// Outcomes returns every valid outcome, in declaration order.
func Outcomes() [NumOutcomes]Outcome {
	return [NumOutcomes]Outcome{OutcomeYes, OutcomeNo}
}

// Valid reports whether o is a member of the outcome set.
func (o Outcome) Valid() bool {
	return o < NumOutcomes
}

func (o Outcome) String() string {
	switch o {
	case OutcomeYes:
		return "yes"
	case OutcomeNo:
		return "no"
	default:
		return fmt.Sprintf("Outcome(%d)", uint8(o))
	}
}

// ParseOutcome returns the outcome with the given label.
// The returned error wraps [ErrInvalidOutcome] for unknown labels.
func ParseOutcome(label string) (Outcome, error) {
	switch label {
	case "yes":
		return OutcomeYes, nil
	case "no":
		return OutcomeNo, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, label)
	}
}

// MarshalText implements [encoding.TextMarshaler],
// so outcomes can be used directly as JSON map keys.
func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Outcome) UnmarshalText(b []byte) error {
	v, err := ParseOutcome(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

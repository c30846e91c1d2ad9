package dvregistry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownParticipant is returned when a mutation references
	// a participant ID that has not been added to the registry.
	ErrUnknownParticipant = errors.New("unknown participant")

	// ErrInvalidOutcome is returned for outcomes outside the closed outcome set.
	ErrInvalidOutcome = errors.New("invalid outcome")

	// ErrNegativeAmount is returned for negative or non-finite stakes and commitments.
	ErrNegativeAmount = errors.New("negative or non-finite amount")

	// ErrOverCommitment is wrapped by [*OverCommitmentError].
	ErrOverCommitment = errors.New("commitment exceeds stake")

	ErrEmptyID = errors.New("participant ID must not be empty")
)

// OverCommitmentError is returned when a commitment or a stake update
// would leave a participant with more committed than staked.
type OverCommitmentError struct {
	ID string

	// Stake is the stake the check was made against.
	Stake float64

	// Committed is the total that would have been committed.
	Committed float64

	// Available is how much of Stake remained for the rejected commitment.
	Available float64
}

func (e *OverCommitmentError) Error() string {
	return fmt.Sprintf(
		"participant %q: commitment total %g exceeds stake %g (available: %.2f)",
		e.ID, e.Committed, e.Stake, e.Available,
	)
}

func (e *OverCommitmentError) Unwrap() error {
	return ErrOverCommitment
}

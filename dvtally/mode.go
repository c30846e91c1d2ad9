package dvtally

import "fmt"

// Mode selects the resolution semantics.
type Mode uint8

const (
	_ Mode = iota // Invalid.

	// ModeBroadcast splits a forwarder's whole stake evenly across its delegates,
	// and counts weight that lands on a voter.
	ModeBroadcast

	// ModeWeighted splits a participant's uncommitted stake across outcomes
	// in proportion to the combined outcome distribution of its delegates.
	ModeWeighted
)

func (m Mode) String() string {
	switch m {
	case ModeBroadcast:
		return "broadcast"
	case ModeWeighted:
		return "weighted"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode returns the mode with the given name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "broadcast":
		return ModeBroadcast, nil
	case "weighted", "proportional":
		return ModeWeighted, nil
	default:
		return 0, fmt.Errorf("unknown resolution mode %q", s)
	}
}

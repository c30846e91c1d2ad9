// Package dvscenario decodes delegation graph construction data
// and builds a [dvregistry.Registry] from it.
//
// A scenario names participants implicitly:
// every ID that appears as a stake key, a delegator, a delegate,
// a voter, or a committer is a participant.
// Participants without an explicit stake get [DefaultStake].
package dvscenario

import (
	"fmt"
	"slices"

	"github.com/gordian-engine/gdelegate/dvregistry"
	"github.com/gordian-engine/gdelegate/dvtally"
)

// DefaultStake is the stake of a participant without an entry in Scenario.Stakes.
const DefaultStake = 1.0

// Scenario is the data needed to construct a registry.
type Scenario struct {
	// Mode is the default resolution mode for the scenario, if any.
	Mode string `json:"mode,omitempty" toml:"mode"`

	// Participants optionally fixes the order of the first participants.
	// Remaining participants follow in lexical order.
	Participants []string `json:"participants,omitempty" toml:"participants"`

	Stakes map[string]float64 `json:"stakes,omitempty" toml:"stakes"`

	// Delegations maps a delegator to its ordered delegate list.
	// Repeated entries are preserved.
	Delegations map[string][]string `json:"delegations,omitempty" toml:"delegations"`

	// Voters are terminal participants for broadcast resolution.
	Voters []string `json:"voters,omitempty" toml:"voters"`

	// Commitments are direct votes for weighted resolution.
	Commitments []Commitment `json:"commitments,omitempty" toml:"commitments"`
}

// Commitment is one direct vote in a [Scenario].
type Commitment struct {
	Participant string  `json:"participant" toml:"participant"`
	Outcome     string  `json:"outcome" toml:"outcome"`
	Amount      float64 `json:"amount" toml:"amount"`
}

// DefaultMode returns the scenario's mode,
// or fallback if the scenario does not name one.
func (s Scenario) DefaultMode(fallback dvtally.Mode) (dvtally.Mode, error) {
	if s.Mode == "" {
		return fallback, nil
	}
	return dvtally.ParseMode(s.Mode)
}

// ParticipantIDs returns every participant the scenario mentions,
// in registry order.
func (s Scenario) ParticipantIDs() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, id := range s.Participants {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	var rest []string
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		rest = append(rest, id)
	}
	for id := range s.Stakes {
		add(id)
	}
	for from, tos := range s.Delegations {
		add(from)
		for _, to := range tos {
			add(to)
		}
	}
	for _, id := range s.Voters {
		add(id)
	}
	for _, c := range s.Commitments {
		add(c.Participant)
	}

	slices.Sort(rest)
	return append(out, rest...)
}

// Build returns a new registry populated from s.
//
// Delegations are applied in delegator registry order,
// and commitments in the order listed.
func (s Scenario) Build() (*dvregistry.Registry, error) {
	reg := dvregistry.New()

	ids := s.ParticipantIDs()
	for _, id := range ids {
		stake, ok := s.Stakes[id]
		if !ok {
			stake = DefaultStake
		}
		if err := reg.AddParticipant(id, stake); err != nil {
			return nil, fmt.Errorf("failed to add participant: %w", err)
		}
	}

	for _, from := range ids {
		for _, to := range s.Delegations[from] {
			if err := reg.AddDelegate(from, to); err != nil {
				return nil, fmt.Errorf("failed to add delegate: %w", err)
			}
		}
	}

	if err := reg.SetVoters(s.Voters); err != nil {
		return nil, fmt.Errorf("failed to set voters: %w", err)
	}

	for i, c := range s.Commitments {
		if err := reg.RecordCommitmentLabel(c.Participant, c.Outcome, c.Amount); err != nil {
			return nil, fmt.Errorf("failed to record commitment %d: %w", i, err)
		}
	}

	return reg, nil
}

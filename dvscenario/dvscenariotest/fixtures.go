// Package dvscenariotest contains scenario fixtures
// shared by tests across the module.
package dvscenariotest

import (
	"fmt"
	"math/rand/v2"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/gordian-engine/gdelegate/dvscenario"
)

// Expected values for [ProportionalDelegation].
const (
	ProportionalYes        = 206.92
	ProportionalNo         = 73.08
	ProportionalResolved   = 280.0
	ProportionalLost       = 50.0
	ProportionalTotalStake = 330.0
)

// ProportionalDelegation returns a weighted scenario exercising
// full and partial direct votes, single and multiple delegation,
// and an isolated delegation cycle:
//
//   - Alice (100) votes yes with 100.
//   - Bob (50) votes no with 30 and has no delegates, so 20 is lost.
//   - Charlie (20) delegates to Alice.
//   - David (100) delegates to Alice and Bob.
//   - Eve (30) votes yes with 10 and delegates the remaining 20 to Bob.
//   - Frank (10) delegates to George; George (10) and Harry (10)
//     delegate to each other, so all 30 is lost.
func ProportionalDelegation() dvscenario.Scenario {
	return dvscenario.Scenario{
		Mode: "weighted",
		Participants: []string{
			"Alice", "Bob", "Charlie", "David", "Eve", "Frank", "George", "Harry",
		},
		Stakes: map[string]float64{
			"Alice":   100,
			"Bob":     50,
			"Charlie": 20,
			"David":   100,
			"Eve":     30,
			"Frank":   10,
			"George":  10,
			"Harry":   10,
		},
		Delegations: map[string][]string{
			"Charlie": {"Alice"},
			"David":   {"Alice", "Bob"},
			"Eve":     {"Bob"},
			"George":  {"Harry"},
			"Harry":   {"George"},
			"Frank":   {"George"},
		},
		Commitments: []dvscenario.Commitment{
			{Participant: "Alice", Outcome: "yes", Amount: 100},
			{Participant: "Bob", Outcome: "no", Amount: 30},
			{Participant: "Eve", Outcome: "yes", Amount: 10},
		},
	}
}

// MutualCycle returns a broadcast scenario where "a" and "b"
// delegate only to each other, next to an unrelated voter "v".
// Every participant has the default stake.
func MutualCycle() dvscenario.Scenario {
	return dvscenario.Scenario{
		Mode: "broadcast",
		Delegations: map[string][]string{
			"a": {"b"},
			"b": {"a"},
		},
		Voters: []string{"v"},
	}
}

// Chain returns a broadcast scenario of n participants p0..p(n-1),
// where each delegates to the next and only the last one is a voter.
// Every participant has the default stake.
func Chain(n int) dvscenario.Scenario {
	s := dvscenario.Scenario{
		Mode:         "broadcast",
		Participants: make([]string, n),
		Delegations:  make(map[string][]string, n),
	}
	for i := range n {
		s.Participants[i] = fmt.Sprintf("p%d", i)
	}
	for i := range n - 1 {
		s.Delegations[s.Participants[i]] = []string{s.Participants[i+1]}
	}
	if n > 0 {
		s.Voters = []string{s.Participants[n-1]}
	}
	return s
}

// RandomWeighted returns a weighted scenario of n participants
// with random stakes in [10, 1000).
// Each participant commits a random part of its stake to a random outcome
// with 70% probability, and with 80% probability delegates
// to between 1 and 5 distinct other participants.
func RandomWeighted(rng *rand.Rand, n int) dvscenario.Scenario {
	s := randomBase(rng, n, "weighted")
	for _, id := range s.Participants {
		if rng.Float64() < 0.7 {
			outcome := "yes"
			if rng.IntN(2) == 1 {
				outcome = "no"
			}
			s.Commitments = append(s.Commitments, dvscenario.Commitment{
				Participant: id,
				Outcome:     outcome,
				Amount:      rng.Float64() * s.Stakes[id],
			})
		}
	}
	return s
}

// RandomBroadcast is like [RandomWeighted],
// except that participants become voters instead of committing.
func RandomBroadcast(rng *rand.Rand, n int) dvscenario.Scenario {
	s := randomBase(rng, n, "broadcast")
	for _, id := range s.Participants {
		if rng.Float64() < 0.3 {
			s.Voters = append(s.Voters, id)
		}
	}
	return s
}

func randomBase(rng *rand.Rand, n int, mode string) dvscenario.Scenario {
	s := dvscenario.Scenario{
		Mode:         mode,
		Participants: make([]string, n),
		Stakes:       make(map[string]float64, n),
		Delegations:  make(map[string][]string),
	}
	for i := range n {
		// The index suffix keeps names unique.
		id := fmt.Sprintf("%s-%d", petname.Generate(2, "-"), i)
		s.Participants[i] = id
		s.Stakes[id] = 10 + rng.Float64()*990
	}

	if n < 2 {
		return s
	}
	for i, id := range s.Participants {
		if rng.Float64() >= 0.8 {
			continue
		}
		nDels := 1 + rng.IntN(min(5, n-1))
		picked := make(map[int]struct{}, nDels)
		dels := make([]string, 0, nDels)
		for len(dels) < nDels {
			j := rng.IntN(n)
			if _, ok := picked[j]; ok || j == i {
				continue
			}
			picked[j] = struct{}{}
			dels = append(dels, s.Participants[j])
		}
		s.Delegations[id] = dels
	}
	return s
}

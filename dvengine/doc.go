// Package dvengine resolves delegated voting power over a [dvgraph.Graph].
//
// Two resolution modes are available, selected by [dvtally.Mode]:
//
//   - [dvtally.ModeBroadcast]: voters keep their stake;
//     every other participant forwards its whole stake,
//     split evenly across its delegate list, one hop per round.
//     Rounds are capped at twice the number of participants,
//     and weight still circulating at that point is discarded.
//
//   - [dvtally.ModeWeighted]: each participant's outcome distribution is its
//     direct commitments, plus its uncommitted stake divided across outcomes
//     in proportion to the combined distribution of its delegates.
//     Distributions are recomputed simultaneously from the previous iteration
//     until the aggregate change is below the tolerance,
//     or until the iteration limit is reached.
//
// Both modes are bounded loops and always produce a [dvtally.Tally].
// Whether a run converged is reported through [dvtally.Diagnostics].
//
// Resolution does not modify the graph,
// so an Engine may resolve the same graph repeatedly
// and get identical results.
package dvengine

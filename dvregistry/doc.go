// Package dvregistry contains the participant registry
// used as input to delegated voting power resolution.
//
// The [Registry] is an arena of participants:
// each participant has a stake, optional direct commitments
// to a closed set of [Outcome] values, a voter flag for broadcast resolution,
// and an ordered list of delegates referenced by arena index.
//
// The registry validates every mutation synchronously.
// A rejected mutation leaves the registry unchanged.
package dvregistry

// Package electionregistry owns the election lifecycle: creation of public
// and private elections, the listing surfaces, and the authoritative vote
// records with exactly-once semantics per voter identifier. Creator quota,
// whitelist enrollment and sponsorship status are consumed through ports so
// the registry never reaches into the other services' packages.
package electionregistry

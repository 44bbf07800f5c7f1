package errors

import "errors"

var (
	// ErrElectionNotFound means the referenced election does not exist.
	ErrElectionNotFound = errors.New("election not found")

	// ErrInvalidTitle rejects empty election titles.
	ErrInvalidTitle = errors.New("election title must not be empty")

	// ErrInvalidCandidatesLength rejects candidate lists with fewer than
	// two distinct entries.
	ErrInvalidCandidatesLength = errors.New("election needs at least two distinct candidates")

	// ErrInvalidElectionWindow rejects windows that end before they start
	// or end in the past.
	ErrInvalidElectionWindow = errors.New("election window is invalid")

	// ErrElectionNotActive rejects votes outside the voting window.
	ErrElectionNotActive = errors.New("election is not accepting votes")

	// ErrElectionIsPrivate rejects voters who are not on a private
	// election's whitelist.
	ErrElectionIsPrivate = errors.New("election is private")

	// ErrInvalidCandidate rejects votes for candidates not on the ballot.
	ErrInvalidCandidate = errors.New("candidate is not on the ballot")

	// ErrDuplicateVote rejects a second ballot from the same identifier.
	ErrDuplicateVote = errors.New("identifier has already voted in this election")

	// ErrInvalidIdentifier rejects votes without a usable voter identifier.
	ErrInvalidIdentifier = errors.New("voter identifier is invalid")
)

package errors

import "errors"

var (
	// ErrCreatorBlacklisted blocks every quota grant for the creator.
	ErrCreatorBlacklisted = errors.New("creator is blacklisted")

	// ErrElectionQuotaExceeded means the creator already runs the maximum
	// number of active elections.
	ErrElectionQuotaExceeded = errors.New("active election quota exceeded")

	// ErrSponsorshipQuotaExceeded means the deposit would push the
	// creator's total locked sponsorship over the cap.
	ErrSponsorshipQuotaExceeded = errors.New("creator sponsorship limit exceeded")

	// ErrOperatorRestricted gates blacklist changes to the registry
	// operator.
	ErrOperatorRestricted = errors.New("operation restricted to the registry operator")

	// ErrWindowNotFound means no quota window exists for the election.
	ErrWindowNotFound = errors.New("election quota window not found")

	// ErrInvalidAmount rejects non-positive sponsorship amounts.
	ErrInvalidAmount = errors.New("amount must be positive")
)

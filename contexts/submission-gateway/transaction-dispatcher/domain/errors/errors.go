package errors

import "errors"

// Submission rails classify their failures by wrapping one of these
// sentinels. The dispatcher decides from the class alone: rejections abort,
// rail failures advance, transient failures retry on the same rail, and
// unknown outcomes are settled by reading the vote record back.
var (
	// ErrBallotRejected is a definitive no: not whitelisted, duplicate
	// vote, closed election, bad candidate. No other rail can fix it.
	ErrBallotRejected = errors.New("ballot rejected")

	// ErrRailFailed means this rail cannot deliver the ballot; the next
	// one might.
	ErrRailFailed = errors.New("submission rail failed")

	// ErrRailUnavailable is transient; the same rail may work on retry.
	ErrRailUnavailable = errors.New("submission rail temporarily unavailable")

	// ErrOutcomeUnknown means the rail cannot say whether the ballot
	// landed.
	ErrOutcomeUnknown = errors.New("submission outcome unknown")

	// ErrNoIdentifier means the request carried no resolvable voter
	// identity.
	ErrNoIdentifier = errors.New("no voter identifier available")

	// ErrAccessDenied means the voter may not enter this election at all.
	ErrAccessDenied = errors.New("voter has no access to this election")

	// ErrExhaustedAllStrategies means every rail failed without a
	// definitive rejection.
	ErrExhaustedAllStrategies = errors.New("all submission strategies exhausted")
)

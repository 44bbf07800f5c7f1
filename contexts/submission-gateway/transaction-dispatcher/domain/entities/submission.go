package entities

import "time"

// SubmissionState is the dispatcher's position in the fallback chain.
type SubmissionState string

const (
	StatePrepared                   SubmissionState = "prepared"
	StateTryingSponsoredPath        SubmissionState = "trying_sponsored_path"
	StateTryingSelfPaidSmartAccount SubmissionState = "trying_self_paid_smart_account"
	StateTryingDirectWalletFallback SubmissionState = "trying_direct_wallet_fallback"
	StateTryingRegularWallet        SubmissionState = "trying_regular_wallet"
	StateSucceeded                  SubmissionState = "succeeded"
	StateExhaustedAllStrategies     SubmissionState = "exhausted_all_strategies"
)

// Strategy names, in fallback order.
const (
	StrategySponsoredRelay  = "sponsored-relay"
	StrategySelfPaidAccount = "self-paid-smart-account"
	StrategyDirectWallet    = "direct-wallet-fallback"
	StrategyRegularWallet   = "regular-wallet"
)

// NextTryingState advances the chain one rail. Succeeded and exhausted are
// terminal.
func NextTryingState(state SubmissionState) SubmissionState {
	switch state {
	case StatePrepared:
		return StateTryingSponsoredPath
	case StateTryingSponsoredPath:
		return StateTryingSelfPaidSmartAccount
	case StateTryingSelfPaidSmartAccount:
		return StateTryingDirectWalletFallback
	case StateTryingDirectWalletFallback:
		return StateTryingRegularWallet
	case StateTryingRegularWallet:
		return StateExhaustedAllStrategies
	default:
		return state
	}
}

// StrategyFor maps a trying state to the rail it exercises.
func StrategyFor(state SubmissionState) string {
	switch state {
	case StateTryingSponsoredPath:
		return StrategySponsoredRelay
	case StateTryingSelfPaidSmartAccount:
		return StrategySelfPaidAccount
	case StateTryingDirectWalletFallback:
		return StrategyDirectWallet
	case StateTryingRegularWallet:
		return StrategyRegularWallet
	default:
		return ""
	}
}

// Terminal reports whether the chain stops at this state.
func Terminal(state SubmissionState) bool {
	return state == StateSucceeded || state == StateExhaustedAllStrategies
}

// Attempt is one submission try on one rail.
type Attempt struct {
	Strategy string
	Try      int
	Error    string
	At       time.Time
}

// Submission is the audit record of one dispatch.
type Submission struct {
	SubmissionID    string
	ElectionID      string
	IdentifierType  string
	IdentifierValue string
	Candidate       string
	State           SubmissionState
	Strategy        string
	Sponsored       bool
	Reference       string
	Attempts        []Attempt
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package errors

import "errors"

var (
	// ErrElectionNotFound means the referenced election does not exist.
	ErrElectionNotFound = errors.New("election not found")

	// ErrOwnerPermissioned rejects deposits from anyone other than the
	// election owner.
	ErrOwnerPermissioned = errors.New("only the election owner can sponsor this election")

	// ErrOnlySponsorCanWithdraw rejects withdrawals from anyone other than
	// the sponsor of record.
	ErrOnlySponsorCanWithdraw = errors.New("only the sponsor can withdraw")

	// ErrInvalidSponsorshipAmount rejects deposits below the minimum.
	ErrInvalidSponsorshipAmount = errors.New("sponsorship amount below minimum")

	// ErrInvalidAmount rejects zero or negative withdrawal amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance rejects withdrawals exceeding the remaining
	// balance.
	ErrInsufficientBalance = errors.New("insufficient sponsorship balance")

	// ErrEmergencyWithdrawalNotAllowed means neither the account's emergency
	// flag nor the large-balance escape hatch applies.
	ErrEmergencyWithdrawalNotAllowed = errors.New("emergency withdrawal not allowed")

	// ErrNoSponsorship means no account exists for the election yet.
	ErrNoSponsorship = errors.New("election has no sponsorship account")

	// ErrLedgerInconsistent signals an accounting invariant violation and is
	// never expected in normal operation.
	ErrLedgerInconsistent = errors.New("sponsorship ledger inconsistent")
)

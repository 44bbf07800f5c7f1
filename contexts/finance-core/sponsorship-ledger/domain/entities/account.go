package entities

import "time"

// Monetary amounts are integral gwei so the ledger never accumulates float
// drift. 1 ETH = 1_000_000_000 gwei.
const (
	// CostPerVote is deducted from the sponsor balance for each sponsored
	// ballot (0.001 ETH).
	CostPerVote int64 = 1_000_000

	// MinSponsorshipAmount is the smallest deposit the ledger accepts
	// (0.01 ETH).
	MinSponsorshipAmount int64 = 10_000_000

	// MinimumActiveThreshold is the remaining balance below which an
	// election stops advertising itself as sponsored (0.01 ETH).
	MinimumActiveThreshold int64 = 10_000_000

	// LargeBalanceThreshold lets a sponsor pull funds without the emergency
	// flag when more than 0.2 ETH is still locked up.
	LargeBalanceThreshold int64 = 200_000_000
)

// SponsorshipAccount is the per-election balance sheet. One account per
// election, owned by the sponsor who funded it first. The emergency flag is
// per account: the sponsor arms it for their own election only.
type SponsorshipAccount struct {
	ElectionID                 string
	SponsorID                  string
	TotalDeposited             int64
	TotalSpent                 int64
	TotalWithdrawn             int64
	EmergencyWithdrawalEnabled bool
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// RemainingBalance is what deposits minus spend and withdrawals leaves for
// future votes. Never negative for a well-formed account.
func (a SponsorshipAccount) RemainingBalance() int64 {
	return a.TotalDeposited - a.TotalSpent - a.TotalWithdrawn
}

// IsSponsored reports whether the election still qualifies for gasless
// voting. The threshold is deliberately higher than a single vote so the
// listing does not flicker on the last few ballots.
func (a SponsorshipAccount) IsSponsored() bool {
	return a.RemainingBalance() >= MinimumActiveThreshold
}

// VotesSponsored is how many ballots the account has paid for so far.
func (a SponsorshipAccount) VotesSponsored() int64 {
	if CostPerVote <= 0 {
		return 0
	}
	return a.TotalSpent / CostPerVote
}

// CanCoverVotes reports whether the remaining balance pays for count votes.
func (a SponsorshipAccount) CanCoverVotes(count int64) bool {
	if count <= 0 {
		return true
	}
	return a.RemainingBalance() >= count*CostPerVote
}

// VotesRemaining is how many sponsored ballots the balance still covers.
func (a SponsorshipAccount) VotesRemaining() int64 {
	if CostPerVote <= 0 {
		return 0
	}
	remaining := a.RemainingBalance()
	if remaining <= 0 {
		return 0
	}
	return remaining / CostPerVote
}

// Consistent checks the accounting invariant: every counter non-negative and
// deposits fully explain spend plus withdrawals.
func (a SponsorshipAccount) Consistent() bool {
	if a.TotalDeposited < 0 || a.TotalSpent < 0 || a.TotalWithdrawn < 0 {
		return false
	}
	return a.RemainingBalance() >= 0
}

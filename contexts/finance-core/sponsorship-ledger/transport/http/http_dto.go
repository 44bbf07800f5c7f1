package http

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DepositRequest adds sponsor funds to an election. Amounts are gwei.
type DepositRequest struct {
	Amount int64 `json:"amount_gwei"`
}

// WithdrawRequest pulls part of the remaining balance back to the sponsor.
type WithdrawRequest struct {
	Amount int64 `json:"amount_gwei"`
}

// SponsorshipResponse mirrors the account after a mutation.
type SponsorshipResponse struct {
	ElectionID       string `json:"election_id"`
	SponsorID        string `json:"sponsor_id"`
	TotalDeposited   int64  `json:"total_deposited_gwei"`
	TotalSpent       int64  `json:"total_spent_gwei"`
	TotalWithdrawn   int64  `json:"total_withdrawn_gwei"`
	RemainingBalance int64  `json:"remaining_gwei"`
	Sponsored        bool   `json:"sponsored"`
}

// EmergencyWithdrawRequest drains the remaining balance. The reason is kept
// for the audit event.
type EmergencyWithdrawRequest struct {
	Reason string `json:"reason,omitempty"`
}

// EmergencyWithdrawResponse reports the drained amount.
type EmergencyWithdrawResponse struct {
	ElectionID string `json:"election_id"`
	Withdrawn  int64  `json:"withdrawn_gwei"`
}

// EmergencyFlagResponse acknowledges an emergency-flag toggle.
type EmergencyFlagResponse struct {
	ElectionID string `json:"election_id"`
	Enabled    bool   `json:"emergency_withdrawal_enabled"`
}

// StatusResponse is the sponsorship read model for one election.
type StatusResponse struct {
	ElectionID                 string `json:"election_id"`
	SponsorID                  string `json:"sponsor_id,omitempty"`
	TotalDeposited             int64  `json:"total_deposited_gwei"`
	TotalSpent                 int64  `json:"total_spent_gwei"`
	TotalWithdrawn             int64  `json:"total_withdrawn_gwei"`
	RemainingBalance           int64  `json:"remaining_gwei"`
	VotesRemaining             int64  `json:"votes_remaining"`
	VotesSponsored             int64  `json:"total_votes_sponsored"`
	Sponsored                  bool   `json:"sponsored"`
	EmergencyWithdrawalEnabled bool   `json:"emergency_withdrawal_enabled"`
}

// AnalyticsResponse is the per-election spend report.
type AnalyticsResponse struct {
	ElectionID      string `json:"election_id"`
	CostPerVote     int64  `json:"cost_per_vote_gwei"`
	VotesSponsored  int64  `json:"votes_sponsored"`
	UtilizationRate int64  `json:"utilization_rate_percent"`
	Efficiency      int64  `json:"efficiency_votes_per_eth"`
}

// OverviewResponse aggregates the whole ledger.
type OverviewResponse struct {
	Accounts           int   `json:"accounts"`
	SponsoredElections int   `json:"sponsored_elections"`
	TotalDeposited     int64 `json:"total_deposited_gwei"`
	TotalSpent         int64 `json:"total_spent_gwei"`
	TotalWithdrawn     int64 `json:"total_withdrawn_gwei"`
	TotalRemaining     int64 `json:"total_remaining_gwei"`
}

// CheckFundsResponse answers whether the balance covers the requested votes.
type CheckFundsResponse struct {
	ElectionID       string `json:"election_id"`
	RequestedVotes   int64  `json:"requested_votes"`
	Covered          bool   `json:"covered"`
	VotesRemaining   int64  `json:"votes_remaining"`
	RemainingBalance int64  `json:"remaining_gwei"`
}

package http

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreatorProfileResponse is the quota position for one creator.
type CreatorProfileResponse struct {
	CreatorID            string `json:"creator_id"`
	Blacklisted          bool   `json:"blacklisted"`
	ActiveElections      int    `json:"active_elections"`
	SponsorshipHeld      int64  `json:"sponsorship_held_gwei"`
	TotalElections       int    `json:"total_elections_created"`
	TotalDeposited       int64  `json:"total_sponsorship_deposited_gwei"`
	TotalWithdrawn       int64  `json:"total_sponsorship_withdrawn_gwei"`
	RemainingElections   int    `json:"remaining_elections"`
	RemainingSponsorship int64  `json:"remaining_sponsorship_gwei"`
}

// BlacklistResponse acknowledges a blacklist change.
type BlacklistResponse struct {
	CreatorID   string `json:"creator_id"`
	Blacklisted bool   `json:"blacklisted"`
}

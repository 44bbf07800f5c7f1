package httptransport

import "time"

// DispatchVoteRequest carries the voter's session facets alongside the
// ballot. The dispatcher decides which facet identifies the voter and which
// rail carries the vote.
type DispatchVoteRequest struct {
	SocialProvider      string `json:"social_provider,omitempty"`
	Email               string `json:"email,omitempty"`
	Handle              string `json:"handle,omitempty"`
	SmartAccountAddress string `json:"smart_account_address,omitempty"`
	WalletAddress       string `json:"wallet_address,omitempty"`
	Candidate           string `json:"candidate"`
}

type AttemptResponse struct {
	Strategy string    `json:"strategy"`
	Try      int       `json:"try"`
	Error    string    `json:"error"`
	At       time.Time `json:"at"`
}

type SubmissionResponse struct {
	SubmissionID    string            `json:"submission_id"`
	ElectionID      string            `json:"election_id"`
	IdentifierType  string            `json:"identifier_type"`
	IdentifierValue string            `json:"identifier_value"`
	Candidate       string            `json:"candidate"`
	State           string            `json:"state"`
	Strategy        string            `json:"strategy,omitempty"`
	Sponsored       bool              `json:"sponsored"`
	Reference       string            `json:"reference,omitempty"`
	Attempts        []AttemptResponse `json:"attempts,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

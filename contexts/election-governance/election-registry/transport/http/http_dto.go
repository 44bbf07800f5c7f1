package http

import "time"

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WhitelistEntryInput is one identifier to enroll at creation time.
type WhitelistEntryInput struct {
	IdentifierType string `json:"identifier_type"`
	Value          string `json:"value"`
}

// CandidateInput is one ballot entry to create. IDs are assigned in list
// order by the registry.
type CandidateInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CreateElectionRequest starts a public election. A non-zero initial
// deposit sponsors it in the same request. An omitted ballot type means
// simple majority; an omitted result type follows the ballot type.
type CreateElectionRequest struct {
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	Candidates         []CandidateInput `json:"candidates"`
	BallotType         int64            `json:"ballot_type,omitempty"`
	ResultType         int64            `json:"result_type,omitempty"`
	StartsAt           time.Time        `json:"starts_at,omitempty"`
	EndsAt             time.Time        `json:"ends_at"`
	InitialDepositGwei int64            `json:"initial_deposit_gwei,omitempty"`
}

// CreatePrivateElectionRequest starts a whitelisted election.
type CreatePrivateElectionRequest struct {
	CreateElectionRequest
	Whitelist []WhitelistEntryInput `json:"whitelist"`
}

// CandidateResponse is one ballot entry as stored.
type CandidateResponse struct {
	CandidateID int64  `json:"candidate_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ElectionResponse is the public shape of an election.
type ElectionResponse struct {
	ElectionID  string              `json:"election_id"`
	OwnerID     string              `json:"owner_id"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Candidates  []CandidateResponse `json:"candidates"`
	BallotType  int64               `json:"ballot_type"`
	ResultType  int64               `json:"result_type"`
	StartsAt    time.Time           `json:"starts_at"`
	EndsAt      time.Time           `json:"ends_at"`
	Private     bool                `json:"private"`
	Status      string              `json:"status"`
	Sponsored   bool                `json:"sponsored"`
}

// ElectionListResponse wraps a listing surface.
type ElectionListResponse struct {
	Elections []ElectionResponse `json:"elections"`
}

// CastVoteRequest records one ballot.
type CastVoteRequest struct {
	IdentifierType  string `json:"identifier_type"`
	IdentifierValue string `json:"identifier_value"`
	Candidate       string `json:"candidate"`
}

// VoteResponse acknowledges a recorded ballot.
type VoteResponse struct {
	VoteID     string    `json:"vote_id"`
	ElectionID string    `json:"election_id"`
	Candidate  string    `json:"candidate"`
	Sponsored  bool      `json:"sponsored"`
	CastAt     time.Time `json:"cast_at"`
}

// CandidateTallyResponse is one row of a result.
type CandidateTallyResponse struct {
	Candidate string `json:"candidate"`
	Votes     int    `json:"votes"`
}

// ResultsResponse is the tally for one election.
type ResultsResponse struct {
	ElectionID string                   `json:"election_id"`
	Status     string                   `json:"status"`
	TotalVotes int                      `json:"total_votes"`
	Tally      []CandidateTallyResponse `json:"tally"`
}

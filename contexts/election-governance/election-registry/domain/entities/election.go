package entities

import (
	"strings"
	"time"
)

// MinCandidates is the smallest candidate list that makes an election a
// choice at all.
const MinCandidates = 2

// ElectionStatus is derived from the voting window, never stored.
type ElectionStatus string

const (
	ElectionStatusPending ElectionStatus = "pending"
	ElectionStatusActive  ElectionStatus = "active"
	ElectionStatusEnded   ElectionStatus = "ended"
)

// Candidate is one entry on the ballot. CandidateID is the zero-based
// position assigned at creation and stable for the election's lifetime.
type Candidate struct {
	CandidateID int64
	Name        string
	Description string
}

// Election is the registry's aggregate root.
type Election struct {
	ElectionID  string
	OwnerID     string
	Title       string
	Description string
	Candidates  []Candidate
	BallotType  int64
	ResultType  int64
	StartsAt    time.Time
	EndsAt      time.Time
	Private     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatusAt derives the lifecycle phase from the voting window.
func (e Election) StatusAt(now time.Time) ElectionStatus {
	if now.Before(e.StartsAt) {
		return ElectionStatusPending
	}
	if now.Before(e.EndsAt) {
		return ElectionStatusActive
	}
	return ElectionStatusEnded
}

// AcceptsVotesAt reports whether a ballot cast at now falls in the window.
func (e Election) AcceptsVotesAt(now time.Time) bool {
	return e.StatusAt(now) == ElectionStatusActive
}

// HasCandidate matches candidate names case-insensitively.
func (e Election) HasCandidate(name string) bool {
	name = strings.TrimSpace(name)
	for _, c := range e.Candidates {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return true
		}
	}
	return false
}

// VoteRecord is one accepted ballot. The (ElectionID, IdentifierType, Value)
// triple is unique: a voter identifier casts at most one vote per election.
type VoteRecord struct {
	VoteID          string
	ElectionID      string
	IdentifierType  string
	IdentifierValue string
	Candidate       string
	Sponsored       bool
	CastAt          time.Time
}

// CandidateTally is one row of an election's result.
type CandidateTally struct {
	Candidate string
	Votes     int
}

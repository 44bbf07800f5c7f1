package ports

import (
	"context"
	"time"
)

// IdentityFacets is the raw material the voter's session provides. The
// resolver decides which facet identifies the ballot.
type IdentityFacets struct {
	SocialProvider      string
	Email               string
	Handle              string
	SmartAccountAddress string
	WalletAddress       string
}

// Identifier is the resolved canonical voter identity.
type Identifier struct {
	Type  string
	Value string
}

// Ballot is one vote ready for submission.
type Ballot struct {
	ElectionID      string
	IdentifierType  string
	IdentifierValue string
	Candidate       string
}

// Receipt acknowledges a landed ballot.
type Receipt struct {
	Reference string
	Sponsored bool
}

// IdentityResolver turns session facets into the canonical identifier.
type IdentityResolver interface {
	Resolve(ctx context.Context, facets IdentityFacets) (Identifier, error)
}

// AccessChecker answers whether the identifier may enter the election.
type AccessChecker interface {
	CanAccess(ctx context.Context, electionID string, identifierType string, value string) (bool, error)
}

// SponsorshipProbe reports whether the election still funds gasless ballots.
type SponsorshipProbe interface {
	IsSponsored(ctx context.Context, electionID string) (bool, error)
}

// VoteReader settles ambiguous outcomes by reading the record back.
type VoteReader interface {
	HasVoted(ctx context.Context, electionID string, identifierType string, value string) (bool, error)
}

// SponsoredRelay submits the ballot on the sponsor's funds.
type SponsoredRelay interface {
	Submit(ctx context.Context, ballot Ballot) (Receipt, error)
}

// SmartAccountClient submits the ballot from the voter's smart account.
type SmartAccountClient interface {
	Submit(ctx context.Context, ballot Ballot) (Receipt, error)
}

// WalletClient covers the two wallet rails: the managed direct transaction
// and the voter's own regular wallet.
type WalletClient interface {
	SubmitDirect(ctx context.Context, ballot Ballot) (Receipt, error)
	SubmitRegular(ctx context.Context, ballot Ballot) (Receipt, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

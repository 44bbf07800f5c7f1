package ports

import (
	"context"
	"time"

	"agora/contexts/election-governance/election-registry/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// ElectionRepository persists elections.
type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, bool, error)
	ListElections(ctx context.Context, private bool) ([]entities.Election, error)
}

// VoteRepository persists ballots. CreateVote must be atomic create-if-absent
// on the (election, identifier type, identifier value) key: exactly one of N
// concurrent calls for the same key reports inserted=true.
type VoteRepository interface {
	CreateVote(ctx context.Context, vote entities.VoteRecord) (inserted bool, err error)
	SaveVote(ctx context.Context, vote entities.VoteRecord) error
	GetVoteByIdentity(ctx context.Context, electionID string, identifierType string, value string) (entities.VoteRecord, bool, error)
	ListVotesByElection(ctx context.Context, electionID string) ([]entities.VoteRecord, error)
}

// QuotaGate is the slice of the creator quota service the registry needs.
// AuthorizeSponsorship is the pre-creation check for an initial deposit; the
// deposit itself settles through the SponsorshipGate.
type QuotaGate interface {
	AuthorizeCreation(ctx context.Context, creatorID string) error
	AuthorizeSponsorship(ctx context.Context, creatorID string, amount int64) error
	RecordCreation(ctx context.Context, creatorID string, electionID string, endsAt time.Time) error
}

// WhitelistEnrollment is one identifier granted access at creation time.
type WhitelistEnrollment struct {
	IdentifierType string
	Value          string
}

// AccessGate fronts the whitelist registry: enrollment at private-election
// creation and the membership question at vote time.
type AccessGate interface {
	Enroll(ctx context.Context, electionID string, ownerID string, entries []WhitelistEnrollment) error
	CanAccess(ctx context.Context, electionID string, identifierType string, value string) (bool, error)
}

// SponsorshipGate fronts the sponsorship ledger.
type SponsorshipGate interface {
	IsSponsored(ctx context.Context, electionID string) (bool, error)
	TrySpendForVote(ctx context.Context, electionID string, voteID string) (bool, error)
	Deposit(ctx context.Context, electionID string, sponsorID string, amount int64) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

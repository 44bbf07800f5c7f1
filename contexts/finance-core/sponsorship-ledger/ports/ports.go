package ports

import (
	"context"
	"time"

	"agora/contexts/finance-core/sponsorship-ledger/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// ElectionProjection is the slice of election state the ledger needs: who
// owns it and whether it exists at all.
type ElectionProjection struct {
	ElectionID string
	OwnerID    string
	EndsAt     time.Time
}

// ElectionDirectory resolves elections without reaching into the election
// registry's own packages.
type ElectionDirectory interface {
	GetElection(ctx context.Context, electionID string) (ElectionProjection, bool, error)
}

// AccountRepository persists sponsorship accounts. Implementations must serve
// reads from a consistent snapshot while writes are in flight.
type AccountRepository interface {
	SaveAccount(ctx context.Context, account entities.SponsorshipAccount) error
	GetAccount(ctx context.Context, electionID string) (entities.SponsorshipAccount, bool, error)
	ListAccounts(ctx context.Context) ([]entities.SponsorshipAccount, error)
}

// QuotaGate keeps the creator quota service's held-sponsorship totals in
// step with the ledger. RecordDeposit enforces the per-creator sponsorship
// cap and claims the amount in one call; RecordWithdrawal releases it after
// funds leave the ledger.
type QuotaGate interface {
	RecordDeposit(ctx context.Context, creatorID string, electionID string, amount int64) error
	RecordWithdrawal(ctx context.Context, creatorID string, electionID string, amount int64) error
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

package ports

import (
	"context"
	"time"

	"agora/contexts/election-governance/whitelist-registry/domain/entities"
)

// ElectionProjection is the slice of election state the whitelist needs:
// ownership for permission checks and visibility for canAccess.
type ElectionProjection struct {
	ElectionID string
	OwnerID    string
	Private    bool
}

type ElectionDirectory interface {
	GetElection(ctx context.Context, electionID string) (ElectionProjection, bool, error)
}

type EntryRepository interface {
	UpsertEntry(ctx context.Context, entry entities.WhitelistEntry) error
	GetEntry(ctx context.Context, electionID string, identifierType entities.IdentifierType, value string) (entities.WhitelistEntry, bool, error)
	ListEntriesByElection(ctx context.Context, electionID string) ([]entities.WhitelistEntry, error)
}

type Clock interface {
	Now() time.Time
}

package application

import (
	"encoding/json"
	"time"

	"agora/contexts/finance-core/sponsorship-ledger/ports"
)

const (
	EventTypeSponsorshipDeposited          = "sponsorship.deposited"
	EventTypeSponsorshipWithdrawn          = "sponsorship.withdrawn"
	EventTypeSponsorshipEmergencyWithdrawn = "sponsorship.emergency_withdrawn"
	EventTypeVoteSponsored                 = "vote.sponsored"
)

func newLedgerEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Ledger events are partitioned by election so consumers see one
	// election's money movements in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "sponsorship-ledger",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}

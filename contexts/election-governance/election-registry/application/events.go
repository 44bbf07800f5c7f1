package application

import (
	"encoding/json"
	"time"

	"agora/contexts/election-governance/election-registry/ports"
)

const (
	EventTypeElectionCreated = "election.created"
	EventTypeVoteCast        = "vote.cast"
)

func newRegistryEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Registry events are partitioned by election so per-election consumers
	// see creation before votes.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "election-registry",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "election_id",
		PartitionKey:     electionID,
		Data:             payload,
	}, nil
}

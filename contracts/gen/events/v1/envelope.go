// Package v1 carries the version-1 event contract shared by every context.
// Outbox relays wrap their domain payloads in this envelope before handing
// them to the bus; consumers in other contexts decode Data against the
// event type. Field names are part of the wire contract: additions only,
// no renames.
package v1

import (
	"encoding/json"
	"time"
)

// Envelope frames one domain event for cross-context delivery. PartitionKey
// keeps events of one election in order on partitioned transports; Data is
// the event-type-specific payload left opaque at this layer.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

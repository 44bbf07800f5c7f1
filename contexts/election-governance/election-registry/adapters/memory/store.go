package memory

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"agora/contexts/election-governance/election-registry/domain/entities"
	"agora/contexts/election-governance/election-registry/ports"
)

var errOutboxRowMissing = errors.New("outbox row not found")

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory registry used by tests and local runs. CreateVote
// is atomic under the store lock: one winner per identity key.
type Store struct {
	mu        sync.RWMutex
	elections map[string]entities.Election
	votes     map[string]entities.VoteRecord
	outbox    map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		elections: make(map[string]entities.Election),
		votes:     make(map[string]entities.VoteRecord),
		outbox:    make(map[string]outboxRecord),
	}
}

func voteKey(electionID string, identifierType string, value string) string {
	return strings.Join([]string{
		strings.TrimSpace(electionID),
		strings.TrimSpace(identifierType),
		strings.TrimSpace(value),
	}, "|")
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(election.ElectionID)] = election
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[strings.TrimSpace(electionID)]
	return election, ok, nil
}

func (s *Store) ListElections(_ context.Context, private bool) ([]entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	elections := make([]entities.Election, 0)
	for _, election := range s.elections {
		if election.Private == private {
			elections = append(elections, election)
		}
	}
	sort.Slice(elections, func(i, j int) bool {
		return elections[i].ElectionID < elections[j].ElectionID
	})
	return elections, nil
}

func (s *Store) CreateVote(_ context.Context, vote entities.VoteRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := voteKey(vote.ElectionID, vote.IdentifierType, vote.IdentifierValue)
	if _, exists := s.votes[key]; exists {
		return false, nil
	}
	s.votes[key] = vote
	return true, nil
}

func (s *Store) SaveVote(_ context.Context, vote entities.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[voteKey(vote.ElectionID, vote.IdentifierType, vote.IdentifierValue)] = vote
	return nil
}

func (s *Store) GetVoteByIdentity(_ context.Context, electionID string, identifierType string, value string) (entities.VoteRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vote, ok := s.votes[voteKey(electionID, identifierType, value)]
	return vote, ok, nil
}

func (s *Store) ListVotesByElection(_ context.Context, electionID string) ([]entities.VoteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	electionID = strings.TrimSpace(electionID)
	votes := make([]entities.VoteRecord, 0)
	for _, vote := range s.votes {
		if vote.ElectionID == electionID {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool {
		return votes[i].CastAt.Before(votes[j].CastAt)
	})
	return votes, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if _, ok := s.outbox[outboxID]; ok {
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return errOutboxRowMissing
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

// SystemClock implements ports.Clock on the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator implements ports.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

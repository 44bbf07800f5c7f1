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

	"agora/contexts/finance-core/sponsorship-ledger/domain/entities"
	"agora/contexts/finance-core/sponsorship-ledger/ports"
)

var errOutboxRowMissing = errors.New("outbox row not found")

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
}

// Store is the in-memory ledger used by tests and local runs. All reads see
// a consistent snapshot under the store lock.
type Store struct {
	mu        sync.RWMutex
	accounts  map[string]entities.SponsorshipAccount
	elections map[string]ports.ElectionProjection
	outbox    map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		accounts:  make(map[string]entities.SponsorshipAccount),
		elections: make(map[string]ports.ElectionProjection),
		outbox:    make(map[string]outboxRecord),
	}
}

// SetElection seeds the directory projection.
func (s *Store) SetElection(projection ports.ElectionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(projection.ElectionID)] = projection
}

func (s *Store) GetElection(_ context.Context, electionID string) (ports.ElectionProjection, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projection, ok := s.elections[strings.TrimSpace(electionID)]
	return projection, ok, nil
}

func (s *Store) SaveAccount(_ context.Context, account entities.SponsorshipAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[strings.TrimSpace(account.ElectionID)] = account
	return nil
}

func (s *Store) GetAccount(_ context.Context, electionID string) (entities.SponsorshipAccount, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[strings.TrimSpace(electionID)]
	return account, ok, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]entities.SponsorshipAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]entities.SponsorshipAccount, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].ElectionID < accounts[j].ElectionID
	})
	return accounts, nil
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

// PendingOutboxTypes is a test helper listing pending event types in order.
func (s *Store) PendingOutboxTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
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
	types := make([]string, 0, len(items))
	for _, item := range items {
		types = append(types, item.EventType)
	}
	return types
}

// SystemClock implements ports.Clock on the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator implements ports.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

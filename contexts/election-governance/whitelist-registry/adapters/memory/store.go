package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"agora/contexts/election-governance/whitelist-registry/domain/entities"
	"agora/contexts/election-governance/whitelist-registry/ports"
)

// Store is the in-memory repository used in tests and in-memory wiring. A
// single RWMutex keeps every read a consistent snapshot of one entry.
type Store struct {
	mu sync.RWMutex

	entries   map[string]entities.WhitelistEntry
	elections map[string]ports.ElectionProjection
}

func NewStore(seed []entities.WhitelistEntry) *Store {
	entries := make(map[string]entities.WhitelistEntry, len(seed))
	for _, entry := range seed {
		entries[entry.Key()] = entry
	}
	return &Store{
		entries:   entries,
		elections: make(map[string]ports.ElectionProjection),
	}
}

func (s *Store) SetElection(projection ports.ElectionProjection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[strings.TrimSpace(projection.ElectionID)] = ports.ElectionProjection{
		ElectionID: strings.TrimSpace(projection.ElectionID),
		OwnerID:    strings.TrimSpace(projection.OwnerID),
		Private:    projection.Private,
	}
}

func (s *Store) GetElection(_ context.Context, electionID string) (ports.ElectionProjection, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	projection, ok := s.elections[strings.TrimSpace(electionID)]
	return projection, ok, nil
}

func (s *Store) UpsertEntry(_ context.Context, entry entities.WhitelistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key()] = entry
	return nil
}

func (s *Store) GetEntry(
	_ context.Context,
	electionID string,
	identifierType entities.IdentifierType,
	value string,
) (entities.WhitelistEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := entities.WhitelistEntry{
		ElectionID:     electionID,
		IdentifierType: identifierType,
		Value:          value,
	}.Key()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *Store) ListEntriesByElection(_ context.Context, electionID string) ([]entities.WhitelistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target := strings.TrimSpace(electionID)
	items := make([]entities.WhitelistEntry, 0)
	for _, entry := range s.entries {
		if entry.ElectionID == target {
			items = append(items, entry)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].IdentifierType == items[j].IdentifierType {
			return items[i].Value < items[j].Value
		}
		return items[i].IdentifierType < items[j].IdentifierType
	})
	return items, nil
}

// ActiveCount is a test helper: the size of the active membership set.
func (s *Store) ActiveCount(electionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	target := strings.TrimSpace(electionID)
	count := 0
	for _, entry := range s.entries {
		if entry.ElectionID == target && entry.Active {
			count++
		}
	}
	return count
}

// SystemClock satisfies the service clock port.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agora/contexts/election-governance/whitelist-registry/domain/entities"
	domainerrors "agora/contexts/election-governance/whitelist-registry/domain/errors"
	"agora/contexts/election-governance/whitelist-registry/ports"
)

// EntryInput is one requested grant or revocation.
type EntryInput struct {
	IdentifierType string
	Value          string
}

// AddEntriesCommand upserts whitelist entries for an election. CallerID must
// be the election owner.
type AddEntriesCommand struct {
	ElectionID string
	CallerID   string
	Entries    []EntryInput
}

// RemoveEntriesCommand soft-deletes matching entries. Missing entries are
// skipped, not errors.
type RemoveEntriesCommand struct {
	ElectionID string
	CallerID   string
	Entries    []EntryInput
}

// Service owns whitelist writes and membership reads. Writes on the same
// election are serialized; reads go straight to the repository, whose
// snapshot guarantees make them safe to run concurrently with writes.
type Service struct {
	Elections ports.ElectionDirectory
	Entries   ports.EntryRepository
	Clock     ports.Clock
	Logger    *slog.Logger

	mu            sync.Mutex
	electionLocks map[string]*sync.Mutex
}

// Add validates and upserts entries with active=true. Re-adding an existing
// key is a no-op that leaves the set size unchanged. Returns the number of
// entries that were newly activated.
func (s *Service) Add(ctx context.Context, cmd AddEntriesCommand) (int, error) {
	logger := ResolveLogger(s.Logger)
	if err := s.requireOwner(ctx, cmd.ElectionID, cmd.CallerID); err != nil {
		return 0, err
	}

	normalized := make([]entities.WhitelistEntry, 0, len(cmd.Entries))
	for _, input := range cmd.Entries {
		entry, err := normalizeInput(cmd.ElectionID, input)
		if err != nil {
			logger.Warn("whitelist entry rejected",
				"event", "whitelist_add_entry_invalid",
				"module", "election-governance/whitelist-registry",
				"layer", "application",
				"election_id", strings.TrimSpace(cmd.ElectionID),
				"identifier_type", strings.TrimSpace(input.IdentifierType),
			)
			return 0, err
		}
		normalized = append(normalized, entry)
	}

	unlock := s.lockElection(cmd.ElectionID)
	defer unlock()

	now := s.now()
	added := 0
	for _, entry := range normalized {
		existing, found, err := s.Entries.GetEntry(ctx, entry.ElectionID, entry.IdentifierType, entry.Value)
		if err != nil {
			return added, err
		}
		if found && existing.Active {
			continue
		}
		entry.Active = true
		entry.UpdatedAt = now
		if found {
			entry.CreatedAt = existing.CreatedAt
		} else {
			entry.CreatedAt = now
		}
		if err := s.Entries.UpsertEntry(ctx, entry); err != nil {
			return added, err
		}
		added++
	}

	logger.Info("whitelist entries added",
		"event", "whitelist_entries_added",
		"module", "election-governance/whitelist-registry",
		"layer", "application",
		"election_id", strings.TrimSpace(cmd.ElectionID),
		"requested", len(cmd.Entries),
		"activated", added,
	)
	return added, nil
}

// Remove sets matching entries inactive. The rows stay behind for audit.
func (s *Service) Remove(ctx context.Context, cmd RemoveEntriesCommand) error {
	logger := ResolveLogger(s.Logger)
	if err := s.requireOwner(ctx, cmd.ElectionID, cmd.CallerID); err != nil {
		return err
	}

	unlock := s.lockElection(cmd.ElectionID)
	defer unlock()

	now := s.now()
	removed := 0
	for _, input := range cmd.Entries {
		entry, err := normalizeInput(cmd.ElectionID, input)
		if err != nil {
			return err
		}
		existing, found, err := s.Entries.GetEntry(ctx, entry.ElectionID, entry.IdentifierType, entry.Value)
		if err != nil {
			return err
		}
		if !found || !existing.Active {
			continue
		}
		existing.Active = false
		existing.UpdatedAt = now
		if err := s.Entries.UpsertEntry(ctx, existing); err != nil {
			return err
		}
		removed++
	}

	logger.Info("whitelist entries removed",
		"event", "whitelist_entries_removed",
		"module", "election-governance/whitelist-registry",
		"layer", "application",
		"election_id", strings.TrimSpace(cmd.ElectionID),
		"requested", len(cmd.Entries),
		"deactivated", removed,
	)
	return nil
}

// IsMember reports whether an active entry exists for the identifier.
func (s *Service) IsMember(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	entry, err := normalizeInput(electionID, EntryInput{IdentifierType: identifierType, Value: value})
	if err != nil {
		return false, err
	}
	existing, found, err := s.Entries.GetEntry(ctx, entry.ElectionID, entry.IdentifierType, entry.Value)
	if err != nil {
		return false, err
	}
	return found && existing.Active, nil
}

// CanAccess answers the accessibility question for one identifier: public
// elections admit everyone, private elections require membership.
func (s *Service) CanAccess(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	election, found, err := s.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return false, err
	}
	if !found {
		return false, domainerrors.ErrElectionNotFound
	}
	if !election.Private {
		return true, nil
	}
	return s.IsMember(ctx, electionID, identifierType, value)
}

// ListEntries returns the full whitelist (including inactive rows) to the
// election owner.
func (s *Service) ListEntries(ctx context.Context, electionID string, callerID string) ([]entities.WhitelistEntry, error) {
	if err := s.requireOwner(ctx, electionID, callerID); err != nil {
		return nil, err
	}
	return s.Entries.ListEntriesByElection(ctx, strings.TrimSpace(electionID))
}

func (s *Service) requireOwner(ctx context.Context, electionID string, callerID string) error {
	election, found, err := s.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrElectionNotFound
	}
	if !strings.EqualFold(strings.TrimSpace(election.OwnerID), strings.TrimSpace(callerID)) {
		return domainerrors.ErrOwnerPermissioned
	}
	return nil
}

func (s *Service) lockElection(electionID string) func() {
	key := strings.TrimSpace(electionID)
	s.mu.Lock()
	if s.electionLocks == nil {
		s.electionLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := s.electionLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.electionLocks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func normalizeInput(electionID string, input EntryInput) (entities.WhitelistEntry, error) {
	if !entities.KnownIdentifierType(input.IdentifierType) {
		return entities.WhitelistEntry{}, domainerrors.ErrInvalidWhitelistEntry
	}
	identifierType := entities.IdentifierType(strings.ToLower(strings.TrimSpace(input.IdentifierType)))
	value := normalizeValue(input.Value, identifierType)
	if value == "" {
		return entities.WhitelistEntry{}, domainerrors.ErrInvalidWhitelistEntry
	}
	return entities.WhitelistEntry{
		ElectionID:     strings.TrimSpace(electionID),
		IdentifierType: identifierType,
		Value:          value,
	}, nil
}

// normalizeValue mirrors the canonical identifier form: lower-case, handle
// prefixes stripped, wallet addresses 0x-prefixed.
func normalizeValue(value string, identifierType entities.IdentifierType) string {
	normalized := strings.TrimSpace(value)
	switch identifierType {
	case entities.IdentifierTypeTwitter, entities.IdentifierTypeFarcaster, entities.IdentifierTypeGithub:
		normalized = strings.TrimPrefix(normalized, "@")
	case entities.IdentifierTypeWallet:
		if normalized != "" && !strings.HasPrefix(normalized, "0x") && !strings.HasPrefix(normalized, "0X") {
			normalized = "0x" + normalized
		}
	}
	return strings.ToLower(normalized)
}

package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agora/contexts/election-governance/creator-quota-service/domain/entities"
	domainerrors "agora/contexts/election-governance/creator-quota-service/domain/errors"
	"agora/contexts/election-governance/creator-quota-service/ports"
)

// ProfileView is the read model for one creator's quota position.
type ProfileView struct {
	CreatorID            string
	Blacklisted          bool
	ActiveElections      int
	SponsorshipHeld      int64
	TotalElections       int
	TotalDeposited       int64
	TotalWithdrawn       int64
	RemainingElections   int
	RemainingSponsorship int64
}

// Service enforces creator quotas. Mutations for the same creator are
// serialized so concurrent creations and deposits cannot slip past a limit
// together.
type Service struct {
	Profiles ports.ProfileRepository
	Windows  ports.WindowRepository
	Clock    ports.Clock
	Operator string
	Logger   *slog.Logger

	mu           sync.Mutex
	creatorLocks map[string]*sync.Mutex
}

// AuthorizeCreation checks whether the creator may start another election.
func (s *Service) AuthorizeCreation(ctx context.Context, creatorID string) error {
	creatorID = strings.TrimSpace(creatorID)
	unlock := s.lockCreator(creatorID)
	defer unlock()
	return s.authorizeCreationLocked(ctx, creatorID)
}

// RecordCreation claims a quota slot for a new election. The limit check and
// the claim happen under one creator lock.
func (s *Service) RecordCreation(ctx context.Context, creatorID string, electionID string, endsAt time.Time) error {
	logger := ResolveLogger(s.Logger)
	creatorID = strings.TrimSpace(creatorID)
	electionID = strings.TrimSpace(electionID)

	unlock := s.lockCreator(creatorID)
	defer unlock()

	if _, found, err := s.Windows.GetWindow(ctx, electionID); err != nil {
		return err
	} else if found {
		return nil
	}
	if err := s.authorizeCreationLocked(ctx, creatorID); err != nil {
		return err
	}

	now := s.now()
	if err := s.ensureProfile(ctx, creatorID, now); err != nil {
		return err
	}
	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return err
	}
	profile.TotalElections++
	profile.UpdatedAt = now
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return err
	}
	window := entities.ElectionWindow{
		ElectionID: electionID,
		CreatorID:  creatorID,
		EndsAt:     endsAt.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Windows.SaveWindow(ctx, window); err != nil {
		return err
	}

	logger.Info("creator quota slot claimed",
		"event", "quota_creation_recorded",
		"module", "election-governance/creator-quota-service",
		"layer", "application",
		"creator_id", creatorID,
		"election_id", electionID,
	)
	return nil
}

// AuthorizeSponsorship checks whether a deposit of amount keeps the creator
// under the sponsorship cap.
func (s *Service) AuthorizeSponsorship(ctx context.Context, creatorID string, amount int64) error {
	creatorID = strings.TrimSpace(creatorID)
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}
	unlock := s.lockCreator(creatorID)
	defer unlock()

	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return err
	}
	if profile.Blacklisted {
		return domainerrors.ErrCreatorBlacklisted
	}
	if profile.SponsorshipHeld+amount > entities.MaxSponsorshipPerCreator {
		return domainerrors.ErrSponsorshipQuotaExceeded
	}
	return nil
}

// RecordDeposit adds a confirmed deposit to the creator's held total and the
// election's window.
func (s *Service) RecordDeposit(ctx context.Context, creatorID string, electionID string, amount int64) error {
	logger := ResolveLogger(s.Logger)
	creatorID = strings.TrimSpace(creatorID)
	electionID = strings.TrimSpace(electionID)
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	unlock := s.lockCreator(creatorID)
	defer unlock()

	now := s.now()
	if err := s.ensureProfile(ctx, creatorID, now); err != nil {
		return err
	}
	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return err
	}
	if profile.Blacklisted {
		return domainerrors.ErrCreatorBlacklisted
	}
	if profile.SponsorshipHeld+amount > entities.MaxSponsorshipPerCreator {
		return domainerrors.ErrSponsorshipQuotaExceeded
	}

	profile.SponsorshipHeld += amount
	profile.TotalDeposited += amount
	profile.UpdatedAt = now
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return err
	}

	window, found, err := s.Windows.GetWindow(ctx, electionID)
	if err != nil {
		return err
	}
	if found {
		window.SponsorshipHeld += amount
		window.UpdatedAt = now
		if err := s.Windows.SaveWindow(ctx, window); err != nil {
			return err
		}
	}

	logger.Info("creator sponsorship recorded",
		"event", "quota_deposit_recorded",
		"module", "election-governance/creator-quota-service",
		"layer", "application",
		"creator_id", creatorID,
		"election_id", electionID,
		"amount_gwei", amount,
		"held_gwei", profile.SponsorshipHeld,
	)
	return nil
}

// RecordWithdrawal frees held quota after a confirmed withdrawal.
func (s *Service) RecordWithdrawal(ctx context.Context, creatorID string, electionID string, amount int64) error {
	creatorID = strings.TrimSpace(creatorID)
	electionID = strings.TrimSpace(electionID)
	if amount <= 0 {
		return domainerrors.ErrInvalidAmount
	}

	unlock := s.lockCreator(creatorID)
	defer unlock()

	now := s.now()
	profile, found, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil || !found {
		return err
	}
	profile.SponsorshipHeld -= amount
	if profile.SponsorshipHeld < 0 {
		profile.SponsorshipHeld = 0
	}
	profile.TotalWithdrawn += amount
	profile.UpdatedAt = now
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return err
	}

	window, found, err := s.Windows.GetWindow(ctx, electionID)
	if err != nil || !found {
		return err
	}
	window.SponsorshipHeld -= amount
	if window.SponsorshipHeld < 0 {
		window.SponsorshipHeld = 0
	}
	window.UpdatedAt = now
	return s.Windows.SaveWindow(ctx, window)
}

// ReleaseElection frees the quota slot and any sponsorship still held by the
// election's window. Safe to call more than once.
func (s *Service) ReleaseElection(ctx context.Context, electionID string) error {
	logger := ResolveLogger(s.Logger)
	electionID = strings.TrimSpace(electionID)

	window, found, err := s.Windows.GetWindow(ctx, electionID)
	if err != nil {
		return err
	}
	if !found {
		return domainerrors.ErrWindowNotFound
	}

	unlock := s.lockCreator(window.CreatorID)
	defer unlock()

	// Re-read under the lock; a concurrent release may have won.
	window, found, err = s.Windows.GetWindow(ctx, electionID)
	if err != nil || !found {
		return err
	}
	if window.Released {
		return nil
	}

	now := s.now()
	held := window.SponsorshipHeld
	window.Released = true
	window.SponsorshipHeld = 0
	window.UpdatedAt = now
	if err := s.Windows.SaveWindow(ctx, window); err != nil {
		return err
	}

	if held > 0 {
		profile, found, err := s.Profiles.GetProfile(ctx, window.CreatorID)
		if err != nil {
			return err
		}
		if found {
			profile.SponsorshipHeld -= held
			if profile.SponsorshipHeld < 0 {
				profile.SponsorshipHeld = 0
			}
			profile.UpdatedAt = now
			if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
				return err
			}
		}
	}

	logger.Info("creator quota released",
		"event", "quota_election_released",
		"module", "election-governance/creator-quota-service",
		"layer", "application",
		"creator_id", window.CreatorID,
		"election_id", electionID,
		"released_gwei", held,
	)
	return nil
}

// Blacklist blocks a creator from new elections and sponsorships. Operator
// only.
func (s *Service) Blacklist(ctx context.Context, callerID string, creatorID string) error {
	return s.setBlacklisted(ctx, callerID, creatorID, true)
}

// Unblacklist restores a creator. Operator only.
func (s *Service) Unblacklist(ctx context.Context, callerID string, creatorID string) error {
	return s.setBlacklisted(ctx, callerID, creatorID, false)
}

func (s *Service) setBlacklisted(ctx context.Context, callerID string, creatorID string, blacklisted bool) error {
	logger := ResolveLogger(s.Logger)
	if !strings.EqualFold(strings.TrimSpace(callerID), strings.TrimSpace(s.Operator)) {
		return domainerrors.ErrOperatorRestricted
	}
	creatorID = strings.TrimSpace(creatorID)

	unlock := s.lockCreator(creatorID)
	defer unlock()

	now := s.now()
	if err := s.ensureProfile(ctx, creatorID, now); err != nil {
		return err
	}
	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return err
	}
	profile.Blacklisted = blacklisted
	profile.UpdatedAt = now
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return err
	}

	logger.Warn("creator blacklist changed",
		"event", "quota_blacklist_changed",
		"module", "election-governance/creator-quota-service",
		"layer", "application",
		"creator_id", creatorID,
		"blacklisted", blacklisted,
	)
	return nil
}

// Profile returns the creator's quota position.
func (s *Service) Profile(ctx context.Context, creatorID string) (ProfileView, error) {
	creatorID = strings.TrimSpace(creatorID)
	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return ProfileView{}, err
	}
	active, err := s.activeElections(ctx, creatorID)
	if err != nil {
		return ProfileView{}, err
	}

	view := ProfileView{
		CreatorID:            creatorID,
		Blacklisted:          profile.Blacklisted,
		ActiveElections:      active,
		SponsorshipHeld:      profile.SponsorshipHeld,
		TotalElections:       profile.TotalElections,
		TotalDeposited:       profile.TotalDeposited,
		TotalWithdrawn:       profile.TotalWithdrawn,
		RemainingElections:   entities.MaxActiveElectionsPerCreator - active,
		RemainingSponsorship: entities.MaxSponsorshipPerCreator - profile.SponsorshipHeld,
	}
	if view.RemainingElections < 0 {
		view.RemainingElections = 0
	}
	if view.RemainingSponsorship < 0 {
		view.RemainingSponsorship = 0
	}
	return view, nil
}

func (s *Service) authorizeCreationLocked(ctx context.Context, creatorID string) error {
	profile, _, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil {
		return err
	}
	if profile.Blacklisted {
		return domainerrors.ErrCreatorBlacklisted
	}
	active, err := s.activeElections(ctx, creatorID)
	if err != nil {
		return err
	}
	if active >= entities.MaxActiveElectionsPerCreator {
		return domainerrors.ErrElectionQuotaExceeded
	}
	return nil
}

func (s *Service) activeElections(ctx context.Context, creatorID string) (int, error) {
	windows, err := s.Windows.ListWindowsByCreator(ctx, creatorID)
	if err != nil {
		return 0, err
	}
	now := s.now()
	active := 0
	for _, window := range windows {
		if window.ActiveAt(now) {
			active++
		}
	}
	return active, nil
}

func (s *Service) ensureProfile(ctx context.Context, creatorID string, now time.Time) error {
	_, found, err := s.Profiles.GetProfile(ctx, creatorID)
	if err != nil || found {
		return err
	}
	return s.Profiles.SaveProfile(ctx, entities.CreatorProfile{
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *Service) lockCreator(creatorID string) func() {
	key := strings.TrimSpace(creatorID)
	s.mu.Lock()
	if s.creatorLocks == nil {
		s.creatorLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := s.creatorLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.creatorLocks[key] = lock
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

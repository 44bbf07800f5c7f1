package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/election-governance/election-registry/domain/entities"
	domainerrors "agora/contexts/election-governance/election-registry/domain/errors"
	"agora/contexts/election-governance/election-registry/ports"
)

// CandidateSpec names one ballot entry at creation time. IDs are assigned
// by the registry in list order.
type CandidateSpec struct {
	Name        string
	Description string
}

// CreateElectionCommand starts a public election. A non-zero
// InitialDepositGwei funds the election's sponsorship in the same call.
// A zero BallotType defaults to simple majority (type 1); a zero
// ResultType follows the ballot type.
type CreateElectionCommand struct {
	OwnerID            string
	Title              string
	Description        string
	Candidates         []CandidateSpec
	BallotType         int64
	ResultType         int64
	StartsAt           time.Time
	EndsAt             time.Time
	InitialDepositGwei int64
}

// CreatePrivateElectionCommand starts a whitelisted election. The initial
// whitelist is enrolled atomically with creation from the caller's view.
type CreatePrivateElectionCommand struct {
	CreateElectionCommand
	Whitelist []ports.WhitelistEnrollment
}

// CastVoteCommand records one ballot for one voter identifier.
type CastVoteCommand struct {
	ElectionID      string
	IdentifierType  string
	IdentifierValue string
	Candidate       string
}

// ElectionView decorates an election with its derived status and sponsorship
// flag for listing surfaces.
type ElectionView struct {
	Election  entities.Election
	Status    entities.ElectionStatus
	Sponsored bool
}

// ResultsView is the tally for one election.
type ResultsView struct {
	ElectionID string
	Status     entities.ElectionStatus
	TotalVotes int
	Tally      []entities.CandidateTally
}

// Service owns the election lifecycle and the authoritative vote records.
// Vote writes rely on the repository's atomic create-if-absent; election
// creation is serialized per owner by the quota gate.
type Service struct {
	Elections   ports.ElectionRepository
	Votes       ports.VoteRepository
	Quota       ports.QuotaGate
	Access      ports.AccessGate
	Sponsorship ports.SponsorshipGate
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

// CreateElection validates, claims quota and persists a public election.
func (s *Service) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	return s.create(ctx, cmd, false, nil)
}

// CreatePrivateElection persists a private election and enrolls its initial
// whitelist.
func (s *Service) CreatePrivateElection(ctx context.Context, cmd CreatePrivateElectionCommand) (entities.Election, error) {
	return s.create(ctx, cmd.CreateElectionCommand, true, cmd.Whitelist)
}

func (s *Service) create(ctx context.Context, cmd CreateElectionCommand, private bool, whitelist []ports.WhitelistEnrollment) (entities.Election, error) {
	logger := ResolveLogger(s.Logger)
	ownerID := strings.TrimSpace(cmd.OwnerID)
	now := s.now()

	election, err := s.buildElection(cmd, private, now)
	if err != nil {
		logger.Warn("election creation rejected",
			"event", "election_create_invalid",
			"module", "election-governance/election-registry",
			"layer", "application",
			"owner_id", ownerID,
			"error", err.Error(),
		)
		return entities.Election{}, err
	}

	if err := s.Quota.AuthorizeCreation(ctx, ownerID); err != nil {
		return entities.Election{}, err
	}
	if cmd.InitialDepositGwei > 0 {
		// Reject a deposit over the creator's cap before anything is
		// persisted; the deposit itself settles after creation.
		if err := s.Quota.AuthorizeSponsorship(ctx, ownerID, cmd.InitialDepositGwei); err != nil {
			return entities.Election{}, err
		}
	}

	electionID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election.ElectionID = electionID

	if err := s.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if err := s.Quota.RecordCreation(ctx, ownerID, electionID, election.EndsAt); err != nil {
		return entities.Election{}, err
	}

	if private && len(whitelist) > 0 {
		if err := s.Access.Enroll(ctx, electionID, ownerID, whitelist); err != nil {
			return entities.Election{}, err
		}
	}

	if cmd.InitialDepositGwei > 0 {
		if err := s.Sponsorship.Deposit(ctx, electionID, ownerID, cmd.InitialDepositGwei); err != nil {
			logger.Warn("initial sponsorship deposit failed",
				"event", "election_create_deposit_failed",
				"module", "election-governance/election-registry",
				"layer", "application",
				"election_id", electionID,
				"owner_id", ownerID,
				"amount_gwei", cmd.InitialDepositGwei,
				"error", err.Error(),
			)
			return entities.Election{}, err
		}
	}

	if err := s.appendEvent(ctx, EventTypeElectionCreated, electionID, now, map[string]any{
		"election_id": electionID,
		"owner_id":    ownerID,
		"private":     private,
		"starts_at":   election.StartsAt,
		"ends_at":     election.EndsAt,
		"candidates":  len(election.Candidates),
	}); err != nil {
		logger.Error("election created event append failed",
			"event", "election_create_event_failed",
			"module", "election-governance/election-registry",
			"layer", "application",
			"election_id", electionID,
			"error", err.Error(),
		)
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "election-governance/election-registry",
		"layer", "application",
		"election_id", electionID,
		"owner_id", ownerID,
		"private", private,
		"whitelist_size", len(whitelist),
		"deposit_gwei", cmd.InitialDepositGwei,
	)
	return election, nil
}

func (s *Service) buildElection(cmd CreateElectionCommand, private bool, now time.Time) (entities.Election, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return entities.Election{}, domainerrors.ErrInvalidTitle
	}

	candidates := make([]entities.Candidate, 0, len(cmd.Candidates))
	seen := make(map[string]bool, len(cmd.Candidates))
	for _, spec := range cmd.Candidates {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, entities.Candidate{
			CandidateID: int64(len(candidates)),
			Name:        name,
			Description: strings.TrimSpace(spec.Description),
		})
	}
	if len(candidates) < entities.MinCandidates {
		return entities.Election{}, domainerrors.ErrInvalidCandidatesLength
	}

	ballotType := cmd.BallotType
	if ballotType == 0 {
		ballotType = 1
	}
	resultType := cmd.ResultType
	if resultType == 0 {
		resultType = ballotType
	}

	startsAt := cmd.StartsAt.UTC()
	if startsAt.IsZero() {
		startsAt = now
	}
	endsAt := cmd.EndsAt.UTC()
	if !endsAt.After(startsAt) || !endsAt.After(now) {
		return entities.Election{}, domainerrors.ErrInvalidElectionWindow
	}

	return entities.Election{
		OwnerID:     strings.TrimSpace(cmd.OwnerID),
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Candidates:  candidates,
		BallotType:  ballotType,
		ResultType:  resultType,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Private:     private,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CastVote records one ballot. Exactly one of N concurrent votes for the
// same identifier lands; the rest see ErrDuplicateVote. A depleted
// sponsorship never fails the vote, it only flips the sponsored flag.
func (s *Service) CastVote(ctx context.Context, cmd CastVoteCommand) (entities.VoteRecord, error) {
	logger := ResolveLogger(s.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)

	if !entities.KnownIdentifierType(cmd.IdentifierType) {
		return entities.VoteRecord{}, domainerrors.ErrInvalidIdentifier
	}
	identifierType, value := entities.NormalizeIdentifier(cmd.IdentifierType, cmd.IdentifierValue)
	if value == "" {
		return entities.VoteRecord{}, domainerrors.ErrInvalidIdentifier
	}

	election, found, err := s.Elections.GetElection(ctx, electionID)
	if err != nil {
		return entities.VoteRecord{}, err
	}
	if !found {
		return entities.VoteRecord{}, domainerrors.ErrElectionNotFound
	}

	now := s.now()
	if !election.AcceptsVotesAt(now) {
		return entities.VoteRecord{}, domainerrors.ErrElectionNotActive
	}
	candidate := strings.TrimSpace(cmd.Candidate)
	if !election.HasCandidate(candidate) {
		return entities.VoteRecord{}, domainerrors.ErrInvalidCandidate
	}

	if election.Private {
		allowed, err := s.Access.CanAccess(ctx, electionID, identifierType, value)
		if err != nil {
			return entities.VoteRecord{}, err
		}
		if !allowed {
			return entities.VoteRecord{}, domainerrors.ErrElectionIsPrivate
		}
	}

	voteID, err := s.IDs.NewID(ctx)
	if err != nil {
		return entities.VoteRecord{}, err
	}
	vote := entities.VoteRecord{
		VoteID:          voteID,
		ElectionID:      electionID,
		IdentifierType:  identifierType,
		IdentifierValue: value,
		Candidate:       candidate,
		CastAt:          now,
	}

	inserted, err := s.Votes.CreateVote(ctx, vote)
	if err != nil {
		return entities.VoteRecord{}, err
	}
	if !inserted {
		return entities.VoteRecord{}, domainerrors.ErrDuplicateVote
	}

	// The ballot is already durable; sponsorship only decides who pays.
	sponsored, err := s.Sponsorship.TrySpendForVote(ctx, electionID, voteID)
	if err != nil {
		logger.Error("vote sponsorship spend failed",
			"event", "vote_sponsorship_spend_failed",
			"module", "election-governance/election-registry",
			"layer", "application",
			"election_id", electionID,
			"vote_id", voteID,
			"error", err.Error(),
		)
		sponsored = false
	}
	if sponsored {
		vote.Sponsored = true
		if err := s.Votes.SaveVote(ctx, vote); err != nil {
			return entities.VoteRecord{}, err
		}
	}

	if err := s.appendEvent(ctx, EventTypeVoteCast, electionID, now, map[string]any{
		"election_id":     electionID,
		"vote_id":         voteID,
		"identifier_type": identifierType,
		"sponsored":       vote.Sponsored,
	}); err != nil {
		logger.Error("vote cast event append failed",
			"event", "vote_cast_event_failed",
			"module", "election-governance/election-registry",
			"layer", "application",
			"election_id", electionID,
			"vote_id", voteID,
			"error", err.Error(),
		)
	}

	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "election-governance/election-registry",
		"layer", "application",
		"election_id", electionID,
		"vote_id", voteID,
		"identifier_type", identifierType,
		"sponsored", vote.Sponsored,
	)
	return vote, nil
}

// Get returns one election with its derived status and sponsorship flag.
func (s *Service) Get(ctx context.Context, electionID string) (ElectionView, error) {
	election, found, err := s.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionView{}, err
	}
	if !found {
		return ElectionView{}, domainerrors.ErrElectionNotFound
	}
	return s.toView(ctx, election), nil
}

// ListPublic returns all public elections.
func (s *Service) ListPublic(ctx context.Context) ([]ElectionView, error) {
	elections, err := s.Elections.ListElections(ctx, false)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, elections), nil
}

// ListPrivate returns all private elections.
func (s *Service) ListPrivate(ctx context.Context) ([]ElectionView, error) {
	elections, err := s.Elections.ListElections(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.toViews(ctx, elections), nil
}

// ListOpen returns every election whose voting window has not yet closed,
// pending ones included.
func (s *Service) ListOpen(ctx context.Context) ([]ElectionView, error) {
	public, err := s.Elections.ListElections(ctx, false)
	if err != nil {
		return nil, err
	}
	private, err := s.Elections.ListElections(ctx, true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	open := make([]ElectionView, 0)
	for _, election := range append(public, private...) {
		if election.StatusAt(now) == entities.ElectionStatusEnded {
			continue
		}
		open = append(open, s.toView(ctx, election))
	}
	return open, nil
}

// ListAccessible returns public elections plus the private ones the given
// identifier is whitelisted for. Without an identifier only public elections
// come back.
func (s *Service) ListAccessible(ctx context.Context, identifierType string, value string) ([]ElectionView, error) {
	public, err := s.Elections.ListElections(ctx, false)
	if err != nil {
		return nil, err
	}
	views := s.toViews(ctx, public)

	identifierType, value = entities.NormalizeIdentifier(identifierType, value)
	if value == "" || !entities.KnownIdentifierType(identifierType) {
		return views, nil
	}

	private, err := s.Elections.ListElections(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, election := range private {
		allowed, err := s.Access.CanAccess(ctx, election.ElectionID, identifierType, value)
		if err != nil {
			return nil, err
		}
		if allowed {
			views = append(views, s.toView(ctx, election))
		}
	}
	return views, nil
}

// Results tallies the recorded votes. Candidates keep their ballot order and
// appear even with zero votes.
func (s *Service) Results(ctx context.Context, electionID string) (ResultsView, error) {
	electionID = strings.TrimSpace(electionID)
	election, found, err := s.Elections.GetElection(ctx, electionID)
	if err != nil {
		return ResultsView{}, err
	}
	if !found {
		return ResultsView{}, domainerrors.ErrElectionNotFound
	}

	votes, err := s.Votes.ListVotesByElection(ctx, electionID)
	if err != nil {
		return ResultsView{}, err
	}

	counts := make(map[string]int, len(election.Candidates))
	for _, vote := range votes {
		counts[strings.ToLower(vote.Candidate)]++
	}
	tally := make([]entities.CandidateTally, 0, len(election.Candidates))
	for _, candidate := range election.Candidates {
		tally = append(tally, entities.CandidateTally{
			Candidate: candidate.Name,
			Votes:     counts[strings.ToLower(candidate.Name)],
		})
	}
	return ResultsView{
		ElectionID: electionID,
		Status:     election.StatusAt(s.now()),
		TotalVotes: len(votes),
		Tally:      tally,
	}, nil
}

// HasVoted reports whether the identifier already cast a ballot.
func (s *Service) HasVoted(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	identifierType, value = entities.NormalizeIdentifier(identifierType, value)
	_, found, err := s.Votes.GetVoteByIdentity(ctx, strings.TrimSpace(electionID), identifierType, value)
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Service) toViews(ctx context.Context, elections []entities.Election) []ElectionView {
	views := make([]ElectionView, 0, len(elections))
	for _, election := range elections {
		views = append(views, s.toView(ctx, election))
	}
	return views
}

func (s *Service) toView(ctx context.Context, election entities.Election) ElectionView {
	sponsored, err := s.Sponsorship.IsSponsored(ctx, election.ElectionID)
	if err != nil {
		// Listing surfaces degrade to unsponsored rather than failing.
		ResolveLogger(s.Logger).Error("sponsorship lookup failed",
			"event", "election_sponsorship_lookup_failed",
			"module", "election-governance/election-registry",
			"layer", "application",
			"election_id", election.ElectionID,
			"error", err.Error(),
		)
		sponsored = false
	}
	return ElectionView{
		Election:  election,
		Status:    election.StatusAt(s.now()),
		Sponsored: sponsored,
	}
}

func (s *Service) appendEvent(ctx context.Context, eventType string, electionID string, occurredAt time.Time, data map[string]any) error {
	if s.Outbox == nil {
		return nil
	}
	eventID, err := s.IDs.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newRegistryEnvelope(eventID, eventType, electionID, occurredAt, data)
	if err != nil {
		return err
	}
	return s.Outbox.AppendOutbox(ctx, envelope)
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

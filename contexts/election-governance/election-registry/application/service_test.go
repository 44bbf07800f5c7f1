package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"agora/contexts/election-governance/election-registry/adapters/memory"
	"agora/contexts/election-governance/election-registry/application"
	domainerrors "agora/contexts/election-governance/election-registry/domain/errors"
	"agora/contexts/election-governance/election-registry/ports"
)

type fakeQuota struct {
	mu           sync.Mutex
	authorizeErr error
	sponsorErr   error
	creations    []string
}

func (q *fakeQuota) AuthorizeCreation(_ context.Context, _ string) error {
	return q.authorizeErr
}

func (q *fakeQuota) AuthorizeSponsorship(_ context.Context, _ string, _ int64) error {
	return q.sponsorErr
}

func (q *fakeQuota) RecordCreation(_ context.Context, _ string, electionID string, _ time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.creations = append(q.creations, electionID)
	return nil
}

type fakeAccess struct {
	mu       sync.Mutex
	members  map[string]bool
	enrolled map[string][]ports.WhitelistEnrollment
}

func newFakeAccess() *fakeAccess {
	return &fakeAccess{
		members:  make(map[string]bool),
		enrolled: make(map[string][]ports.WhitelistEnrollment),
	}
}

func accessKey(electionID, identifierType, value string) string {
	return electionID + "|" + identifierType + "|" + value
}

func (a *fakeAccess) Enroll(_ context.Context, electionID string, _ string, entries []ports.WhitelistEnrollment) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enrolled[electionID] = append(a.enrolled[electionID], entries...)
	for _, entry := range entries {
		a.members[accessKey(electionID, entry.IdentifierType, entry.Value)] = true
	}
	return nil
}

func (a *fakeAccess) CanAccess(_ context.Context, electionID string, identifierType string, value string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.members[accessKey(electionID, identifierType, value)], nil
}

type fakeSponsorship struct {
	mu         sync.Mutex
	sponsored  map[string]bool
	credits    map[string]int
	deposits   map[string]int64
	spendErr   error
	depositErr error
}

func newFakeSponsorship() *fakeSponsorship {
	return &fakeSponsorship{
		sponsored: make(map[string]bool),
		credits:   make(map[string]int),
		deposits:  make(map[string]int64),
	}
}

func (s *fakeSponsorship) Deposit(_ context.Context, electionID string, _ string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depositErr != nil {
		return s.depositErr
	}
	s.deposits[electionID] += amount
	s.sponsored[electionID] = true
	return nil
}

func (s *fakeSponsorship) IsSponsored(_ context.Context, electionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sponsored[electionID], nil
}

func (s *fakeSponsorship) TrySpendForVote(_ context.Context, electionID string, _ string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spendErr != nil {
		return false, s.spendErr
	}
	if s.credits[electionID] <= 0 {
		return false, nil
	}
	s.credits[electionID]--
	return true, nil
}

type fixture struct {
	service     *application.Service
	store       *memory.Store
	quota       *fakeQuota
	access      *fakeAccess
	sponsorship *fakeSponsorship
}

func newFixture() fixture {
	store := memory.NewStore()
	quota := &fakeQuota{}
	access := newFakeAccess()
	sponsorship := newFakeSponsorship()
	service := &application.Service{
		Elections:   store,
		Votes:       store,
		Quota:       quota,
		Access:      access,
		Sponsorship: sponsorship,
		Outbox:      store,
		Clock:       memory.SystemClock{},
		IDs:         memory.UUIDGenerator{},
	}
	return fixture{service: service, store: store, quota: quota, access: access, sponsorship: sponsorship}
}

func validCommand(owner string) application.CreateElectionCommand {
	return application.CreateElectionCommand{
		OwnerID:    owner,
		Title:      "Board election",
		Candidates: []application.CandidateSpec{{Name: "alice"}, {Name: "bob"}},
		EndsAt:     time.Now().UTC().Add(24 * time.Hour),
	}
}

func TestCreateElectionValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cmd := validCommand("owner-1")
	cmd.Title = "  "
	if _, err := f.service.CreateElection(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	cmd = validCommand("owner-1")
	cmd.Candidates = []application.CandidateSpec{{Name: "alice"}}
	if _, err := f.service.CreateElection(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCandidatesLength) {
		t.Fatalf("expected ErrInvalidCandidatesLength, got %v", err)
	}

	// Duplicate candidates collapse before the length check.
	cmd = validCommand("owner-1")
	cmd.Candidates = []application.CandidateSpec{{Name: "alice"}, {Name: "Alice"}, {Name: " alice "}}
	if _, err := f.service.CreateElection(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidCandidatesLength) {
		t.Fatalf("expected ErrInvalidCandidatesLength for duplicates, got %v", err)
	}

	cmd = validCommand("owner-1")
	cmd.EndsAt = time.Now().UTC().Add(-time.Hour)
	if _, err := f.service.CreateElection(ctx, cmd); !errors.Is(err, domainerrors.ErrInvalidElectionWindow) {
		t.Fatalf("expected ErrInvalidElectionWindow, got %v", err)
	}
}

func TestCreateElectionClaimsQuota(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	quotaErr := errors.New("quota exceeded")
	f.quota.authorizeErr = quotaErr
	if _, err := f.service.CreateElection(ctx, validCommand("owner-1")); !errors.Is(err, quotaErr) {
		t.Fatalf("expected quota error to propagate, got %v", err)
	}

	f.quota.authorizeErr = nil
	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(f.quota.creations) != 1 || f.quota.creations[0] != election.ElectionID {
		t.Fatalf("quota creation not recorded: %v", f.quota.creations)
	}
}

func TestCreatePrivateElectionEnrollsWhitelist(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreatePrivateElection(ctx, application.CreatePrivateElectionCommand{
		CreateElectionCommand: validCommand("owner-1"),
		Whitelist: []ports.WhitelistEnrollment{
			{IdentifierType: "email", Value: "voter@example.com"},
			{IdentifierType: "wallet", Value: "0x00112233445566778899aabbccddeeff00112233"},
		},
	})
	if err != nil {
		t.Fatalf("create private failed: %v", err)
	}
	if !election.Private {
		t.Fatal("election should be private")
	}
	if len(f.access.enrolled[election.ElectionID]) != 2 {
		t.Fatalf("whitelist not enrolled: %v", f.access.enrolled)
	}
}

func TestCreateElectionForwardsInitialDeposit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cmd := validCommand("owner-1")
	cmd.InitialDepositGwei = 5_000_000

	election, err := f.service.CreateElection(ctx, cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if f.sponsorship.deposits[election.ElectionID] != 5_000_000 {
		t.Fatalf("deposit not forwarded: %v", f.sponsorship.deposits)
	}

	// Without a deposit the sponsorship gate is never touched.
	election, err = f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, ok := f.sponsorship.deposits[election.ElectionID]; ok {
		t.Fatal("unexpected deposit for unfunded election")
	}
}

func TestCreateElectionDepositOverCapRejectedBeforePersisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	capErr := errors.New("creator sponsorship limit exceeded")
	f.quota.sponsorErr = capErr

	cmd := validCommand("owner-1")
	cmd.InitialDepositGwei = 5_000_000
	if _, err := f.service.CreateElection(ctx, cmd); !errors.Is(err, capErr) {
		t.Fatalf("expected cap error to propagate, got %v", err)
	}

	views, err := f.service.ListPublic(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(views) != 0 {
		t.Fatalf("election persisted despite rejected deposit: %d", len(views))
	}
	if len(f.quota.creations) != 0 {
		t.Fatalf("quota slot claimed despite rejected deposit: %v", f.quota.creations)
	}
}

func TestCastVoteLifecycleChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	vote := application.CastVoteCommand{
		ElectionID:      "missing",
		IdentifierType:  "email",
		IdentifierValue: "voter@example.com",
		Candidate:       "alice",
	}
	if _, err := f.service.CastVote(ctx, vote); !errors.Is(err, domainerrors.ErrElectionNotFound) {
		t.Fatalf("expected ErrElectionNotFound, got %v", err)
	}

	cmd := validCommand("owner-1")
	cmd.StartsAt = time.Now().UTC().Add(time.Hour)
	pending, err := f.service.CreateElection(ctx, cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	vote.ElectionID = pending.ElectionID
	if _, err := f.service.CastVote(ctx, vote); !errors.Is(err, domainerrors.ErrElectionNotActive) {
		t.Fatalf("expected ErrElectionNotActive before start, got %v", err)
	}

	active, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	vote.ElectionID = active.ElectionID

	badCandidate := vote
	badCandidate.Candidate = "nobody"
	if _, err := f.service.CastVote(ctx, badCandidate); !errors.Is(err, domainerrors.ErrInvalidCandidate) {
		t.Fatalf("expected ErrInvalidCandidate, got %v", err)
	}

	badIdentifier := vote
	badIdentifier.IdentifierType = "carrier-pigeon"
	if _, err := f.service.CastVote(ctx, badIdentifier); !errors.Is(err, domainerrors.ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}

	recorded, err := f.service.CastVote(ctx, vote)
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if recorded.Sponsored {
		t.Fatal("unfunded election must record an unsponsored vote")
	}
}

func TestPrivateElectionRequiresMembership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreatePrivateElection(ctx, application.CreatePrivateElectionCommand{
		CreateElectionCommand: validCommand("owner-1"),
		Whitelist: []ports.WhitelistEnrollment{
			{IdentifierType: "email", Value: "member@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("create private failed: %v", err)
	}

	_, err = f.service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "email",
		IdentifierValue: "stranger@example.com",
		Candidate:       "alice",
	})
	if !errors.Is(err, domainerrors.ErrElectionIsPrivate) {
		t.Fatalf("expected ErrElectionIsPrivate, got %v", err)
	}

	if _, err := f.service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "email",
		IdentifierValue: "member@example.com",
		Candidate:       "alice",
	}); err != nil {
		t.Fatalf("member vote failed: %v", err)
	}
}

func TestDuplicateVoteRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	cmd := application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "twitter",
		IdentifierValue: "@Voter_One",
		Candidate:       "alice",
	}
	if _, err := f.service.CastVote(ctx, cmd); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}

	// Same handle without the @ and with different casing is the same voter.
	cmd.IdentifierValue = "voter_one"
	cmd.Candidate = "bob"
	if _, err := f.service.CastVote(ctx, cmd); !errors.Is(err, domainerrors.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestConcurrentVotesLandExactlyOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CastVote(ctx, application.CastVoteCommand{
				ElectionID:      election.ElectionID,
				IdentifierType:  "email",
				IdentifierValue: "voter@example.com",
				Candidate:       "alice",
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			if !errors.Is(err, domainerrors.ErrDuplicateVote) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted != 1 {
		t.Fatalf("accepted %d votes, want exactly 1", accepted)
	}
}

func TestSponsoredFlagFollowsSpend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.sponsorship.credits[election.ElectionID] = 1

	first, err := f.service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "email",
		IdentifierValue: "a@example.com",
		Candidate:       "alice",
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if !first.Sponsored {
		t.Fatal("funded vote should be sponsored")
	}

	second, err := f.service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "email",
		IdentifierValue: "b@example.com",
		Candidate:       "bob",
	})
	if err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if second.Sponsored {
		t.Fatal("depleted sponsorship must not sponsor the vote")
	}
}

func TestSponsorshipErrorDoesNotFailVote(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	f.sponsorship.spendErr = errors.New("ledger down")

	vote, err := f.service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      election.ElectionID,
		IdentifierType:  "email",
		IdentifierValue: "a@example.com",
		Candidate:       "alice",
	})
	if err != nil {
		t.Fatalf("vote should survive a ledger failure: %v", err)
	}
	if vote.Sponsored {
		t.Fatal("vote must fall back to unsponsored on ledger failure")
	}
}

func TestListingSurfaces(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	public, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	private, err := f.service.CreatePrivateElection(ctx, application.CreatePrivateElectionCommand{
		CreateElectionCommand: validCommand("owner-2"),
		Whitelist: []ports.WhitelistEnrollment{
			{IdentifierType: "email", Value: "member@example.com"},
		},
	})
	if err != nil {
		t.Fatalf("create private failed: %v", err)
	}
	f.sponsorship.sponsored[public.ElectionID] = true

	publicList, err := f.service.ListPublic(ctx)
	if err != nil {
		t.Fatalf("list public failed: %v", err)
	}
	if len(publicList) != 1 || publicList[0].Election.ElectionID != public.ElectionID {
		t.Fatalf("unexpected public list: %+v", publicList)
	}

	privateList, err := f.service.ListPrivate(ctx)
	if err != nil {
		t.Fatalf("list private failed: %v", err)
	}
	if len(privateList) != 1 || privateList[0].Election.ElectionID != private.ElectionID {
		t.Fatalf("unexpected private list: %+v", privateList)
	}

	openList, err := f.service.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}
	if len(openList) != 2 {
		t.Fatalf("open list should contain both running elections: %+v", openList)
	}

	// No identifier: public elections only.
	anonymous, err := f.service.ListAccessible(ctx, "", "")
	if err != nil {
		t.Fatalf("list accessible failed: %v", err)
	}
	if len(anonymous) != 1 || anonymous[0].Election.ElectionID != public.ElectionID {
		t.Fatalf("anonymous listing should be public only: %+v", anonymous)
	}

	member, err := f.service.ListAccessible(ctx, "email", "member@example.com")
	if err != nil {
		t.Fatalf("list accessible failed: %v", err)
	}
	if len(member) != 2 {
		t.Fatalf("member should see both elections, got %d", len(member))
	}
}

func TestResultsTally(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	election, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.service.CastVote(ctx, application.CastVoteCommand{
			ElectionID:      election.ElectionID,
			IdentifierType:  "email",
			IdentifierValue: fmt.Sprintf("voter-%d@example.com", i),
			Candidate:       "alice",
		}); err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}

	results, err := f.service.Results(ctx, election.ElectionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.TotalVotes != 3 {
		t.Fatalf("total votes = %d, want 3", results.TotalVotes)
	}
	if len(results.Tally) != 2 {
		t.Fatalf("tally rows = %d, want 2", len(results.Tally))
	}
	if results.Tally[0].Candidate != "alice" || results.Tally[0].Votes != 3 {
		t.Fatalf("unexpected tally row: %+v", results.Tally[0])
	}
	if results.Tally[1].Votes != 0 {
		t.Fatalf("bob should have zero votes: %+v", results.Tally[1])
	}
}

func TestCandidateIdentityAndBallotTags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	cmd := validCommand("owner-1")
	cmd.Candidates = []application.CandidateSpec{
		{Name: " alice ", Description: "incumbent"},
		{Name: "bob"},
		{Name: "carol", Description: "challenger"},
	}
	cmd.BallotType = 2
	election, err := f.service.CreateElection(ctx, cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if len(election.Candidates) != 3 {
		t.Fatalf("candidates = %d, want 3", len(election.Candidates))
	}
	for i, candidate := range election.Candidates {
		if candidate.CandidateID != int64(i) {
			t.Fatalf("candidate %d carries ID %d", i, candidate.CandidateID)
		}
	}
	if election.Candidates[0].Name != "alice" || election.Candidates[0].Description != "incumbent" {
		t.Fatalf("unexpected first candidate: %+v", election.Candidates[0])
	}
	if election.BallotType != 2 {
		t.Fatalf("ballot type = %d, want 2", election.BallotType)
	}
	if election.ResultType != 2 {
		t.Fatalf("result type should follow the ballot type, got %d", election.ResultType)
	}

	// Defaults: simple-majority ballot, result type mirroring it.
	plain, err := f.service.CreateElection(ctx, validCommand("owner-2"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if plain.BallotType != 1 || plain.ResultType != 1 {
		t.Fatalf("default ballot/result types = %d/%d, want 1/1", plain.BallotType, plain.ResultType)
	}
}

func TestOpenListingCoversUnsponsoredElections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	running, err := f.service.CreateElection(ctx, validCommand("owner-1"))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pending := validCommand("owner-2")
	pending.StartsAt = time.Now().UTC().Add(2 * time.Hour)
	upcoming, err := f.service.CreateElection(ctx, pending)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ended := running
	ended.ElectionID = "ended-election"
	ended.StartsAt = time.Now().UTC().Add(-48 * time.Hour)
	ended.EndsAt = time.Now().UTC().Add(-24 * time.Hour)
	if err := f.store.SaveElection(ctx, ended); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	open, err := f.service.ListOpen(ctx)
	if err != nil {
		t.Fatalf("list open failed: %v", err)
	}
	got := make(map[string]bool, len(open))
	for _, view := range open {
		got[view.Election.ElectionID] = true
	}
	if !got[running.ElectionID] {
		t.Fatal("running election missing from open list despite having no sponsorship")
	}
	if !got[upcoming.ElectionID] {
		t.Fatal("pending election missing from open list")
	}
	if got["ended-election"] {
		t.Fatal("ended election leaked into open list")
	}
	if len(open) != 2 {
		t.Fatalf("open list size = %d, want 2", len(open))
	}
}

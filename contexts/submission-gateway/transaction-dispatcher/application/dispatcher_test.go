package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"agora/contexts/submission-gateway/transaction-dispatcher/adapters/memory"
	"agora/contexts/submission-gateway/transaction-dispatcher/application"
	"agora/contexts/submission-gateway/transaction-dispatcher/domain/entities"
	domainerrors "agora/contexts/submission-gateway/transaction-dispatcher/domain/errors"
	"agora/contexts/submission-gateway/transaction-dispatcher/ports"
)

type fakeIdentity struct {
	identifier ports.Identifier
	err        error
}

func (f fakeIdentity) Resolve(ctx context.Context, facets ports.IdentityFacets) (ports.Identifier, error) {
	return f.identifier, f.err
}

type fakeAccess struct {
	allowed bool
	err     error
}

func (f fakeAccess) CanAccess(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	return f.allowed, f.err
}

type fakeSponsorship struct {
	sponsored bool
	err       error
}

func (f fakeSponsorship) IsSponsored(ctx context.Context, electionID string) (bool, error) {
	return f.sponsored, f.err
}

type fakeVotes struct {
	landed bool
	err    error
}

func (f fakeVotes) HasVoted(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	return f.landed, f.err
}

func newDispatcher(rails *memory.Rails, sponsored bool, votes ports.VoteReader) *application.Dispatcher {
	if votes == nil {
		votes = rails
	}
	return &application.Dispatcher{
		Identity:     fakeIdentity{identifier: ports.Identifier{Type: "address", Value: "0xvoter"}},
		Access:       fakeAccess{allowed: true},
		Sponsorship:  fakeSponsorship{sponsored: sponsored},
		Votes:        votes,
		Relay:        rails.Relay(),
		SmartAccount: rails,
		Wallet:       rails,
		Clock:        memory.SystemClock{},
		IDs:          memory.UUIDGenerator{},
		RetryBackoff: time.Millisecond,
	}
}

func command() application.DispatchCommand {
	return application.DispatchCommand{
		ElectionID: "election-1",
		Facets: ports.IdentityFacets{
			SmartAccountAddress: "0xvoter",
			WalletAddress:       "0xvoter",
		},
		Candidate: "Ada",
	}
}

func TestSponsoredPathWinsWhenFunded(t *testing.T) {
	rails := memory.NewRails()
	dispatcher := newDispatcher(rails, true, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.State != entities.StateSucceeded {
		t.Fatalf("state = %s", submission.State)
	}
	if submission.Strategy != entities.StrategySponsoredRelay {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if !submission.Sponsored {
		t.Fatal("expected sponsored receipt")
	}
	if len(submission.Attempts) != 0 {
		t.Fatalf("attempts = %d", len(submission.Attempts))
	}
	if !rails.Landed("election-1", "address", "0xvoter") {
		t.Fatal("ballot did not land")
	}
}

func TestWalletOnlySessionUsesRegularWallet(t *testing.T) {
	rails := memory.NewRails()
	dispatcher := newDispatcher(rails, true, nil)

	cmd := command()
	cmd.Facets = ports.IdentityFacets{WalletAddress: "0xvoter"}
	submission, err := dispatcher.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	// A sponsored election cannot pull a session without a smart-account
	// context through the relay; the voter's own wallet signs and pays.
	if submission.Strategy != entities.StrategyRegularWallet {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if submission.Sponsored {
		t.Fatal("wallet-only ballot reported sponsored")
	}
	if len(submission.Attempts) != 0 {
		t.Fatalf("attempts = %d, want none on skipped rails", len(submission.Attempts))
	}
}

func TestAccessDeniedOnRailAbortsChain(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategyRegularWallet,
		fmt.Errorf("%w: not whitelisted", domainerrors.ErrAccessDenied))
	dispatcher := newDispatcher(rails, true, nil)

	cmd := command()
	cmd.Facets = ports.IdentityFacets{WalletAddress: "0xvoter"}
	submission, err := dispatcher.Dispatch(context.Background(), cmd)
	if !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if submission.State == entities.StateSucceeded {
		t.Fatal("denied ballot must not land")
	}
	if len(submission.Attempts) != 1 {
		t.Fatalf("attempts = %d, want 1", len(submission.Attempts))
	}
}

func TestUnsponsoredElectionSkipsRelay(t *testing.T) {
	rails := memory.NewRails()
	dispatcher := newDispatcher(rails, false, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.Strategy != entities.StrategySelfPaidAccount {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if submission.Sponsored {
		t.Fatal("self-paid ballot reported sponsored")
	}
	if !strings.HasPrefix(submission.Reference, entities.StrategySelfPaidAccount+"/") {
		t.Fatalf("reference = %q", submission.Reference)
	}
}

func TestRailFailureAdvancesChain(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySponsoredRelay, domainerrors.ErrRailFailed)
	dispatcher := newDispatcher(rails, true, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.Strategy != entities.StrategySelfPaidAccount {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if len(submission.Attempts) != 1 {
		t.Fatalf("attempts = %d", len(submission.Attempts))
	}
	if submission.Attempts[0].Strategy != entities.StrategySponsoredRelay {
		t.Fatalf("recorded attempt on %s", submission.Attempts[0].Strategy)
	}
}

func TestBallotRejectionStopsChain(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySponsoredRelay, domainerrors.ErrBallotRejected)
	dispatcher := newDispatcher(rails, true, nil)

	_, err := dispatcher.Dispatch(context.Background(), command())
	if !errors.Is(err, domainerrors.ErrBallotRejected) {
		t.Fatalf("err = %v", err)
	}
	if rails.Landed("election-1", "address", "0xvoter") {
		t.Fatal("rejected ballot must not land")
	}
}

func TestTransientFailureRetriesSameRail(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySelfPaidAccount,
		domainerrors.ErrRailUnavailable,
		domainerrors.ErrRailUnavailable,
	)
	dispatcher := newDispatcher(rails, false, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.Strategy != entities.StrategySelfPaidAccount {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if len(submission.Attempts) != 2 {
		t.Fatalf("attempts = %d", len(submission.Attempts))
	}
}

func TestTransientExhaustionAdvancesChain(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySelfPaidAccount,
		domainerrors.ErrRailUnavailable,
		domainerrors.ErrRailUnavailable,
		domainerrors.ErrRailUnavailable,
	)
	dispatcher := newDispatcher(rails, false, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.Strategy != entities.StrategyDirectWallet {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if len(submission.Attempts) != 3 {
		t.Fatalf("attempts = %d", len(submission.Attempts))
	}
}

func TestAmbiguousOutcomeSettledByVoteRecord(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySponsoredRelay, domainerrors.ErrOutcomeUnknown)
	dispatcher := newDispatcher(rails, true, fakeVotes{landed: true})

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.State != entities.StateSucceeded {
		t.Fatalf("state = %s", submission.State)
	}
	if submission.Strategy != entities.StrategySponsoredRelay {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
	if submission.Reference != "" {
		t.Fatalf("reference = %q, want none for a probed outcome", submission.Reference)
	}
}

func TestAmbiguousOutcomeNotLandedAdvances(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySponsoredRelay, domainerrors.ErrOutcomeUnknown)
	dispatcher := newDispatcher(rails, true, fakeVotes{landed: false})

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if submission.Strategy != entities.StrategySelfPaidAccount {
		t.Fatalf("strategy = %s", submission.Strategy)
	}
}

func TestUnresolvableIdentityAborts(t *testing.T) {
	rails := memory.NewRails()
	dispatcher := newDispatcher(rails, true, nil)
	dispatcher.Identity = fakeIdentity{err: errors.New("no facets")}

	_, err := dispatcher.Dispatch(context.Background(), command())
	if !errors.Is(err, domainerrors.ErrNoIdentifier) {
		t.Fatalf("err = %v", err)
	}
}

func TestAccessDeniedAbortsBeforeAnyRail(t *testing.T) {
	rails := memory.NewRails()
	dispatcher := newDispatcher(rails, true, nil)
	dispatcher.Access = fakeAccess{allowed: false}

	_, err := dispatcher.Dispatch(context.Background(), command())
	if !errors.Is(err, domainerrors.ErrAccessDenied) {
		t.Fatalf("err = %v", err)
	}
	if rails.Landed("election-1", "address", "0xvoter") {
		t.Fatal("denied ballot must not land")
	}
}

func TestExhaustedWhenEveryRailFails(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySelfPaidAccount, domainerrors.ErrRailFailed)
	rails.Script(entities.StrategyDirectWallet, domainerrors.ErrRailFailed)
	rails.Script(entities.StrategyRegularWallet, domainerrors.ErrRailFailed)
	dispatcher := newDispatcher(rails, false, nil)

	submission, err := dispatcher.Dispatch(context.Background(), command())
	if !errors.Is(err, domainerrors.ErrExhaustedAllStrategies) {
		t.Fatalf("err = %v", err)
	}
	if submission.State != entities.StateExhaustedAllStrategies {
		t.Fatalf("state = %s", submission.State)
	}
	if len(submission.Attempts) != 3 {
		t.Fatalf("attempts = %d", len(submission.Attempts))
	}
}

func TestCancellationAbandonsRemainingStrategies(t *testing.T) {
	rails := memory.NewRails()
	rails.Script(entities.StrategySelfPaidAccount,
		domainerrors.ErrRailUnavailable,
		domainerrors.ErrRailUnavailable,
	)
	dispatcher := newDispatcher(rails, false, nil)
	dispatcher.RetryBackoff = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := dispatcher.Dispatch(ctx, command())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if rails.Landed("election-1", "address", "0xvoter") {
		t.Fatal("cancelled dispatch must not land")
	}
}

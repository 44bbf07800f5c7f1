package bootstrap

import (
	"context"
	"errors"

	registryapp "agora/contexts/election-governance/election-registry/application"
	registryerrors "agora/contexts/election-governance/election-registry/domain/errors"
	registryports "agora/contexts/election-governance/election-registry/ports"
	whitelistapp "agora/contexts/election-governance/whitelist-registry/application"
	whitelistports "agora/contexts/election-governance/whitelist-registry/ports"
	ledgerapp "agora/contexts/finance-core/sponsorship-ledger/application"
	ledgerports "agora/contexts/finance-core/sponsorship-ledger/ports"
	resolverapp "agora/contexts/identity-access/identifier-resolver/application"
	resolverentities "agora/contexts/identity-access/identifier-resolver/domain/entities"
	dispatchererrors "agora/contexts/submission-gateway/transaction-dispatcher/domain/errors"
	dispatcherports "agora/contexts/submission-gateway/transaction-dispatcher/ports"
)

// The contexts never import each other; these adapters translate one
// context's port onto another context's service or repository.

// whitelistElectionDirectory projects registry elections for the whitelist.
type whitelistElectionDirectory struct {
	elections registryports.ElectionRepository
}

func (d whitelistElectionDirectory) GetElection(ctx context.Context, electionID string) (whitelistports.ElectionProjection, bool, error) {
	election, found, err := d.elections.GetElection(ctx, electionID)
	if err != nil || !found {
		return whitelistports.ElectionProjection{}, found, err
	}
	return whitelistports.ElectionProjection{
		ElectionID: election.ElectionID,
		OwnerID:    election.OwnerID,
		Private:    election.Private,
	}, true, nil
}

// ledgerElectionDirectory projects registry elections for the ledger.
type ledgerElectionDirectory struct {
	elections registryports.ElectionRepository
}

func (d ledgerElectionDirectory) GetElection(ctx context.Context, electionID string) (ledgerports.ElectionProjection, bool, error) {
	election, found, err := d.elections.GetElection(ctx, electionID)
	if err != nil || !found {
		return ledgerports.ElectionProjection{}, found, err
	}
	return ledgerports.ElectionProjection{
		ElectionID: election.ElectionID,
		OwnerID:    election.OwnerID,
		EndsAt:     election.EndsAt,
	}, true, nil
}

// whitelistAccessGate lets the registry enroll and query the whitelist.
type whitelistAccessGate struct {
	whitelist *whitelistapp.Service
}

func (g whitelistAccessGate) Enroll(ctx context.Context, electionID string, ownerID string, entries []registryports.WhitelistEnrollment) error {
	if len(entries) == 0 {
		return nil
	}
	inputs := make([]whitelistapp.EntryInput, 0, len(entries))
	for _, entry := range entries {
		inputs = append(inputs, whitelistapp.EntryInput{
			IdentifierType: entry.IdentifierType,
			Value:          entry.Value,
		})
	}
	_, err := g.whitelist.Add(ctx, whitelistapp.AddEntriesCommand{
		ElectionID: electionID,
		CallerID:   ownerID,
		Entries:    inputs,
	})
	return err
}

func (g whitelistAccessGate) CanAccess(ctx context.Context, electionID string, identifierType string, value string) (bool, error) {
	return g.whitelist.CanAccess(ctx, electionID, identifierType, value)
}

// ledgerSponsorshipGate fronts the sponsorship ledger for the registry:
// sponsorship reads, per-vote spending and creation-time deposits.
type ledgerSponsorshipGate struct {
	ledger *ledgerapp.Service
}

var _ registryports.SponsorshipGate = ledgerSponsorshipGate{}

func (g ledgerSponsorshipGate) IsSponsored(ctx context.Context, electionID string) (bool, error) {
	return g.ledger.IsSponsored(ctx, electionID)
}

func (g ledgerSponsorshipGate) TrySpendForVote(ctx context.Context, electionID string, voteID string) (bool, error) {
	return g.ledger.TrySpendForVote(ctx, electionID, voteID)
}

func (g ledgerSponsorshipGate) Deposit(ctx context.Context, electionID string, sponsorID string, amount int64) error {
	_, err := g.ledger.Deposit(ctx, ledgerapp.DepositCommand{
		ElectionID: electionID,
		CallerID:   sponsorID,
		Amount:     amount,
	})
	return err
}

// identityResolverBridge adapts session facets onto the identifier resolver.
type identityResolverBridge struct {
	resolver resolverapp.Resolver
}

func (b identityResolverBridge) Resolve(ctx context.Context, facets dispatcherports.IdentityFacets) (dispatcherports.Identifier, error) {
	resolved := resolverentities.Facets{
		SmartAccountAddress: facets.SmartAccountAddress,
		WalletAddress:       facets.WalletAddress,
	}
	if facets.SocialProvider != "" || facets.Email != "" || facets.Handle != "" {
		resolved.Social = &resolverentities.SocialFacet{
			Provider: facets.SocialProvider,
			Email:    facets.Email,
			Handle:   facets.Handle,
		}
	}
	identifier, err := b.resolver.Resolve(resolved)
	if err != nil {
		return dispatcherports.Identifier{}, err
	}
	return dispatcherports.Identifier{
		Type:  string(identifier.Type),
		Value: identifier.Value,
	}, nil
}

// registryVoteRail lands dispatched ballots on the election registry. Every
// rail ends in the same vote record; what differs is who paid, which the
// registry reports back through the Sponsored flag.
type registryVoteRail struct {
	registry *registryapp.Service
}

var (
	_ dispatcherports.SponsoredRelay     = registryVoteRail{}
	_ dispatcherports.SmartAccountClient = registryVoteRail{}
	_ dispatcherports.WalletClient       = registryVoteRail{}
)

func (r registryVoteRail) Submit(ctx context.Context, ballot dispatcherports.Ballot) (dispatcherports.Receipt, error) {
	return r.cast(ctx, ballot)
}

func (r registryVoteRail) SubmitDirect(ctx context.Context, ballot dispatcherports.Ballot) (dispatcherports.Receipt, error) {
	return r.cast(ctx, ballot)
}

func (r registryVoteRail) SubmitRegular(ctx context.Context, ballot dispatcherports.Ballot) (dispatcherports.Receipt, error) {
	return r.cast(ctx, ballot)
}

func (r registryVoteRail) cast(ctx context.Context, ballot dispatcherports.Ballot) (dispatcherports.Receipt, error) {
	vote, err := r.registry.CastVote(ctx, registryapp.CastVoteCommand{
		ElectionID:      ballot.ElectionID,
		IdentifierType:  ballot.IdentifierType,
		IdentifierValue: ballot.IdentifierValue,
		Candidate:       ballot.Candidate,
	})
	if err != nil {
		return dispatcherports.Receipt{}, classifyCastError(err)
	}
	return dispatcherports.Receipt{
		Reference: vote.VoteID,
		Sponsored: vote.Sponsored,
	}, nil
}

// classifyCastError folds registry errors into the dispatcher's error
// classes. A private-election refusal is an access denial, validation and
// eligibility failures are definitive rejections, and anything else is a
// rail failure the next strategy may get past.
func classifyCastError(err error) error {
	switch {
	case errors.Is(err, registryerrors.ErrElectionIsPrivate):
		return errors.Join(dispatchererrors.ErrAccessDenied, err)
	case errors.Is(err, registryerrors.ErrElectionNotFound),
		errors.Is(err, registryerrors.ErrElectionNotActive),
		errors.Is(err, registryerrors.ErrInvalidCandidate),
		errors.Is(err, registryerrors.ErrDuplicateVote),
		errors.Is(err, registryerrors.ErrInvalidIdentifier):
		return errors.Join(dispatchererrors.ErrBallotRejected, err)
	default:
		return errors.Join(dispatchererrors.ErrRailFailed, err)
	}
}

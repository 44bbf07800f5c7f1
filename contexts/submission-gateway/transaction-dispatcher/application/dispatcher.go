package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/submission-gateway/transaction-dispatcher/domain/entities"
	domainerrors "agora/contexts/submission-gateway/transaction-dispatcher/domain/errors"
	"agora/contexts/submission-gateway/transaction-dispatcher/ports"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// DispatchCommand is one vote to push through the fallback chain.
type DispatchCommand struct {
	ElectionID string
	Facets     ports.IdentityFacets
	Candidate  string
}

// Dispatcher walks a ballot through the submission rails. One Dispatch call
// produces at most one landed ballot: rejections stop the chain, rail
// failures advance it, and unknown outcomes are settled against the vote
// record before any further rail may run.
type Dispatcher struct {
	Identity     ports.IdentityResolver
	Access       ports.AccessChecker
	Sponsorship  ports.SponsorshipProbe
	Votes        ports.VoteReader
	Relay        ports.SponsoredRelay
	SmartAccount ports.SmartAccountClient
	Wallet       ports.WalletClient
	Clock        ports.Clock
	IDs          ports.IDGenerator
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *slog.Logger
}

// Dispatch runs the chain to completion. The returned submission carries the
// full attempt trail whatever the outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd DispatchCommand) (entities.Submission, error) {
	logger := ResolveLogger(d.Logger)
	electionID := strings.TrimSpace(cmd.ElectionID)

	submissionID, err := d.IDs.NewID(ctx)
	if err != nil {
		return entities.Submission{}, err
	}

	identifier, err := d.Identity.Resolve(ctx, cmd.Facets)
	if err != nil {
		return entities.Submission{}, domainerrors.ErrNoIdentifier
	}

	now := d.now()
	submission := entities.Submission{
		SubmissionID:    submissionID,
		ElectionID:      electionID,
		IdentifierType:  identifier.Type,
		IdentifierValue: identifier.Value,
		Candidate:       strings.TrimSpace(cmd.Candidate),
		State:           entities.StatePrepared,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	logger.Info("ballot dispatch started",
		"event", "dispatch_started",
		"module", "submission-gateway/transaction-dispatcher",
		"layer", "application",
		"submission_id", submissionID,
		"election_id", electionID,
		"identifier_type", identifier.Type,
	)

	for {
		if err := ctx.Err(); err != nil {
			return submission, err
		}
		submission.State = entities.NextTryingState(submission.State)
		if submission.State == entities.StateExhaustedAllStrategies {
			logger.Warn("ballot dispatch exhausted",
				"event", "dispatch_exhausted",
				"module", "submission-gateway/transaction-dispatcher",
				"layer", "application",
				"submission_id", submissionID,
				"election_id", electionID,
				"attempts", len(submission.Attempts),
			)
			return submission, domainerrors.ErrExhaustedAllStrategies
		}

		done, err := d.runRail(ctx, &submission, cmd.Facets)
		if err != nil {
			return submission, err
		}
		if done {
			logger.Info("ballot dispatch succeeded",
				"event", "dispatch_succeeded",
				"module", "submission-gateway/transaction-dispatcher",
				"layer", "application",
				"submission_id", submissionID,
				"election_id", electionID,
				"strategy", submission.Strategy,
				"sponsored", submission.Sponsored,
				"attempts", len(submission.Attempts),
			)
			return submission, nil
		}
	}
}

// runRail drives one trying state. It returns done=true on success, an error
// on abort, and (false, nil) to advance to the next rail.
func (d *Dispatcher) runRail(ctx context.Context, submission *entities.Submission, facets ports.IdentityFacets) (bool, error) {
	logger := ResolveLogger(d.Logger)
	state := submission.State
	strategy := entities.StrategyFor(state)

	// The sponsored, self-paid and direct rails all submit through the
	// caller's smart-account context. A session without one can only sign
	// from the regular wallet.
	if state != entities.StateTryingRegularWallet && strings.TrimSpace(facets.SmartAccountAddress) == "" {
		return false, nil
	}

	// The smart-account rails trust a session that may have aged while
	// earlier rails ran: resolve the identity and access question again
	// right before spending anyone's funds.
	if state == entities.StateTryingSponsoredPath || state == entities.StateTryingSelfPaidSmartAccount {
		identifier, err := d.Identity.Resolve(ctx, facets)
		if err != nil {
			return false, domainerrors.ErrNoIdentifier
		}
		submission.IdentifierType = identifier.Type
		submission.IdentifierValue = identifier.Value

		allowed, err := d.Access.CanAccess(ctx, submission.ElectionID, identifier.Type, identifier.Value)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, domainerrors.ErrAccessDenied
		}
	}

	if state == entities.StateTryingSponsoredPath {
		sponsored, err := d.Sponsorship.IsSponsored(ctx, submission.ElectionID)
		if err != nil {
			logger.Error("sponsorship probe failed",
				"event", "dispatch_sponsorship_probe_failed",
				"module", "submission-gateway/transaction-dispatcher",
				"layer", "application",
				"submission_id", submission.SubmissionID,
				"election_id", submission.ElectionID,
				"error", err.Error(),
			)
			sponsored = false
		}
		if !sponsored {
			// Nothing to pay with; skip straight to self-paid.
			return false, nil
		}
	}

	maxTries := 1
	if state == entities.StateTryingSelfPaidSmartAccount || state == entities.StateTryingDirectWalletFallback {
		maxTries = d.maxRetries()
	}

	for try := 1; try <= maxTries; try++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		receipt, err := d.submit(ctx, state, ballotOf(*submission))
		if err == nil {
			submission.State = entities.StateSucceeded
			submission.Strategy = strategy
			submission.Sponsored = receipt.Sponsored
			submission.Reference = receipt.Reference
			submission.UpdatedAt = d.now()
			return true, nil
		}

		submission.Attempts = append(submission.Attempts, entities.Attempt{
			Strategy: strategy,
			Try:      try,
			Error:    err.Error(),
			At:       d.now(),
		})
		submission.UpdatedAt = d.now()

		switch {
		case errors.Is(err, domainerrors.ErrAccessDenied):
			return false, err

		case errors.Is(err, domainerrors.ErrBallotRejected):
			logger.Warn("ballot rejected",
				"event", "dispatch_ballot_rejected",
				"module", "submission-gateway/transaction-dispatcher",
				"layer", "application",
				"submission_id", submission.SubmissionID,
				"election_id", submission.ElectionID,
				"strategy", strategy,
				"error", err.Error(),
			)
			return false, err

		case errors.Is(err, domainerrors.ErrOutcomeUnknown):
			landed, probeErr := d.Votes.HasVoted(ctx, submission.ElectionID, submission.IdentifierType, submission.IdentifierValue)
			if probeErr != nil {
				return false, probeErr
			}
			if landed {
				submission.State = entities.StateSucceeded
				submission.Strategy = strategy
				submission.UpdatedAt = d.now()
				return true, nil
			}
			// Confirmed not landed: safe to move on.
			return false, nil

		case errors.Is(err, domainerrors.ErrRailUnavailable):
			if try == maxTries {
				return false, nil
			}
			if waitErr := d.wait(ctx, try); waitErr != nil {
				return false, waitErr
			}

		default:
			// Rail failure, definitive for this rail only.
			return false, nil
		}
	}
	return false, nil
}

func (d *Dispatcher) submit(ctx context.Context, state entities.SubmissionState, ballot ports.Ballot) (ports.Receipt, error) {
	switch state {
	case entities.StateTryingSponsoredPath:
		return d.Relay.Submit(ctx, ballot)
	case entities.StateTryingSelfPaidSmartAccount:
		return d.SmartAccount.Submit(ctx, ballot)
	case entities.StateTryingDirectWalletFallback:
		return d.Wallet.SubmitDirect(ctx, ballot)
	case entities.StateTryingRegularWallet:
		return d.Wallet.SubmitRegular(ctx, ballot)
	default:
		return ports.Receipt{}, domainerrors.ErrRailFailed
	}
}

func (d *Dispatcher) wait(ctx context.Context, try int) error {
	backoff := d.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	timer := time.NewTimer(backoff * time.Duration(try))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *Dispatcher) maxRetries() int {
	if d.MaxRetries > 0 {
		return d.MaxRetries
	}
	return defaultMaxRetries
}

func (d *Dispatcher) now() time.Time {
	if d.Clock != nil {
		return d.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func ballotOf(submission entities.Submission) ports.Ballot {
	return ports.Ballot{
		ElectionID:      submission.ElectionID,
		IdentifierType:  submission.IdentifierType,
		IdentifierValue: submission.IdentifierValue,
		Candidate:       submission.Candidate,
	}
}

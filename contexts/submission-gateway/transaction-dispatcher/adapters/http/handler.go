package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/submission-gateway/transaction-dispatcher/application"
	"agora/contexts/submission-gateway/transaction-dispatcher/domain/entities"
	"agora/contexts/submission-gateway/transaction-dispatcher/ports"
	httptransport "agora/contexts/submission-gateway/transaction-dispatcher/transport/http"
)

type Handler struct {
	Dispatcher *application.Dispatcher
	Logger     *slog.Logger
}

func (h Handler) DispatchVoteHandler(
	ctx context.Context,
	electionID string,
	req httptransport.DispatchVoteRequest,
) (httptransport.SubmissionResponse, error) {
	submission, err := h.Dispatcher.Dispatch(ctx, application.DispatchCommand{
		ElectionID: electionID,
		Facets: ports.IdentityFacets{
			SocialProvider:      req.SocialProvider,
			Email:               req.Email,
			Handle:              req.Handle,
			SmartAccountAddress: req.SmartAccountAddress,
			WalletAddress:       req.WalletAddress,
		},
		Candidate: req.Candidate,
	})
	if err != nil {
		return httptransport.SubmissionResponse{}, err
	}
	return toSubmissionResponse(submission), nil
}

func toSubmissionResponse(submission entities.Submission) httptransport.SubmissionResponse {
	attempts := make([]httptransport.AttemptResponse, 0, len(submission.Attempts))
	for _, attempt := range submission.Attempts {
		attempts = append(attempts, httptransport.AttemptResponse{
			Strategy: attempt.Strategy,
			Try:      attempt.Try,
			Error:    attempt.Error,
			At:       attempt.At,
		})
	}
	return httptransport.SubmissionResponse{
		SubmissionID:    submission.SubmissionID,
		ElectionID:      submission.ElectionID,
		IdentifierType:  submission.IdentifierType,
		IdentifierValue: submission.IdentifierValue,
		Candidate:       submission.Candidate,
		State:           string(submission.State),
		Strategy:        submission.Strategy,
		Sponsored:       submission.Sponsored,
		Reference:       submission.Reference,
		Attempts:        attempts,
	}
}

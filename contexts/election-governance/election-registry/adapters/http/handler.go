package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/election-governance/election-registry/application"
	"agora/contexts/election-governance/election-registry/ports"
	httptransport "agora/contexts/election-governance/election-registry/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateHandler(
	ctx context.Context,
	ownerID string,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Service.CreateElection(ctx, toCreateCommand(ownerID, req))
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	view, err := h.Service.Get(ctx, election.ElectionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return toElectionResponse(view), nil
}

func (h Handler) CreatePrivateHandler(
	ctx context.Context,
	ownerID string,
	req httptransport.CreatePrivateElectionRequest,
) (httptransport.ElectionResponse, error) {
	whitelist := make([]ports.WhitelistEnrollment, 0, len(req.Whitelist))
	for _, entry := range req.Whitelist {
		whitelist = append(whitelist, ports.WhitelistEnrollment{
			IdentifierType: entry.IdentifierType,
			Value:          entry.Value,
		})
	}
	election, err := h.Service.CreatePrivateElection(ctx, application.CreatePrivateElectionCommand{
		CreateElectionCommand: toCreateCommand(ownerID, req.CreateElectionRequest),
		Whitelist:             whitelist,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	view, err := h.Service.Get(ctx, election.ElectionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return toElectionResponse(view), nil
}

func (h Handler) GetHandler(ctx context.Context, electionID string) (httptransport.ElectionResponse, error) {
	view, err := h.Service.Get(ctx, electionID)
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return toElectionResponse(view), nil
}

func (h Handler) ListPublicHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Service.ListPublic(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return toListResponse(views), nil
}

func (h Handler) ListPrivateHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Service.ListPrivate(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return toListResponse(views), nil
}

func (h Handler) ListOpenHandler(ctx context.Context) (httptransport.ElectionListResponse, error) {
	views, err := h.Service.ListOpen(ctx)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return toListResponse(views), nil
}

func (h Handler) ListAccessibleHandler(
	ctx context.Context,
	identifierType string,
	value string,
) (httptransport.ElectionListResponse, error) {
	views, err := h.Service.ListAccessible(ctx, identifierType, value)
	if err != nil {
		return httptransport.ElectionListResponse{}, err
	}
	return toListResponse(views), nil
}

func (h Handler) VoteHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	vote, err := h.Service.CastVote(ctx, application.CastVoteCommand{
		ElectionID:      electionID,
		IdentifierType:  req.IdentifierType,
		IdentifierValue: req.IdentifierValue,
		Candidate:       req.Candidate,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:     vote.VoteID,
		ElectionID: vote.ElectionID,
		Candidate:  vote.Candidate,
		Sponsored:  vote.Sponsored,
		CastAt:     vote.CastAt,
	}, nil
}

func (h Handler) ResultsHandler(ctx context.Context, electionID string) (httptransport.ResultsResponse, error) {
	results, err := h.Service.Results(ctx, electionID)
	if err != nil {
		return httptransport.ResultsResponse{}, err
	}
	tally := make([]httptransport.CandidateTallyResponse, 0, len(results.Tally))
	for _, row := range results.Tally {
		tally = append(tally, httptransport.CandidateTallyResponse{
			Candidate: row.Candidate,
			Votes:     row.Votes,
		})
	}
	return httptransport.ResultsResponse{
		ElectionID: results.ElectionID,
		Status:     string(results.Status),
		TotalVotes: results.TotalVotes,
		Tally:      tally,
	}, nil
}

func toCreateCommand(ownerID string, req httptransport.CreateElectionRequest) application.CreateElectionCommand {
	candidates := make([]application.CandidateSpec, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		candidates = append(candidates, application.CandidateSpec{
			Name:        candidate.Name,
			Description: candidate.Description,
		})
	}
	return application.CreateElectionCommand{
		OwnerID:            ownerID,
		Title:              req.Title,
		Description:        req.Description,
		Candidates:         candidates,
		BallotType:         req.BallotType,
		ResultType:         req.ResultType,
		StartsAt:           req.StartsAt,
		EndsAt:             req.EndsAt,
		InitialDepositGwei: req.InitialDepositGwei,
	}
}

func toElectionResponse(view application.ElectionView) httptransport.ElectionResponse {
	candidates := make([]httptransport.CandidateResponse, 0, len(view.Election.Candidates))
	for _, candidate := range view.Election.Candidates {
		candidates = append(candidates, httptransport.CandidateResponse{
			CandidateID: candidate.CandidateID,
			Name:        candidate.Name,
			Description: candidate.Description,
		})
	}
	return httptransport.ElectionResponse{
		ElectionID:  view.Election.ElectionID,
		OwnerID:     view.Election.OwnerID,
		Title:       view.Election.Title,
		Description: view.Election.Description,
		Candidates:  candidates,
		BallotType:  view.Election.BallotType,
		ResultType:  view.Election.ResultType,
		StartsAt:    view.Election.StartsAt,
		EndsAt:      view.Election.EndsAt,
		Private:     view.Election.Private,
		Status:      string(view.Status),
		Sponsored:   view.Sponsored,
	}
}

func toListResponse(views []application.ElectionView) httptransport.ElectionListResponse {
	elections := make([]httptransport.ElectionResponse, 0, len(views))
	for _, view := range views {
		elections = append(elections, toElectionResponse(view))
	}
	return httptransport.ElectionListResponse{Elections: elections}
}

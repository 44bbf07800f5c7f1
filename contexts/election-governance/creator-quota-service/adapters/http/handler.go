package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/election-governance/creator-quota-service/application"
	httptransport "agora/contexts/election-governance/creator-quota-service/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) ProfileHandler(ctx context.Context, creatorID string) (httptransport.CreatorProfileResponse, error) {
	view, err := h.Service.Profile(ctx, creatorID)
	if err != nil {
		return httptransport.CreatorProfileResponse{}, err
	}
	return httptransport.CreatorProfileResponse{
		CreatorID:            view.CreatorID,
		Blacklisted:          view.Blacklisted,
		ActiveElections:      view.ActiveElections,
		SponsorshipHeld:      view.SponsorshipHeld,
		TotalElections:       view.TotalElections,
		TotalDeposited:       view.TotalDeposited,
		TotalWithdrawn:       view.TotalWithdrawn,
		RemainingElections:   view.RemainingElections,
		RemainingSponsorship: view.RemainingSponsorship,
	}, nil
}

func (h Handler) BlacklistHandler(ctx context.Context, callerID string, creatorID string) (httptransport.BlacklistResponse, error) {
	if err := h.Service.Blacklist(ctx, callerID, creatorID); err != nil {
		return httptransport.BlacklistResponse{}, err
	}
	return httptransport.BlacklistResponse{CreatorID: creatorID, Blacklisted: true}, nil
}

func (h Handler) UnblacklistHandler(ctx context.Context, callerID string, creatorID string) (httptransport.BlacklistResponse, error) {
	if err := h.Service.Unblacklist(ctx, callerID, creatorID); err != nil {
		return httptransport.BlacklistResponse{}, err
	}
	return httptransport.BlacklistResponse{CreatorID: creatorID, Blacklisted: false}, nil
}

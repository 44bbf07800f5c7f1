package httpadapter

import (
	"context"
	"log/slog"

	"agora/contexts/election-governance/whitelist-registry/application"
	httptransport "agora/contexts/election-governance/whitelist-registry/transport/http"
)

type Handler struct {
	Service *application.Service
	Logger  *slog.Logger
}

func (h Handler) AddHandler(
	ctx context.Context,
	electionID string,
	callerID string,
	req httptransport.ModifyWhitelistRequest,
) (httptransport.ModifyWhitelistResponse, error) {
	added, err := h.Service.Add(ctx, application.AddEntriesCommand{
		ElectionID: electionID,
		CallerID:   callerID,
		Entries:    mapEntryInputs(req.Entries),
	})
	if err != nil {
		return httptransport.ModifyWhitelistResponse{}, err
	}
	return httptransport.ModifyWhitelistResponse{
		ElectionID: electionID,
		Changed:    added,
	}, nil
}

func (h Handler) RemoveHandler(
	ctx context.Context,
	electionID string,
	callerID string,
	req httptransport.ModifyWhitelistRequest,
) (httptransport.ModifyWhitelistResponse, error) {
	err := h.Service.Remove(ctx, application.RemoveEntriesCommand{
		ElectionID: electionID,
		CallerID:   callerID,
		Entries:    mapEntryInputs(req.Entries),
	})
	if err != nil {
		return httptransport.ModifyWhitelistResponse{}, err
	}
	return httptransport.ModifyWhitelistResponse{
		ElectionID: electionID,
		Changed:    len(req.Entries),
	}, nil
}

func (h Handler) ListHandler(ctx context.Context, electionID string, callerID string) (httptransport.WhitelistResponse, error) {
	entries, err := h.Service.ListEntries(ctx, electionID, callerID)
	if err != nil {
		return httptransport.WhitelistResponse{}, err
	}
	items := make([]httptransport.WhitelistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.WhitelistEntryResponse{
			IdentifierType: string(entry.IdentifierType),
			Value:          entry.Value,
			Active:         entry.Active,
		})
	}
	return httptransport.WhitelistResponse{
		ElectionID: electionID,
		Entries:    items,
	}, nil
}

func (h Handler) MembershipHandler(
	ctx context.Context,
	electionID string,
	identifierType string,
	value string,
) (httptransport.MembershipResponse, error) {
	member, err := h.Service.IsMember(ctx, electionID, identifierType, value)
	if err != nil {
		return httptransport.MembershipResponse{}, err
	}
	return httptransport.MembershipResponse{
		ElectionID: electionID,
		Member:     member,
	}, nil
}

func (h Handler) AccessHandler(
	ctx context.Context,
	electionID string,
	identifierType string,
	value string,
) (httptransport.AccessResponse, error) {
	allowed, err := h.Service.CanAccess(ctx, electionID, identifierType, value)
	if err != nil {
		return httptransport.AccessResponse{}, err
	}
	return httptransport.AccessResponse{
		ElectionID: electionID,
		CanAccess:  allowed,
	}, nil
}

func mapEntryInputs(inputs []httptransport.WhitelistEntryInput) []application.EntryInput {
	items := make([]application.EntryInput, 0, len(inputs))
	for _, input := range inputs {
		items = append(items, application.EntryInput{
			IdentifierType: input.IdentifierType,
			Value:          input.Value,
		})
	}
	return items
}

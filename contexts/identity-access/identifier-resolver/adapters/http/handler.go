package httpadapter

import (
	"log/slog"

	"agora/contexts/identity-access/identifier-resolver/application"
	"agora/contexts/identity-access/identifier-resolver/domain/entities"
	httptransport "agora/contexts/identity-access/identifier-resolver/transport/http"
)

type Handler struct {
	Resolver application.Resolver
	Logger   *slog.Logger
}

func (h Handler) ResolveHandler(req httptransport.ResolveIdentifierRequest) (httptransport.IdentifierResponse, error) {
	facets := entities.Facets{
		SmartAccountAddress: req.SmartAccountAddress,
		WalletAddress:       req.WalletAddress,
	}
	if req.SocialProvider != "" || req.Email != "" || req.Handle != "" {
		facets.Social = &entities.SocialFacet{
			Provider: req.SocialProvider,
			Email:    req.Email,
			Handle:   req.Handle,
		}
	}
	identifier, err := h.Resolver.Resolve(facets)
	if err != nil {
		return httptransport.IdentifierResponse{}, err
	}
	return httptransport.IdentifierResponse{
		IdentifierType:  string(identifier.Type),
		IdentifierValue: identifier.Value,
		Display:         entities.Display(identifier),
	}, nil
}

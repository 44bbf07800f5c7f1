package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	resolvererrors "agora/contexts/identity-access/identifier-resolver/domain/errors"
	resolverhttp "agora/contexts/identity-access/identifier-resolver/transport/http"
)

func (s *Server) registerIdentityRoutes() {
	s.mux.HandleFunc("POST /identifiers/resolve", s.handleResolveIdentifier)
}

func (s *Server) handleResolveIdentifier(w http.ResponseWriter, r *http.Request) {
	var req resolverhttp.ResolveIdentifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeIdentityError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.identity.Handler.ResolveHandler(req)
	if err != nil {
		writeIdentityDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeIdentityDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, resolvererrors.ErrNoIdentifierAvailable):
		writeIdentityError(w, http.StatusNotFound, "no_identifier", err.Error())
	case errors.Is(err, resolvererrors.ErrInvalidIdentifierType):
		writeIdentityError(w, http.StatusBadRequest, "invalid_identifier_type", err.Error())
	default:
		writeIdentityError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeIdentityError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, resolverhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

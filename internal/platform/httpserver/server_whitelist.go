package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	whitelisterrors "agora/contexts/election-governance/whitelist-registry/domain/errors"
	whitelisthttp "agora/contexts/election-governance/whitelist-registry/transport/http"
)

func (s *Server) registerWhitelistRoutes() {
	s.mux.HandleFunc("POST /elections/{election_id}/whitelist", s.handleAddToWhitelist)
	s.mux.HandleFunc("DELETE /elections/{election_id}/whitelist", s.handleRemoveFromWhitelist)
	s.mux.HandleFunc("GET /elections/{election_id}/whitelist", s.handleListWhitelist)
	s.mux.HandleFunc("GET /elections/{election_id}/membership", s.handleWhitelistMembership)
	s.mux.HandleFunc("GET /elections/{election_id}/access", s.handleWhitelistAccess)
}

func (s *Server) handleAddToWhitelist(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeWhitelistError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req whitelisthttp.ModifyWhitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWhitelistError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.whitelist.Handler.AddHandler(r.Context(), r.PathValue("election_id"), callerID, req)
	if err != nil {
		writeWhitelistDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveFromWhitelist(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeWhitelistError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req whitelisthttp.ModifyWhitelistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWhitelistError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.whitelist.Handler.RemoveHandler(r.Context(), r.PathValue("election_id"), callerID, req)
	if err != nil {
		writeWhitelistDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListWhitelist(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeWhitelistError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.whitelist.Handler.ListHandler(r.Context(), r.PathValue("election_id"), callerID)
	if err != nil {
		writeWhitelistDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWhitelistMembership(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.whitelist.Handler.MembershipHandler(
		r.Context(),
		r.PathValue("election_id"),
		query.Get("identifier_type"),
		query.Get("identifier_value"),
	)
	if err != nil {
		writeWhitelistDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWhitelistAccess(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.whitelist.Handler.AccessHandler(
		r.Context(),
		r.PathValue("election_id"),
		query.Get("identifier_type"),
		query.Get("identifier_value"),
	)
	if err != nil {
		writeWhitelistDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWhitelistDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, whitelisterrors.ErrElectionNotFound):
		writeWhitelistError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, whitelisterrors.ErrEntryNotFound):
		writeWhitelistError(w, http.StatusNotFound, "entry_not_found", err.Error())
	case errors.Is(err, whitelisterrors.ErrOwnerPermissioned):
		writeWhitelistError(w, http.StatusForbidden, "owner_only", err.Error())
	case errors.Is(err, whitelisterrors.ErrInvalidWhitelistEntry):
		writeWhitelistError(w, http.StatusBadRequest, "invalid_entry", err.Error())
	default:
		writeWhitelistError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWhitelistError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, whitelisthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

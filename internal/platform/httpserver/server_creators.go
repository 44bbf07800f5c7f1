package httpserver

import (
	"errors"
	"net/http"

	quotaerrors "agora/contexts/election-governance/creator-quota-service/domain/errors"
	quotahttp "agora/contexts/election-governance/creator-quota-service/transport/http"
)

func (s *Server) registerCreatorRoutes() {
	s.mux.HandleFunc("GET /creators/{creator_id}", s.handleCreatorProfile)
	s.mux.HandleFunc("POST /creators/{creator_id}/blacklist", s.handleBlacklistCreator)
	s.mux.HandleFunc("POST /creators/{creator_id}/unblacklist", s.handleUnblacklistCreator)
}

func (s *Server) handleCreatorProfile(w http.ResponseWriter, r *http.Request) {
	resp, err := s.creators.Handler.ProfileHandler(r.Context(), r.PathValue("creator_id"))
	if err != nil {
		writeCreatorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBlacklistCreator(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeCreatorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.creators.Handler.BlacklistHandler(r.Context(), callerID, r.PathValue("creator_id"))
	if err != nil {
		writeCreatorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnblacklistCreator(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeCreatorError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.creators.Handler.UnblacklistHandler(r.Context(), callerID, r.PathValue("creator_id"))
	if err != nil {
		writeCreatorDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeCreatorDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quotaerrors.ErrOperatorRestricted):
		writeCreatorError(w, http.StatusForbidden, "operator_only", err.Error())
	case errors.Is(err, quotaerrors.ErrCreatorBlacklisted):
		writeCreatorError(w, http.StatusForbidden, "creator_blacklisted", err.Error())
	case errors.Is(err, quotaerrors.ErrElectionQuotaExceeded),
		errors.Is(err, quotaerrors.ErrSponsorshipQuotaExceeded):
		writeCreatorError(w, http.StatusConflict, "quota_exceeded", err.Error())
	case errors.Is(err, quotaerrors.ErrWindowNotFound):
		writeCreatorError(w, http.StatusNotFound, "window_not_found", err.Error())
	case errors.Is(err, quotaerrors.ErrInvalidAmount):
		writeCreatorError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	default:
		writeCreatorError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeCreatorError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, quotahttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	quotaerrors "agora/contexts/election-governance/creator-quota-service/domain/errors"
	registryerrors "agora/contexts/election-governance/election-registry/domain/errors"
	registryhttp "agora/contexts/election-governance/election-registry/transport/http"
	ledgererrors "agora/contexts/finance-core/sponsorship-ledger/domain/errors"
	dispatchererrors "agora/contexts/submission-gateway/transaction-dispatcher/domain/errors"
	dispatcherhttp "agora/contexts/submission-gateway/transaction-dispatcher/transport/http"
)

func (s *Server) registerElectionRoutes() {
	s.mux.HandleFunc("POST /elections", s.handleCreateElection)
	s.mux.HandleFunc("POST /elections/private", s.handleCreatePrivateElection)
	s.mux.HandleFunc("GET /elections/public", s.handleListPublicElections)
	s.mux.HandleFunc("GET /elections/private", s.handleListPrivateElections)
	s.mux.HandleFunc("GET /elections/open", s.handleListOpenElections)
	s.mux.HandleFunc("GET /elections/accessible", s.handleListAccessibleElections)
	s.mux.HandleFunc("GET /elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /elections/{election_id}/vote", s.handleDispatchVote)
	s.mux.HandleFunc("GET /elections/{election_id}/results", s.handleElectionResults)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req registryhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.CreateHandler(r.Context(), ownerID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCreatePrivateElection(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Header.Get("X-User-Id")
	if ownerID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req registryhttp.CreatePrivateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.elections.Handler.CreatePrivateHandler(r.Context(), ownerID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.GetHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPublicElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListPublicHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListPrivateElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListPrivateHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListOpenElections(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ListOpenHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAccessibleElections(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.elections.Handler.ListAccessibleHandler(
		r.Context(),
		query.Get("identifier_type"),
		query.Get("identifier_value"),
	)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDispatchVote(w http.ResponseWriter, r *http.Request) {
	var req dispatcherhttp.DispatchVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDispatchError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.dispatcher.Handler.DispatchVoteHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeDispatchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleElectionResults(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ResultsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registryerrors.ErrElectionNotFound):
		writeElectionError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidTitle),
		errors.Is(err, registryerrors.ErrInvalidCandidatesLength),
		errors.Is(err, registryerrors.ErrInvalidElectionWindow),
		errors.Is(err, registryerrors.ErrInvalidIdentifier):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registryerrors.ErrElectionNotActive):
		writeElectionError(w, http.StatusConflict, "election_not_active", err.Error())
	case errors.Is(err, registryerrors.ErrElectionIsPrivate):
		writeElectionError(w, http.StatusForbidden, "election_is_private", err.Error())
	case errors.Is(err, registryerrors.ErrInvalidCandidate):
		writeElectionError(w, http.StatusUnprocessableEntity, "invalid_candidate", err.Error())
	case errors.Is(err, registryerrors.ErrDuplicateVote):
		writeElectionError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, quotaerrors.ErrCreatorBlacklisted):
		writeElectionError(w, http.StatusForbidden, "creator_blacklisted", err.Error())
	case errors.Is(err, quotaerrors.ErrElectionQuotaExceeded):
		writeElectionError(w, http.StatusConflict, "election_quota_exceeded", err.Error())
	case errors.Is(err, quotaerrors.ErrSponsorshipQuotaExceeded):
		writeElectionError(w, http.StatusConflict, "sponsorship_quota_exceeded", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidSponsorshipAmount):
		writeElectionError(w, http.StatusBadRequest, "invalid_deposit", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeDispatchDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatchererrors.ErrNoIdentifier):
		writeDispatchError(w, http.StatusUnauthorized, "no_identifier", err.Error())
	case errors.Is(err, dispatchererrors.ErrAccessDenied):
		writeDispatchError(w, http.StatusForbidden, "access_denied", err.Error())
	case errors.Is(err, dispatchererrors.ErrBallotRejected):
		writeDispatchError(w, http.StatusConflict, "ballot_rejected", err.Error())
	case errors.Is(err, dispatchererrors.ErrExhaustedAllStrategies):
		writeDispatchError(w, http.StatusBadGateway, "submission_exhausted", err.Error())
	default:
		writeDispatchError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, registryhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeDispatchError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, dispatcherhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

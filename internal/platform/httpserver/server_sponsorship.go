package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	quotaerrors "agora/contexts/election-governance/creator-quota-service/domain/errors"
	ledgererrors "agora/contexts/finance-core/sponsorship-ledger/domain/errors"
	ledgerhttp "agora/contexts/finance-core/sponsorship-ledger/transport/http"
)

func (s *Server) registerSponsorshipRoutes() {
	s.mux.HandleFunc("POST /elections/{election_id}/sponsorship", s.handleAddSponsorship)
	s.mux.HandleFunc("POST /elections/{election_id}/sponsorship/withdraw", s.handleWithdrawSponsorship)
	s.mux.HandleFunc("POST /elections/{election_id}/sponsorship/emergency", s.handleEmergencyWithdraw)
	s.mux.HandleFunc("POST /elections/{election_id}/sponsorship/emergency/enable", s.handleEnableEmergencyWithdrawals)
	s.mux.HandleFunc("POST /elections/{election_id}/sponsorship/emergency/disable", s.handleDisableEmergencyWithdrawals)
	s.mux.HandleFunc("GET /elections/{election_id}/sponsorship", s.handleSponsorshipStatus)
	s.mux.HandleFunc("GET /elections/{election_id}/sponsorship/check-funds", s.handleCheckFunds)
	s.mux.HandleFunc("GET /elections/{election_id}/sponsorship/analytics", s.handleSponsorshipAnalytics)
	s.mux.HandleFunc("GET /sponsorship/overview", s.handleSponsorshipOverview)
}

func (s *Server) handleAddSponsorship(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeSponsorshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req ledgerhttp.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSponsorshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sponsorship.Handler.DepositHandler(r.Context(), r.PathValue("election_id"), callerID, req)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawSponsorship(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeSponsorshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req ledgerhttp.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSponsorshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sponsorship.Handler.WithdrawHandler(r.Context(), r.PathValue("election_id"), callerID, req)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEmergencyWithdraw(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeSponsorshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	// The body is optional; an absent reason is recorded as empty.
	var req ledgerhttp.EmergencyWithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeSponsorshipError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.sponsorship.Handler.EmergencyWithdrawHandler(r.Context(), r.PathValue("election_id"), callerID, req)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEnableEmergencyWithdrawals(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeSponsorshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.sponsorship.Handler.EnableEmergencyHandler(r.Context(), r.PathValue("election_id"), callerID)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDisableEmergencyWithdrawals(w http.ResponseWriter, r *http.Request) {
	callerID := r.Header.Get("X-User-Id")
	if callerID == "" {
		writeSponsorshipError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	resp, err := s.sponsorship.Handler.DisableEmergencyHandler(r.Context(), r.PathValue("election_id"), callerID)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSponsorshipStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sponsorship.Handler.StatusHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckFunds(w http.ResponseWriter, r *http.Request) {
	votes := int64(1)
	if raw := r.URL.Query().Get("votes"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeSponsorshipError(w, http.StatusBadRequest, "invalid_votes", "votes must be an integer")
			return
		}
		votes = parsed
	}

	resp, err := s.sponsorship.Handler.CheckFundsHandler(r.Context(), r.PathValue("election_id"), votes)
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSponsorshipAnalytics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sponsorship.Handler.AnalyticsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSponsorshipOverview(w http.ResponseWriter, r *http.Request) {
	resp, err := s.sponsorship.Handler.OverviewHandler(r.Context())
	if err != nil {
		writeSponsorshipDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeSponsorshipDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledgererrors.ErrElectionNotFound),
		errors.Is(err, ledgererrors.ErrNoSponsorship):
		writeSponsorshipError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ledgererrors.ErrOwnerPermissioned),
		errors.Is(err, ledgererrors.ErrOnlySponsorCanWithdraw):
		writeSponsorshipError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, ledgererrors.ErrInvalidSponsorshipAmount),
		errors.Is(err, ledgererrors.ErrInvalidAmount):
		writeSponsorshipError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, ledgererrors.ErrInsufficientBalance):
		writeSponsorshipError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case errors.Is(err, quotaerrors.ErrSponsorshipQuotaExceeded):
		writeSponsorshipError(w, http.StatusConflict, "sponsorship_quota_exceeded", err.Error())
	case errors.Is(err, quotaerrors.ErrCreatorBlacklisted):
		writeSponsorshipError(w, http.StatusForbidden, "creator_blacklisted", err.Error())
	case errors.Is(err, ledgererrors.ErrEmergencyWithdrawalNotAllowed):
		writeSponsorshipError(w, http.StatusConflict, "emergency_withdrawal_not_allowed", err.Error())
	case errors.Is(err, ledgererrors.ErrLedgerInconsistent):
		writeSponsorshipError(w, http.StatusInternalServerError, "ledger_inconsistent", err.Error())
	default:
		writeSponsorshipError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeSponsorshipError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ledgerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

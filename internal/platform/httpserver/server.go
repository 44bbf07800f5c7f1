package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	creatorquotaservice "agora/contexts/election-governance/creator-quota-service"
	electionregistry "agora/contexts/election-governance/election-registry"
	whitelistregistry "agora/contexts/election-governance/whitelist-registry"
	sponsorshipledger "agora/contexts/finance-core/sponsorship-ledger"
	identifierresolver "agora/contexts/identity-access/identifier-resolver"
	transactiondispatcher "agora/contexts/submission-gateway/transaction-dispatcher"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "agora/internal/platform/httpserver/docs"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	elections   electionregistry.Module
	whitelist   whitelistregistry.Module
	sponsorship sponsorshipledger.Module
	creators    creatorquotaservice.Module
	dispatcher  transactiondispatcher.Module
	identity    identifierresolver.Module
}

func New(
	elections electionregistry.Module,
	whitelist whitelistregistry.Module,
	sponsorship sponsorshipledger.Module,
	creators creatorquotaservice.Module,
	dispatcher transactiondispatcher.Module,
	identity identifierresolver.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		elections:   elections,
		whitelist:   whitelist,
		sponsorship: sponsorship,
		creators:    creators,
		dispatcher:  dispatcher,
		identity:    identity,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.registerElectionRoutes()
	s.registerWhitelistRoutes()
	s.registerSponsorshipRoutes()
	s.registerCreatorRoutes()
	s.registerIdentityRoutes()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

package electionregistry

import (
	"log/slog"

	httpadapter "agora/contexts/election-governance/election-registry/adapters/http"
	"agora/contexts/election-governance/election-registry/adapters/memory"
	"agora/contexts/election-governance/election-registry/application"
	"agora/contexts/election-governance/election-registry/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections   ports.ElectionRepository
	Votes       ports.VoteRepository
	Quota       ports.QuotaGate
	Access      ports.AccessGate
	Sponsorship ports.SponsorshipGate
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDs         ports.IDGenerator
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Elections:   deps.Elections,
		Votes:       deps.Votes,
		Quota:       deps.Quota,
		Access:      deps.Access,
		Sponsorship: deps.Sponsorship,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDs:         deps.IDs,
		Logger:      deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires the registry over the in-memory store. The three
// gates still come from outside: the registry never owns quota, whitelist or
// sponsorship state.
func NewInMemoryModule(
	quota ports.QuotaGate,
	access ports.AccessGate,
	sponsorship ports.SponsorshipGate,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections:   store,
		Votes:       store,
		Quota:       quota,
		Access:      access,
		Sponsorship: sponsorship,
		Outbox:      store,
		Clock:       memory.SystemClock{},
		IDs:         memory.UUIDGenerator{},
		Logger:      logger,
	})
	module.Store = store
	return module
}

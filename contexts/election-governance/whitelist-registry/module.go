package whitelistregistry

import (
	"log/slog"

	httpadapter "agora/contexts/election-governance/whitelist-registry/adapters/http"
	"agora/contexts/election-governance/whitelist-registry/adapters/memory"
	"agora/contexts/election-governance/whitelist-registry/application"
	"agora/contexts/election-governance/whitelist-registry/domain/entities"
	"agora/contexts/election-governance/whitelist-registry/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionDirectory
	Entries   ports.EntryRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Elections: deps.Elections,
		Entries:   deps.Entries,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.WhitelistEntry, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Elections: store,
		Entries:   store,
		Clock:     memory.SystemClock{},
		Logger:    logger,
	})
	module.Store = store
	return module
}

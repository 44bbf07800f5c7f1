package creatorquotaservice

import (
	"log/slog"

	httpadapter "agora/contexts/election-governance/creator-quota-service/adapters/http"
	"agora/contexts/election-governance/creator-quota-service/adapters/memory"
	"agora/contexts/election-governance/creator-quota-service/application"
	"agora/contexts/election-governance/creator-quota-service/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Profiles ports.ProfileRepository
	Windows  ports.WindowRepository
	Clock    ports.Clock
	Operator string
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Profiles: deps.Profiles,
		Windows:  deps.Windows,
		Clock:    deps.Clock,
		Operator: deps.Operator,
		Logger:   deps.Logger,
	}
	return Module{
		Service: service,
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(operator string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Profiles: store,
		Windows:  store,
		Clock:    memory.SystemClock{},
		Operator: operator,
		Logger:   logger,
	})
	module.Store = store
	return module
}

package sponsorshipledger

import (
	"log/slog"

	httpadapter "agora/contexts/finance-core/sponsorship-ledger/adapters/http"
	"agora/contexts/finance-core/sponsorship-ledger/adapters/memory"
	"agora/contexts/finance-core/sponsorship-ledger/application"
	"agora/contexts/finance-core/sponsorship-ledger/ports"
)

type Module struct {
	Service *application.Service
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Elections ports.ElectionDirectory
	Accounts  ports.AccountRepository
	Outbox    ports.OutboxWriter
	Quota     ports.QuotaGate
	Clock     ports.Clock
	IDs       ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := &application.Service{
		Elections: deps.Elections,
		Accounts:  deps.Accounts,
		Outbox:    deps.Outbox,
		Quota:     deps.Quota,
		Clock:     deps.Clock,
		IDs:       deps.IDs,
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

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Elections: store,
		Accounts:  store,
		Outbox:    store,
		Clock:     memory.SystemClock{},
		IDs:       memory.UUIDGenerator{},
		Logger:    logger,
	})
	module.Store = store
	return module
}

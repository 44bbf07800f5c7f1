package transactiondispatcher

import (
	"log/slog"
	"time"

	httpadapter "agora/contexts/submission-gateway/transaction-dispatcher/adapters/http"
	"agora/contexts/submission-gateway/transaction-dispatcher/adapters/memory"
	"agora/contexts/submission-gateway/transaction-dispatcher/application"
	"agora/contexts/submission-gateway/transaction-dispatcher/ports"
)

type Module struct {
	Dispatcher *application.Dispatcher
	Handler    httpadapter.Handler
	Rails      *memory.Rails
}

type Dependencies struct {
	Identity     ports.IdentityResolver
	Access       ports.AccessChecker
	Sponsorship  ports.SponsorshipProbe
	Votes        ports.VoteReader
	Relay        ports.SponsoredRelay
	SmartAccount ports.SmartAccountClient
	Wallet       ports.WalletClient
	Clock        ports.Clock
	IDs          ports.IDGenerator
	MaxRetries   int
	RetryBackoff time.Duration
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dispatcher := &application.Dispatcher{
		Identity:     deps.Identity,
		Access:       deps.Access,
		Sponsorship:  deps.Sponsorship,
		Votes:        deps.Votes,
		Relay:        deps.Relay,
		SmartAccount: deps.SmartAccount,
		Wallet:       deps.Wallet,
		Clock:        deps.Clock,
		IDs:          deps.IDs,
		MaxRetries:   deps.MaxRetries,
		RetryBackoff: deps.RetryBackoff,
		Logger:       deps.Logger,
	}
	return Module{
		Dispatcher: dispatcher,
		Handler: httpadapter.Handler{
			Dispatcher: dispatcher,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires scripted in-memory rails behind the dispatcher.
// Identity, access and sponsorship stay injectable so the gateway can sit on
// the real collaborating services.
func NewInMemoryModule(
	identity ports.IdentityResolver,
	access ports.AccessChecker,
	sponsorship ports.SponsorshipProbe,
	logger *slog.Logger,
) Module {
	rails := memory.NewRails()
	module := NewModule(Dependencies{
		Identity:     identity,
		Access:       access,
		Sponsorship:  sponsorship,
		Votes:        rails,
		Relay:        rails.Relay(),
		SmartAccount: rails,
		Wallet:       rails,
		Clock:        memory.SystemClock{},
		IDs:          memory.UUIDGenerator{},
		Logger:       logger,
	})
	module.Rails = rails
	return module
}

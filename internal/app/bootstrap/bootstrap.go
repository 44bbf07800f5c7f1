package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	creatorquotaservice "agora/contexts/election-governance/creator-quota-service"
	quotapostgres "agora/contexts/election-governance/creator-quota-service/adapters/postgres"
	quotaworkers "agora/contexts/election-governance/creator-quota-service/application/workers"
	electionregistry "agora/contexts/election-governance/election-registry"
	registrymemory "agora/contexts/election-governance/election-registry/adapters/memory"
	registrypostgres "agora/contexts/election-governance/election-registry/adapters/postgres"
	registryworkers "agora/contexts/election-governance/election-registry/application/workers"
	whitelistregistry "agora/contexts/election-governance/whitelist-registry"
	whitelistmemory "agora/contexts/election-governance/whitelist-registry/adapters/memory"
	whitelistpostgres "agora/contexts/election-governance/whitelist-registry/adapters/postgres"
	sponsorshipledger "agora/contexts/finance-core/sponsorship-ledger"
	ledgermemory "agora/contexts/finance-core/sponsorship-ledger/adapters/memory"
	ledgerpostgres "agora/contexts/finance-core/sponsorship-ledger/adapters/postgres"
	ledgerworkers "agora/contexts/finance-core/sponsorship-ledger/application/workers"
	identifierresolver "agora/contexts/identity-access/identifier-resolver"
	transactiondispatcher "agora/contexts/submission-gateway/transaction-dispatcher"
	dispatchermemory "agora/contexts/submission-gateway/transaction-dispatcher/adapters/memory"
	"agora/internal/platform/config"
	"agora/internal/platform/db"
	"agora/internal/platform/httpserver"
	"agora/internal/platform/messaging"
)

// Package bootstrap is the composition root. Cross-context wiring lives
// here so the contexts themselves stay isolated behind their ports.

// Modules is the full wired application graph.
type Modules struct {
	Resolver   identifierresolver.Module
	Quota      creatorquotaservice.Module
	Whitelist  whitelistregistry.Module
	Ledger     sponsorshipledger.Module
	Elections  electionregistry.Module
	Dispatcher transactiondispatcher.Module
}

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres      *db.Postgres
	ledgerRelay   ledgerworkers.OutboxRelay
	registryRelay registryworkers.OutboxRelay
	sweeper       quotaworkers.DeadlineSweeper
	runLedger     bool
	runRegistry   bool
	runSweeper    bool
	pollInterval  time.Duration
	logger        *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	modules := buildPostgresModules(pg, cfg, logger)
	server := httpserver.New(
		modules.Elections,
		modules.Whitelist,
		modules.Ledger,
		modules.Quota,
		modules.Dispatcher,
		modules.Resolver,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewBus(cfg.BusBrokers, logger)
	if err != nil {
		return nil, err
	}

	modules := buildPostgresModules(pg, cfg, logger)
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	quotaRepo := quotapostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		ledgerRelay: ledgerworkers.OutboxRelay{
			Outbox:    ledgerRepo,
			Publisher: bus,
			Clock:     ledgerpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		registryRelay: registryworkers.OutboxRelay{
			Outbox:    registryRepo,
			Publisher: bus,
			Clock:     registrypostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		sweeper: quotaworkers.DeadlineSweeper{
			Service:   modules.Quota.Service,
			Windows:   quotaRepo,
			Clock:     quotapostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		runLedger:    cfg.EnableSponsorshipOutboxRelay,
		runRegistry:  cfg.EnableElectionOutboxRelay,
		runSweeper:   cfg.EnableDeadlineSweeper,
		pollInterval: cfg.WorkerPollInterval,
		logger:       logger,
	}, nil
}

func buildPostgresModules(pg *db.Postgres, cfg config.Config, logger *slog.Logger) Modules {
	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	whitelistRepo := whitelistpostgres.NewRepository(pg.DB, logger)
	ledgerRepo := ledgerpostgres.NewRepository(pg.DB, logger)
	quotaRepo := quotapostgres.NewRepository(pg.DB, logger)

	resolverModule := identifierresolver.NewModule(logger)

	quotaModule := creatorquotaservice.NewModule(creatorquotaservice.Dependencies{
		Profiles: quotaRepo,
		Windows:  quotaRepo,
		Clock:    quotapostgres.SystemClock{},
		Operator: cfg.RegistryOperator,
		Logger:   logger,
	})

	whitelistModule := whitelistregistry.NewModule(whitelistregistry.Dependencies{
		Elections: whitelistElectionDirectory{elections: registryRepo},
		Entries:   whitelistRepo,
		Clock:     whitelistpostgres.SystemClock{},
		Logger:    logger,
	})

	ledgerModule := sponsorshipledger.NewModule(sponsorshipledger.Dependencies{
		Elections: ledgerElectionDirectory{elections: registryRepo},
		Accounts:  ledgerRepo,
		Outbox:    ledgerRepo,
		Quota:     quotaModule.Service,
		Clock:     ledgerpostgres.SystemClock{},
		IDs:       ledgerpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	registryModule := electionregistry.NewModule(electionregistry.Dependencies{
		Elections:   registryRepo,
		Votes:       registryRepo,
		Quota:       quotaModule.Service,
		Access:      whitelistAccessGate{whitelist: whitelistModule.Service},
		Sponsorship: ledgerSponsorshipGate{ledger: ledgerModule.Service},
		Outbox:      registryRepo,
		Clock:       registrypostgres.SystemClock{},
		IDs:         registrypostgres.UUIDGenerator{},
		Logger:      logger,
	})

	rail := registryVoteRail{registry: registryModule.Service}
	dispatcherModule := transactiondispatcher.NewModule(transactiondispatcher.Dependencies{
		Identity:     identityResolverBridge{resolver: resolverModule.Resolver},
		Access:       whitelistModule.Service,
		Sponsorship:  ledgerModule.Service,
		Votes:        registryModule.Service,
		Relay:        rail,
		SmartAccount: rail,
		Wallet:       rail,
		Clock:        dispatchermemory.SystemClock{},
		IDs:          dispatchermemory.UUIDGenerator{},
		Logger:       logger,
	})

	return Modules{
		Resolver:   resolverModule,
		Quota:      quotaModule,
		Whitelist:  whitelistModule,
		Ledger:     ledgerModule,
		Elections:  registryModule,
		Dispatcher: dispatcherModule,
	}
}

// NewInMemoryModules wires the whole graph over in-memory stores. Tests and
// local runs use it; the bridges are the same ones production uses.
func NewInMemoryModules(operator string, logger *slog.Logger) Modules {
	resolverModule := identifierresolver.NewModule(logger)
	quotaModule := creatorquotaservice.NewInMemoryModule(operator, logger)

	registryStore := registrymemory.NewStore()

	whitelistStore := whitelistmemory.NewStore(nil)
	whitelistModule := whitelistregistry.NewModule(whitelistregistry.Dependencies{
		Elections: whitelistElectionDirectory{elections: registryStore},
		Entries:   whitelistStore,
		Clock:     whitelistmemory.SystemClock{},
		Logger:    logger,
	})
	whitelistModule.Store = whitelistStore

	ledgerStore := ledgermemory.NewStore()
	ledgerModule := sponsorshipledger.NewModule(sponsorshipledger.Dependencies{
		Elections: ledgerElectionDirectory{elections: registryStore},
		Accounts:  ledgerStore,
		Outbox:    ledgerStore,
		Quota:     quotaModule.Service,
		Clock:     ledgermemory.SystemClock{},
		IDs:       ledgermemory.UUIDGenerator{},
		Logger:    logger,
	})
	ledgerModule.Store = ledgerStore

	registryModule := electionregistry.NewModule(electionregistry.Dependencies{
		Elections:   registryStore,
		Votes:       registryStore,
		Quota:       quotaModule.Service,
		Access:      whitelistAccessGate{whitelist: whitelistModule.Service},
		Sponsorship: ledgerSponsorshipGate{ledger: ledgerModule.Service},
		Outbox:      registryStore,
		Clock:       registrymemory.SystemClock{},
		IDs:         registrymemory.UUIDGenerator{},
		Logger:      logger,
	})
	registryModule.Store = registryStore

	rail := registryVoteRail{registry: registryModule.Service}
	dispatcherModule := transactiondispatcher.NewModule(transactiondispatcher.Dependencies{
		Identity:     identityResolverBridge{resolver: resolverModule.Resolver},
		Access:       whitelistModule.Service,
		Sponsorship:  ledgerModule.Service,
		Votes:        registryModule.Service,
		Relay:        rail,
		SmartAccount: rail,
		Wallet:       rail,
		Clock:        dispatchermemory.SystemClock{},
		IDs:          dispatchermemory.UUIDGenerator{},
		Logger:       logger,
	})

	return Modules{
		Resolver:   resolverModule,
		Quota:      quotaModule,
		Whitelist:  whitelistModule,
		Ledger:     ledgerModule,
		Elections:  registryModule,
		Dispatcher: dispatcherModule,
	}
}

// NewServer builds the HTTP server over an already-wired module graph.
func NewServer(modules Modules, logger *slog.Logger, addr string) *httpserver.Server {
	return httpserver.New(
		modules.Elections,
		modules.Whitelist,
		modules.Ledger,
		modules.Quota,
		modules.Dispatcher,
		modules.Resolver,
		logger,
		addr,
	)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run drives the three background loops until the context is cancelled or
// one of them fails.
func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
		"sponsorship_relay", w.runLedger,
		"election_relay", w.runRegistry,
		"deadline_sweeper", w.runSweeper,
	)

	group, ctx := errgroup.WithContext(ctx)
	if w.runLedger {
		group.Go(func() error {
			return w.poll(ctx, w.ledgerRelay.RunOnce)
		})
	}
	if w.runRegistry {
		group.Go(func() error {
			return w.poll(ctx, w.registryRelay.RunOnce)
		})
	}
	if w.runSweeper {
		group.Go(func() error {
			return w.poll(ctx, w.sweeper.RunOnce)
		})
	}
	return group.Wait()
}

func (w *WorkerApp) poll(ctx context.Context, run func(context.Context) error) error {
	interval := w.pollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := run(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}

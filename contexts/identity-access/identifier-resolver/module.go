package identifierresolver

import (
	"log/slog"

	httpadapter "agora/contexts/identity-access/identifier-resolver/adapters/http"
	"agora/contexts/identity-access/identifier-resolver/application"
)

type Module struct {
	Resolver application.Resolver
	Handler  httpadapter.Handler
}

func NewModule(logger *slog.Logger) Module {
	resolver := application.Resolver{Logger: logger}
	return Module{
		Resolver: resolver,
		Handler:  httpadapter.Handler{Resolver: resolver, Logger: logger},
	}
}

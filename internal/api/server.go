// Package api serves the chat endpoint, the embeddable widget and the admin
// API over HTTP, plus the same question answering as MCP tools.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/spigell/askme/internal/resolver"
)

// Deps holds dependencies for the HTTP handlers.
type Deps struct {
	Resolver *resolver.Resolver
	Logger   *zap.Logger
	// AdminToken protects /admin. An empty token disables the admin API.
	AdminToken string
	Version    string
}

// NewHandler returns the HTTP handler of the service.
func NewHandler(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(requestLogger(deps.Logger))
	r.Use(cors)

	r.Get("/", handleWidget)
	r.Get("/widget", handleWidget)
	r.Get("/embed.js", handleEmbedScript)
	r.Get("/health", handleHealth(deps))
	r.Post("/chat", handleChat(deps))

	if deps.AdminToken != "" {
		r.Mount("/admin", newAdminHandler(deps))
	} else {
		deps.Logger.Info("admin token is not configured; admin api is disabled")
	}

	return r
}

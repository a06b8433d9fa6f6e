// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Draftline Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/draftline/draftline/internal/auth"
	"github.com/draftline/draftline/internal/observability"
)

// RouterConfig carries the router's dependencies. EventsHandler serves the
// live event stream and may be nil when streaming is disabled.
type RouterConfig struct {
	Handler       *Handler
	Resolver      *auth.Resolver
	Logger        *slog.Logger
	Metrics       *observability.Metrics
	EventsHandler http.Handler
}

// NewRouter assembles the HTTP API. Every auction route requires a bearer
// token; resolve additionally requires the commissioner flag, enforced by
// the coordinator itself.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(Recovery(cfg.Logger))
	r.Use(RequestID)
	r.Use(Logging(cfg.Logger, cfg.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(cfg.Resolver))

		r.Route("/auctions/{auctionID}", func(r chi.Router) {
			r.Post("/nominate", cfg.Handler.nominate)
			r.Post("/bid", cfg.Handler.bid)
			r.Post("/pass", cfg.Handler.pass)
			r.Post("/resolve", cfg.Handler.resolve)

			r.Get("/state", cfg.Handler.state)
			r.Get("/teams", cfg.Handler.listTeams)
			r.Get("/picks", cfg.Handler.listPicks)
			r.Get("/audit", cfg.Handler.listAudit)

			if cfg.EventsHandler != nil {
				r.Method(http.MethodGet, "/events", cfg.EventsHandler)
			}
		})
	})

	return r
}

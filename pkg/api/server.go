// Package api serves the pg-replicate control plane: tenant-scoped CRUD for
// source database registrations, health, and metrics.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/suryatmodulus/pg-replicate/pkg/sources"
)

// Router builds the control-plane router for the given store.
func Router(store *sources.Store, config ServerConfig, metrics *Metrics) chi.Router {
	server := NewServer(store, config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/v1/health", server.handleHealth))

		r.Post("/sources", metrics.InstrumentHandler("POST", "/v1/sources", server.handleCreateSource))
		r.Get("/sources", metrics.InstrumentHandler("GET", "/v1/sources", server.handleListSources))
		r.Get("/sources/{source_id}", metrics.InstrumentHandler("GET", "/v1/sources/{source_id}", server.handleGetSource))
		r.Put("/sources/{source_id}", metrics.InstrumentHandler("PUT", "/v1/sources/{source_id}", server.handleUpdateSource))
		r.Delete("/sources/{source_id}", metrics.InstrumentHandler("DELETE", "/v1/sources/{source_id}", server.handleDeleteSource))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store *sources.Store, config ServerConfig, metrics *Metrics) error {
	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	logrus.WithField("addr", addr).Info("starting control-plane api")
	return http.ListenAndServe(addr, Router(store, config, metrics))
}

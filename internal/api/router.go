// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/misinfoguard/sentinel/internal/database"
)

// NewRouter creates the API router with all routes and middleware.
func NewRouter(h *Handler, store database.Store, rateLimit int) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Public health check
	r.Get("/health", h.HealthCheck)

	// API routes (authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(store))
		r.Use(RateLimitMiddleware(rateLimit))
		r.Use(AuditMiddleware(store))

		r.Post("/analyze/text", h.AnalyzeText)
		r.Post("/check/text", h.CheckText)
		r.Post("/factcheck", h.FactCheckClaims)

		r.Get("/results", h.ListResults)
		r.Get("/results/{id}", h.GetResult)

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Get("/audit", h.GetAuditLogs)
			r.Post("/keys", h.CreateAPIKey)
			r.Get("/keys", h.ListAPIKeys)
			r.Delete("/keys/{id}", h.DeleteAPIKey)
		})
	})

	return r
}

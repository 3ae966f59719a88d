// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// PromptPolish API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptpolish/internal/handlers"
	"promptpolish/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	// RateLimiter throttles POST /api/optimize per client. Nil disables it.
	RateLimiter *middleware.RateLimiter

	// AllowedOrigins lists the origins admitted by CORS; "*" admits all.
	AllowedOrigins []string
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Only optimization calls are throttled.
		r.Group(func(r chi.Router) {
			if opts.RateLimiter != nil {
				r.Use(opts.RateLimiter.Middleware)
			}
			r.Post("/optimize", api.Optimize)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", api.ListHistory)
			r.Delete("/", api.ClearHistory)
			r.Get("/export", api.ExportHistory)
			r.Get("/{id}", api.GetHistory)
			r.Delete("/{id}", api.RemoveHistory)
		})

		r.Get("/catalog", api.Catalog)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"message":"` + msg + `"}`))
}

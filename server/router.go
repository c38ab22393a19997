/*
Copyright 2026 Protoreview Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"protoreview.dev/reviewer/tools"
)

// NewRouter assembles the middleware stack and API routes.
func NewRouter(cfg Config, registry *tools.Registry) *chi.Mux {
	return newRouter(cfg, newHandlers(registry))
}

func newRouter(cfg Config, h *handlers) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Reviews block on model turns; the ceiling is generous on purpose.
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(adAuth(cfg.AllowedADGroups))

	r.Get("/health", h.health)
	r.Get("/providers", h.providers)
	r.Post("/review", h.review)
	r.Post("/review/raw", h.reviewRaw)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
	})

	return r
}

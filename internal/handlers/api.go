// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the PromptPolish JSON API consumed by the web
// client, the browser extension and the CLI.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"promptpolish/internal/ai"
	"promptpolish/internal/catalog"
	"promptpolish/internal/export"
	"promptpolish/internal/history"
	"promptpolish/internal/models"
)

// Optimizer runs a raw optimization request. *optimizer.Service satisfies it.
type Optimizer interface {
	HandleOptimize(ctx context.Context, raw models.RawRequest) (string, error)
}

// API groups the JSON endpoints.
type API struct {
	optimizer Optimizer
	history   history.Log
}

// NewAPI creates the API handlers.
func NewAPI(opt Optimizer, log history.Log) *API {
	return &API{optimizer: opt, history: log}
}

// errorResponse is the body of every non-2xx answer. Error carries the
// underlying diagnostic when there is one.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// CatalogResponse lists the identifiers understood by the prompt builder.
type CatalogResponse struct {
	Styles       []string `json:"styles"`
	Features     []string `json:"features"`
	WebsiteTypes []string `json:"websiteTypes"`
	DesignStyles []string `json:"designStyles"`
}

// Optimize handles POST /api/optimize.
func (a *API) Optimize(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeOptimizeRequest(w, r)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}

	text, err := a.optimizer.HandleOptimize(r.Context(), raw)
	if err != nil {
		writeOptimizeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models.OptimizeResponse{OptimizedText: text})
}

// optimizeFailedMessage heads every backend failure response.
const optimizeFailedMessage = "Failed to optimize text"

// writeOptimizeError maps pipeline failures to status codes.
func writeOptimizeError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	var te *ai.TimeoutError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ve.Message})
	case errors.As(err, &te):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{
			Message: optimizeFailedMessage,
			Error:   te.Error(),
		})
	default:
		slog.Error("optimize request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: optimizeFailedMessage,
			Error:   err.Error(),
		})
	}
}

// ListHistory handles GET /api/history.
func (a *API) ListHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.history.List(r.Context())
	if err != nil {
		slog.Error("list history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to fetch history",
			Error:   err.Error(),
		})
		return
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ClearHistory handles DELETE /api/history.
func (a *API) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := a.history.Clear(r.Context()); err != nil {
		slog.Error("clear history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to clear history",
			Error:   err.Error(),
		})
		return
	}
	slog.Info("history cleared")
	writeJSON(w, http.StatusOK, messageResponse{Message: "History cleared successfully"})
}

// GetHistory handles GET /api/history/{id}.
func (a *API) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, ok, err := a.history.Get(r.Context(), id)
	if err != nil {
		slog.Error("get history failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to fetch history item",
			Error:   err.Error(),
		})
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "History item not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// RemoveHistory handles DELETE /api/history/{id}.
func (a *API) RemoveHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := a.history.Remove(r.Context(), id); err != nil {
		slog.Error("remove history failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to remove history item",
			Error:   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "History item removed"})
}

// ExportHistory handles GET /api/history/export?format=json|md|html and
// answers with the rendered document as an attachment.
func (a *API) ExportHistory(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	records, err := a.history.List(r.Context())
	if err != nil {
		slog.Error("export history failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to fetch history",
			Error:   err.Error(),
		})
		return
	}

	now := time.Now()
	doc, err := export.Render(records, format, now)
	if err != nil {
		slog.Error("render history export failed", "format", format, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: "Failed to export history",
			Error:   err.Error(),
		})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.Filename(now)+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// Catalog handles GET /api/catalog.
func (a *API) Catalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CatalogResponse{
		Styles:       catalog.Styles(),
		Features:     catalog.Features(),
		WebsiteTypes: catalog.WebsiteTypes(),
		DesignStyles: catalog.DesignStyles(),
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

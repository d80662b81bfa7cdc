// Package api exposes the thin JSON surface over the resilience core:
// catalog reads, settings administration, and order placement.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vietddude/storecore/internal/catalog"
	"github.com/vietddude/storecore/internal/core/apperr"
	"github.com/vietddude/storecore/internal/core/worker"
	"github.com/vietddude/storecore/internal/notify"
	"github.com/vietddude/storecore/internal/orders"
	"github.com/vietddude/storecore/internal/settings"
)

// Server is the storefront API server.
type Server struct {
	catalog  *catalog.Catalog
	settings *settings.Engine
	writer   *orders.Writer
	notifier *notify.Dispatcher
	queue    *worker.Queue
	log      *slog.Logger
	dev      bool

	server *http.Server
}

// NewServer creates the API server.
func NewServer(
	port int,
	cat *catalog.Catalog,
	eng *settings.Engine,
	writer *orders.Writer,
	notifier *notify.Dispatcher,
	queue *worker.Queue,
	log *slog.Logger,
	dev bool,
) *Server {
	s := &Server{
		catalog:  cat,
		settings: eng,
		writer:   writer,
		notifier: notifier,
		queue:    queue,
		log:      log,
		dev:      dev,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", s.handleListProducts)
	mux.HandleFunc("GET /products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /products/{id}/similar", s.handleSimilarProducts)
	mux.HandleFunc("GET /products/slug/{slug}", s.handleGetProductBySlug)
	mux.HandleFunc("GET /admin/settings/{name}", s.handleGetSettings)
	mux.HandleFunc("PUT /admin/settings/{name}", s.handleUpdateSettings)
	mux.HandleFunc("POST /orders", s.handleCreateOrder)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the underlying handler. Test hook.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Debug("failed to encode response", "error", err)
	}
}

// writeError maps an error through the taxonomy to an HTTP response.
// Only the user-facing message leaves the process (plus detail in dev
// mode); validation field errors are included as sanitized detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !asAppError(err, &appErr) {
		appErr = apperr.New(apperr.Classify(err), err.Error(), apperr.SeverityMedium, apperr.WithCause(err))
	}

	body := map[string]any{
		"error": appErr.SafeMessage(s.dev),
		"kind":  string(appErr.Kind),
	}
	if fields, hasFields := appErr.Meta["field_errors"]; hasFields {
		body["fields"] = fields
	}
	s.writeJSON(w, apperr.HTTPStatus(appErr.Kind), body)
}

// Package api exposes the HTTP surface: the password gate, report upload,
// aggregated views, and label/thumbnail updates.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vidlytics/internal/config"
	"vidlytics/internal/engine"
	"vidlytics/internal/middleware"
	"vidlytics/internal/observability"
	"vidlytics/internal/store"
	"vidlytics/internal/thumbs"
)

// Server groups dependencies for HTTP handlers.
type Server struct {
	Logger     *zap.Logger
	Store      store.Store
	Engine     *engine.Engine
	Thumbs     thumbs.Generator
	ThumbCache *thumbs.Cache
	Metrics    observability.MetricsRegistry
	Config     config.Config
}

// NewServer constructs a Server.
func NewServer(logger *zap.Logger, st store.Store, eng *engine.Engine, gen thumbs.Generator, cache *thumbs.Cache, metrics observability.MetricsRegistry, cfg config.Config) *Server {
	return &Server{
		Logger:     logger,
		Store:      st,
		Engine:     eng,
		Thumbs:     gen,
		ThumbCache: cache,
		Metrics:    metrics,
		Config:     cfg,
	}
}

// Router wires all routes. Everything under /api except the session exchange
// requires a valid session token.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.WithTraceLogger(s.Logger))

	r.HandleFunc("/healthz", s.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/session", s.SessionHandler).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(s.requireSession)
	authed.HandleFunc("/reports", s.UploadReportHandler).Methods(http.MethodPost)
	authed.HandleFunc("/report", s.GetReportHandler).Methods(http.MethodGet)
	authed.HandleFunc("/views/performance", s.PerformanceViewHandler).Methods(http.MethodGet)
	authed.HandleFunc("/views/abtests", s.ABTestViewHandler).Methods(http.MethodGet)
	authed.HandleFunc("/assets/{id}/label", s.UpdateLabelHandler).Methods(http.MethodPatch)
	authed.HandleFunc("/assets/{id}/thumbnail", s.ThumbnailHandler).Methods(http.MethodPost)

	return r
}

// writeJSON renders v with the given status. Encoding failures are logged,
// not surfaced; the status line is already written.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
	}
}

// writeError renders a JSON error body.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

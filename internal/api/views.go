package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"vidlytics/internal/engine"
	"vidlytics/internal/middleware"
)

// PerformanceViewHandler returns metrics aggregated by creative label or
// category. Sorting is opt-in via ?sort=<metric>&order=asc|desc; without it
// rows keep group insertion order.
func (s *Server) PerformanceViewHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/views/performance"
	userID := requestUserID(r)

	dim := engine.DimensionLabel
	if raw := r.URL.Query().Get("dimension"); raw != "" {
		parsed, ok := engine.ParseDimension(raw)
		if !ok {
			s.Metrics.IncrementRequests(endpoint, r.Method, "400")
			s.writeError(w, http.StatusBadRequest, "unknown dimension")
			return
		}
		dim = parsed
	}

	assets, records, err := s.Store.Load(r.Context(), userID)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("load data set", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	index := engine.BuildAssetIndex(assets)
	rows := s.Engine.AggregateByDimension(records, index, dim)

	if metric := r.URL.Query().Get("sort"); metric != "" {
		descending := r.URL.Query().Get("order") != "asc"
		if err := engine.SortRows(rows, metric, descending); err != nil {
			s.Metrics.IncrementRequests(endpoint, r.Method, "400")
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"dimension": dim,
		"rows":      rows,
		"totals":    engine.GrandTotal(rows),
	})
}

// ABTestViewHandler returns competitive groups for one targeting dimension.
// ?only=abtests keeps just the groups where creatives actually compete.
func (s *Server) ABTestViewHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/views/abtests"
	userID := requestUserID(r)

	target := engine.TargetKeyword
	if raw := r.URL.Query().Get("groupBy"); raw != "" {
		parsed, ok := engine.ParseTargetType(raw)
		if !ok {
			s.Metrics.IncrementRequests(endpoint, r.Method, "400")
			s.writeError(w, http.StatusBadRequest, "unknown groupBy target")
			return
		}
		target = parsed
	}

	assets, records, err := s.Store.Load(r.Context(), userID)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("load data set", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	index := engine.BuildAssetIndex(assets)
	groups := s.Engine.BuildCompetitiveGroups(records, index, target)

	if r.URL.Query().Get("only") == "abtests" {
		groups = engine.FilterABTests(groups)
	}

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"group_by": target,
		"groups":   groups,
	})
}

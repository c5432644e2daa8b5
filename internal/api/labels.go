package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vidlytics/internal/middleware"
	"vidlytics/internal/store"
)

// UpdateLabelHandler applies a partial label edit to one asset. Fields
// absent from the body keep their current value.
func (s *Server) UpdateLabelHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/assets/{id}/label"
	userID := requestUserID(r)
	assetID := mux.Vars(r)["id"]

	var upd store.LabelUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.Metrics.IncrementRequests(endpoint, r.Method, "400")
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if upd.CreativeName == nil && upd.Category == nil {
		s.Metrics.IncrementRequests(endpoint, r.Method, "400")
		s.writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	if err := s.Store.UpdateAssetLabel(r.Context(), userID, assetID, upd); err != nil {
		if errors.Is(err, store.ErrAssetNotFound) {
			s.Metrics.IncrementRequests(endpoint, r.Method, "404")
			s.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		middleware.LoggerFromRequest(r, s.Logger).Error("update label", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to update label")
		return
	}

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

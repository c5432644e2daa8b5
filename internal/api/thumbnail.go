package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"vidlytics/internal/middleware"
	"vidlytics/internal/models"
	"vidlytics/internal/store"
	"vidlytics/internal/thumbs"
)

// ThumbnailHandler generates (or returns a cached) thumbnail for one asset
// and persists it as the asset's thumbnail URL. Generation is best-effort: a
// source that yields no image answers 204, not an error.
func (s *Server) ThumbnailHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/assets/{id}/thumbnail"
	logger := middleware.LoggerFromRequest(r, s.Logger)
	userID := requestUserID(r)
	assetID := mux.Vars(r)["id"]

	assets, _, err := s.Store.Load(r.Context(), userID)
	if err != nil {
		logger.Error("load data set", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to load data")
		return
	}

	var asset *models.Asset
	for i := range assets {
		if assets[i].ID == assetID {
			asset = &assets[i]
			break
		}
	}
	if asset == nil {
		s.Metrics.IncrementRequests(endpoint, r.Method, "404")
		s.writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	if asset.Synthesized {
		// Synthesized placeholders have no source URL; a thumbnail can never
		// exist for them.
		s.Metrics.IncrementRequests(endpoint, r.Method, "422")
		s.writeError(w, http.StatusUnprocessableEntity, "asset was synthesized from performance rows")
		return
	}

	if s.ThumbCache != nil {
		if url, hit, err := s.ThumbCache.Get(r.Context(), userID, assetID); err != nil {
			logger.Warn("thumbnail cache get", zap.Error(err))
		} else if hit {
			s.Metrics.IncrementThumbnailFetch("hit")
			s.Metrics.IncrementRequests(endpoint, r.Method, "200")
			s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
			s.writeJSON(w, http.StatusOK, map[string]string{"thumbnail_url": url})
			return
		}
	}

	data, contentType, err := s.Thumbs.Generate(r.Context(), asset.URL)
	if err != nil {
		logger.Error("generate thumbnail", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "500")
		s.writeError(w, http.StatusInternalServerError, "thumbnail generation failed")
		return
	}
	if data == nil {
		s.Metrics.IncrementThumbnailFetch("absent")
		s.Metrics.IncrementRequests(endpoint, r.Method, "204")
		s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	url := thumbs.DataURL(data, contentType)

	if s.ThumbCache != nil {
		if err := s.ThumbCache.Set(r.Context(), userID, assetID, url); err != nil {
			logger.Warn("thumbnail cache set", zap.Error(err))
		}
	}
	if err := s.Store.UpdateAssetThumbnail(r.Context(), userID, assetID, url); err != nil {
		if errors.Is(err, store.ErrAssetNotFound) {
			s.Metrics.IncrementRequests(endpoint, r.Method, "404")
			s.writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		logger.Error("persist thumbnail", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to persist thumbnail")
		return
	}

	s.Metrics.IncrementThumbnailFetch("generated")
	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string]string{"thumbnail_url": url})
}

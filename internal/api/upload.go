package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vidlytics/internal/engine"
	"vidlytics/internal/middleware"
	"vidlytics/internal/report"
)

type uploadResponse struct {
	UploadID     string   `json:"upload_id"`
	Assets       int      `json:"assets"`
	Synthesized  int      `json:"synthesized"`
	Records      int      `json:"records"`
	RowsRejected int      `json:"rows_rejected"`
	SourceSheet  string   `json:"source_sheet,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

// UploadReportHandler ingests one bulk-report workbook: parse, carry labels
// forward from the previously saved asset set, then full-replace save. A
// workbook that cannot be decoded leaves the stored data untouched.
func (s *Server) UploadReportHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/reports"
	logger := middleware.LoggerFromRequest(r, s.Logger)
	userID := requestUserID(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.Config.MaxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		s.Metrics.IncrementRequests(endpoint, r.Method, "400")
		s.writeError(w, http.StatusBadRequest, "missing file upload")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	res, err := report.Parse(file)
	if err != nil {
		var parseErr *report.ParseError
		if errors.As(err, &parseErr) {
			logger.Warn("workbook rejected", zap.Error(parseErr))
			s.Metrics.IncrementReportsParsed("decode_error")
			s.Metrics.IncrementRequests(endpoint, r.Method, "400")
			s.writeError(w, http.StatusBadRequest, "invalid file")
			return
		}
		logger.Error("parse report", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "500")
		s.writeError(w, http.StatusInternalServerError, "failed to parse report")
		return
	}

	// Labels attached to previously uploaded assets survive replacement when
	// the same asset id reappears in the new set.
	prevAssets, _, err := s.Store.Load(r.Context(), userID)
	if err != nil {
		logger.Warn("load previous assets for label carry-forward", zap.Error(err))
	}
	res.Assets = engine.CarryForwardLabels(prevAssets, res.Assets)

	if err := s.Store.Save(r.Context(), userID, res.Assets, res.Records); err != nil {
		logger.Error("save report", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to persist report")
		return
	}

	if s.ThumbCache != nil {
		if err := s.ThumbCache.Purge(r.Context(), userID); err != nil {
			logger.Warn("purge thumbnail cache", zap.Error(err))
		}
	}

	synthesized := 0
	for _, a := range res.Assets {
		if a.Synthesized {
			synthesized++
		}
	}

	s.Metrics.IncrementReportsParsed("ok")
	s.Metrics.AddRowsRejected(res.Diagnostics.RowsRejected)
	s.Metrics.AddAssetsSynthesized(synthesized)

	logger.Info("report ingested",
		zap.String("user_id", userID),
		zap.Int("assets", len(res.Assets)),
		zap.Int("records", len(res.Records)),
		zap.Int("rows_rejected", res.Diagnostics.RowsRejected),
		zap.Int("synthesized", synthesized),
	)

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, uploadResponse{
		UploadID:     uuid.New().String(),
		Assets:       len(res.Assets),
		Synthesized:  synthesized,
		Records:      len(res.Records),
		RowsRejected: res.Diagnostics.RowsRejected,
		SourceSheet:  res.Diagnostics.SourceSheet,
		Warnings:     res.Diagnostics.Warnings,
	})
}

// GetReportHandler returns the stored data set for the session's identity.
func (s *Server) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	const endpoint = "/api/report"
	userID := requestUserID(r)

	assets, records, err := s.Store.Load(r.Context(), userID)
	if err != nil {
		middleware.LoggerFromRequest(r, s.Logger).Error("load report", zap.Error(err))
		s.Metrics.IncrementRequests(endpoint, r.Method, "502")
		s.writeError(w, http.StatusBadGateway, "failed to load report")
		return
	}

	s.Metrics.IncrementRequests(endpoint, r.Method, "200")
	s.Metrics.RecordRequestLatency(endpoint, r.Method, time.Since(start))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"assets":  assets,
		"records": records,
	})
}

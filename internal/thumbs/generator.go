// Package thumbs produces and caches still thumbnails for creative assets.
// Generation is best-effort: a source that cannot be fetched or is not an
// image yields absence, never an escalated error.
package thumbs

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Generator turns an asset URL into raw image bytes, or nil when no
// thumbnail can be produced.
type Generator interface {
	Generate(ctx context.Context, assetURL string) (data []byte, contentType string, err error)
}

// HTTPGenerator fetches the asset URL and accepts image responses only.
// Video sources (and anything else that is not an image) produce absence.
type HTTPGenerator struct {
	Client   *http.Client
	MaxBytes int64
	Logger   *zap.Logger
}

// NewHTTPGenerator constructs a generator with the given per-fetch timeout
// and response size cap.
func NewHTTPGenerator(timeout time.Duration, maxBytes int64, logger *zap.Logger) *HTTPGenerator {
	return &HTTPGenerator{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: maxBytes,
		Logger:   logger,
	}
}

// Generate fetches assetURL once, with no retries. A nil data return with a
// nil error means "no thumbnail available" and is the expected outcome for
// video assets and blocked origins.
func (g *HTTPGenerator) Generate(ctx context.Context, assetURL string) ([]byte, string, error) {
	if assetURL == "" {
		return nil, "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build thumbnail request: %w", err)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		// Unreachable origin is an absence, not a failure.
		g.Logger.Debug("thumbnail fetch failed", zap.String("url", assetURL), zap.Error(err))
		return nil, "", nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		g.Logger.Debug("thumbnail fetch rejected",
			zap.String("url", assetURL), zap.Int("status", resp.StatusCode))
		return nil, "", nil
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, g.MaxBytes))
	if err != nil {
		g.Logger.Debug("thumbnail read failed", zap.String("url", assetURL), zap.Error(err))
		return nil, "", nil
	}
	if len(data) == 0 {
		return nil, "", nil
	}
	return data, contentType, nil
}

// DataURL encodes image bytes as a data URL suitable for storing as a
// thumbnail_url value.
func DataURL(data []byte, contentType string) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Package store persists a user's parsed report data and the labels attached
// to it. Save has full-replace semantics: one upload owns the whole data set
// for an identity, and labels survive replacement only because the caller
// carries them forward onto the new asset set before saving.
package store

import (
	"context"
	"errors"

	"vidlytics/internal/models"
)

// ErrAssetNotFound is returned by label and thumbnail updates when the asset
// id does not exist under the given user.
var ErrAssetNotFound = errors.New("asset not found")

// LabelUpdate carries a partial label edit. Nil fields are left untouched.
type LabelUpdate struct {
	CreativeName *string `json:"creative_name,omitempty"`
	Category     *string `json:"category,omitempty"`
}

// Store is the persistence boundary for labeled report data. Operations are
// one-shot request/response with no retry logic; a failed save never rolls
// back the caller's in-memory data.
type Store interface {
	// Save replaces the full data set for userID. Prior rows for that
	// identity are cleared before insert (idempotent full-replace).
	Save(ctx context.Context, userID string, assets []models.Asset, records []models.PerformanceRecord) error

	// Load returns the current data set for userID, empty slices when none
	// was ever saved.
	Load(ctx context.Context, userID string) ([]models.Asset, []models.PerformanceRecord, error)

	// UpdateAssetLabel applies a partial label edit to one asset.
	UpdateAssetLabel(ctx context.Context, userID, assetID string, upd LabelUpdate) error

	// UpdateAssetThumbnail records a generated thumbnail URL for one asset.
	UpdateAssetThumbnail(ctx context.Context, userID, assetID, url string) error
}

package store

import (
	"context"
	"sync"

	"vidlytics/internal/models"
)

// Memory is an in-process Store used in tests and single-node dev mode. It
// mirrors the full-replace and partial-update semantics of the Postgres
// implementation.
type Memory struct {
	mu   sync.RWMutex
	data map[string]*memorySet
}

type memorySet struct {
	assets  []models.Asset
	records []models.PerformanceRecord
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]*memorySet)}
}

// Save replaces the full data set for userID.
func (m *Memory) Save(_ context.Context, userID string, assets []models.Asset, records []models.PerformanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set := &memorySet{
		assets:  make([]models.Asset, len(assets)),
		records: make([]models.PerformanceRecord, len(records)),
	}
	copy(set.assets, assets)
	copy(set.records, records)
	m.data[userID] = set
	return nil
}

// Load returns copies of the saved set, empty when nothing was saved.
func (m *Memory) Load(_ context.Context, userID string) ([]models.Asset, []models.PerformanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.data[userID]
	if !ok {
		return nil, nil, nil
	}
	assets := make([]models.Asset, len(set.assets))
	records := make([]models.PerformanceRecord, len(set.records))
	copy(assets, set.assets)
	copy(records, set.records)
	return assets, records, nil
}

// UpdateAssetLabel applies a partial label edit to one asset.
func (m *Memory) UpdateAssetLabel(_ context.Context, userID, assetID string, upd LabelUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	asset := m.findAsset(userID, assetID)
	if asset == nil {
		return ErrAssetNotFound
	}
	if upd.CreativeName != nil {
		asset.CreativeName = *upd.CreativeName
	}
	if upd.Category != nil {
		asset.Category = *upd.Category
	}
	return nil
}

// UpdateAssetThumbnail records a thumbnail URL for one asset.
func (m *Memory) UpdateAssetThumbnail(_ context.Context, userID, assetID, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	asset := m.findAsset(userID, assetID)
	if asset == nil {
		return ErrAssetNotFound
	}
	asset.ThumbnailURL = url
	return nil
}

// findAsset requires the caller to hold the write lock.
func (m *Memory) findAsset(userID, assetID string) *models.Asset {
	set, ok := m.data[userID]
	if !ok {
		return nil
	}
	for i := range set.assets {
		if set.assets[i].ID == assetID {
			return &set.assets[i]
		}
	}
	return nil
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidlytics/internal/models"
)

func strptr(s string) *string { return &s }

func TestMemorySaveReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Save(ctx, "u1", []models.Asset{{ID: "a1"}}, []models.PerformanceRecord{{VideoAssetIDs: "a1"}}))
	require.NoError(t, m.Save(ctx, "u1", []models.Asset{{ID: "a2"}}, nil))

	assets, records, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "a2", assets[0].ID)
	assert.Empty(t, records)
}

func TestMemoryLoadUnknownUser(t *testing.T) {
	m := NewMemory()
	assets, records, err := m.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, assets)
	assert.Empty(t, records)
}

func TestMemoryUpdateAssetLabel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "u1", []models.Asset{{ID: "a1", Category: "Old"}}, nil))

	// Partial update: nil category keeps the current value.
	require.NoError(t, m.UpdateAssetLabel(ctx, "u1", "a1", LabelUpdate{CreativeName: strptr("Hook A")}))

	assets, _, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Hook A", assets[0].CreativeName)
	assert.Equal(t, "Old", assets[0].Category)

	err = m.UpdateAssetLabel(ctx, "u1", "missing", LabelUpdate{Category: strptr("X")})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestMemoryUpdateAssetThumbnail(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "u1", []models.Asset{{ID: "a1"}}, nil))

	require.NoError(t, m.UpdateAssetThumbnail(ctx, "u1", "a1", "data:image/png;base64,xx"))

	assets, _, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,xx", assets[0].ThumbnailURL)

	err = m.UpdateAssetThumbnail(ctx, "u2", "a1", "url")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestMemoryLoadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Save(ctx, "u1", []models.Asset{{ID: "a1"}}, nil))

	assets, _, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	assets[0].CreativeName = "mutated"

	again, _, err := m.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "", again[0].CreativeName)
}

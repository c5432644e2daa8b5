package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidlytics/internal/models"
)

func TestCarryForwardLabels(t *testing.T) {
	previous := []models.Asset{
		{ID: "a1", CreativeName: "Hook A", Category: "Lifestyle", ThumbnailURL: "data:image/png;base64,xx"},
		{ID: "gone", CreativeName: "Dropped"},
	}
	next := []models.Asset{
		{ID: "a1", Name: "intro.mp4"},
		{ID: "new", Name: "fresh.mp4"},
	}

	out := CarryForwardLabels(previous, next)

	// Labels survive for ids present in both sets.
	assert.Equal(t, "Hook A", out[0].CreativeName)
	assert.Equal(t, "Lifestyle", out[0].Category)
	assert.Equal(t, "data:image/png;base64,xx", out[0].ThumbnailURL)

	// Ids absent from the new set lose their labels with it.
	assert.Equal(t, "", out[1].CreativeName)
	assert.Equal(t, "", out[1].Category)
}

func TestCarryForwardNoPrevious(t *testing.T) {
	next := []models.Asset{{ID: "a1"}}
	out := CarryForwardLabels(nil, next)
	assert.Equal(t, next, out)
}

func TestBuildAssetIndex(t *testing.T) {
	index := BuildAssetIndex([]models.Asset{{ID: "a1", Name: "x"}, {ID: "a2"}})
	assert.Len(t, index, 2)
	assert.Equal(t, "x", index["a1"].Name)
}

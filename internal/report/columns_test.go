package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnIndexCaseInsensitive(t *testing.T) {
	idx := newColumnIndex([]string{"CAMPAIGN NAME", " Spend "})
	row := []string{"Brand Launch", "12.5"}

	assert.Equal(t, "Brand Launch", idx.text(row, colCampaignName))
	assert.InDelta(t, 12.5, idx.number(row, colSpend), 1e-9)
}

func TestColumnIndexDuplicateHeaderFirstWins(t *testing.T) {
	idx := newColumnIndex([]string{"Spend", "Spend"})
	row := []string{"1", "2"}
	assert.InDelta(t, 1.0, idx.number(row, colSpend), 1e-9)
}

func TestAliasPriorityTakesFirstNonEmpty(t *testing.T) {
	// Both the current and the legacy spelling are present; the current one
	// is empty, so resolution falls through to the legacy column.
	idx := newColumnIndex([]string{"Video Media Ids", "Creative Asset Ids"})
	row := []string{"", "amzn1.v1"}
	assert.Equal(t, "amzn1.v1", idx.text(row, colVideoAssetIDs))

	row = []string{"amzn1.v2", "amzn1.v1"}
	assert.Equal(t, "amzn1.v2", idx.text(row, colVideoAssetIDs))
}

func TestNumberParsing(t *testing.T) {
	idx := newColumnIndex([]string{"Spend"})

	cases := map[string]float64{
		"12.5":      12.5,
		"$1,200.50": 1200.50,
		"45%":       45,
		"":          0,
		"n/a":       0,
	}
	for raw, want := range cases {
		assert.InDelta(t, want, idx.number([]string{raw}, colSpend), 1e-9, "raw=%q", raw)
	}
}

func TestNumberMissingColumnDefaultsZero(t *testing.T) {
	idx := newColumnIndex([]string{"Campaign Name"})
	assert.Zero(t, idx.number([]string{"x"}, colSpend))
	assert.Zero(t, idx.count([]string{"x"}, colImpressions))
}

func TestCellToleratesShortRows(t *testing.T) {
	assert.Equal(t, "", cell([]string{"a"}, 5))
	assert.Equal(t, "b", cell([]string{"a", " b "}, 1))
}

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidlytics/internal/models"
)

func testAssets() []models.Asset {
	return []models.Asset{
		{ID: "a1", Type: models.AssetTypeVideo, Name: "intro.mp4", CreativeName: "Hook A", Category: "Lifestyle"},
		{ID: "a2", Type: models.AssetTypeVideo, Name: "demo.mp4", CreativeName: "Hook B", Category: "Demo"},
		{ID: "a3", Type: models.AssetTypeVideo, Name: "outro.mp4"},
	}
}

func TestAggregateByLabel(t *testing.T) {
	e := New()
	index := BuildAssetIndex(testAssets())
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a1", AdName: "Ad 1", CampaignName: "C1", AdGroupName: "G1",
			Impressions: 1000, Clicks: 20, Orders: 4, Spend: 10, Sales: 40},
		{VideoAssetIDs: "a1", AdName: "Ad 2", CampaignName: "C1", AdGroupName: "G1",
			Impressions: 500, Clicks: 5, Orders: 1, Spend: 30, Sales: 30},
		{VideoAssetIDs: "a2", AdName: "Ad 3", CampaignName: "C2", AdGroupName: "G2",
			Impressions: 200, Clicks: 0, Spend: 0, Sales: 0},
	}

	rows := e.AggregateByDimension(records, index, DimensionLabel)
	require.Len(t, rows, 2)

	hookA := rows[0]
	assert.Equal(t, "Hook A", hookA.Key)
	assert.Equal(t, int64(1500), hookA.Impressions)
	assert.Equal(t, int64(25), hookA.Clicks)
	assert.Equal(t, int64(5), hookA.Orders)
	assert.InDelta(t, 40.0, hookA.Spend, 1e-9)
	assert.InDelta(t, 70.0, hookA.Sales, 1e-9)

	// Derived, never summed from the source ratio columns.
	assert.InDelta(t, 25.0/1500.0*100, hookA.CTR, 1e-9)
	assert.InDelta(t, 5.0/25.0*100, hookA.ConversionRate, 1e-9)
	assert.InDelta(t, 40.0/25.0, hookA.CPC, 1e-9)
	assert.InDelta(t, 70.0/40.0, hookA.ROAS, 1e-9)

	// Zero denominators derive zero, not NaN.
	hookB := rows[1]
	assert.Equal(t, "Hook B", hookB.Key)
	assert.Zero(t, hookB.ConversionRate)
	assert.Zero(t, hookB.CPC)
	assert.Zero(t, hookB.ROAS)

	// Per-ad breakdown sorted by spend descending.
	require.Len(t, hookA.Ads, 2)
	assert.Equal(t, "Ad 2", hookA.Ads[0].AdName)
	assert.Equal(t, "Ad 1", hookA.Ads[1].AdName)
}

func TestAggregateFallbackBuckets(t *testing.T) {
	e := New()
	index := BuildAssetIndex(testAssets())
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "missing", Spend: 5},
		{VideoAssetIDs: "a3", Spend: 7}, // exists but has no label/category
	}

	rows := e.AggregateByDimension(records, index, DimensionLabel)
	require.Len(t, rows, 1)
	assert.Equal(t, UnlabeledKey, rows[0].Key)
	assert.InDelta(t, 12.0, rows[0].Spend, 1e-9)

	rows = e.AggregateByDimension(records, index, DimensionCategory)
	require.Len(t, rows, 1)
	assert.Equal(t, UncategorizedKey, rows[0].Key)
}

func TestAggregateCompositeIDNotSplit(t *testing.T) {
	e := New()
	index := BuildAssetIndex(testAssets())
	// A comma-separated reference is one composite key; it must not resolve
	// to a1 even though a1 is part of it.
	records := []models.PerformanceRecord{{VideoAssetIDs: "a1,a2", Spend: 5}}

	rows := e.AggregateByDimension(records, index, DimensionLabel)
	require.Len(t, rows, 1)
	assert.Equal(t, UnlabeledKey, rows[0].Key)
}

func TestPerAdBreakdownDeduplication(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "x", AdName: "Ad", CampaignName: "C", AdGroupName: "G", Clicks: 1},
		{VideoAssetIDs: "x", AdName: "Ad", CampaignName: "C", AdGroupName: "G", Clicks: 2},
		{VideoAssetIDs: "x", AdName: "Ad", CampaignName: "C", AdGroupName: "G2", Clicks: 4},
	}

	rows := e.AggregateByDimension(records, AssetIndex{}, DimensionLabel)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Ads, 2)

	var total int64
	for _, ad := range rows[0].Ads {
		total += ad.Clicks
	}
	assert.Equal(t, int64(7), total)
}

func TestGrandTotalIsNotAverageOfRatios(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a1", Spend: 10, Sales: 40}, // roas 4.0
		{VideoAssetIDs: "a2", Spend: 90, Sales: 90}, // roas 1.0
	}
	index := BuildAssetIndex(testAssets())

	rows := e.AggregateByDimension(records, index, DimensionLabel)
	total := GrandTotal(rows)

	// sum(sales)/sum(spend) = 130/100, not mean(4.0, 1.0) = 2.5.
	assert.InDelta(t, 1.3, total.ROAS, 1e-9)
	assert.InDelta(t, 100.0, total.Spend, 1e-9)
	assert.InDelta(t, 130.0, total.Sales, 1e-9)
}

func TestSortRows(t *testing.T) {
	rows := []AggregatedRow{
		{Key: "b", MetricTotals: MetricTotals{Spend: 5}},
		{Key: "a", MetricTotals: MetricTotals{Spend: 20}},
		{Key: "c", MetricTotals: MetricTotals{Spend: 5}},
	}

	require.NoError(t, SortRows(rows, "spend", true))
	assert.Equal(t, "a", rows[0].Key)
	// Stable: equal spend keeps insertion order.
	assert.Equal(t, "b", rows[1].Key)
	assert.Equal(t, "c", rows[2].Key)

	require.NoError(t, SortRows(rows, "spend", false))
	assert.Equal(t, "a", rows[2].Key)

	assert.Error(t, SortRows(rows, "bogus", true))
}

func TestAggregateEmptyInput(t *testing.T) {
	e := New()
	rows := e.AggregateByDimension(nil, AssetIndex{}, DimensionLabel)
	assert.Empty(t, rows)

	total := GrandTotal(rows)
	assert.Zero(t, total.ROAS)
}

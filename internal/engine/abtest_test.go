package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidlytics/internal/models"
)

func TestWinnerRequiresSpendThreshold(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		// A: roas 3.0, above the $10 threshold.
		{VideoAssetIDs: "a", KeywordText: "push broom", MatchType: "Exact", Spend: 15, Sales: 45},
		// B: roas 4.0 but below threshold, so A wins despite lower roas.
		{VideoAssetIDs: "b", KeywordText: "push broom", MatchType: "Exact", Spend: 5, Sales: 20},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Creatives, 2)

	// Creatives come back sorted by roas descending: B first, then A.
	assert.Equal(t, "b", groups[0].Creatives[0].AssetID)
	assert.False(t, groups[0].Creatives[0].Winner)
	assert.Equal(t, "a", groups[0].Creatives[1].AssetID)
	assert.True(t, groups[0].Creatives[1].Winner)
}

func TestSingleCreativeNeverWins(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", KeywordText: "mop", MatchType: "Broad", Spend: 100, Sales: 50},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Creatives, 1)
	assert.False(t, groups[0].Creatives[0].Winner)
	assert.False(t, groups[0].IsABTest())
}

func TestNoWinnerWhenNoneClearThreshold(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", KeywordText: "mop", MatchType: "Broad", Spend: 2, Sales: 8},
		{VideoAssetIDs: "b", KeywordText: "mop", MatchType: "Broad", Spend: 3, Sales: 3},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)
	for _, c := range groups[0].Creatives {
		assert.False(t, c.Winner)
	}
}

func TestWinnerTieKeepsFirstEncountered(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", KeywordText: "kw", MatchType: "Exact", Spend: 20, Sales: 40},
		{VideoAssetIDs: "b", KeywordText: "kw", MatchType: "Exact", Spend: 10, Sales: 20},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)

	var winners []string
	for _, c := range groups[0].Creatives {
		if c.Winner {
			winners = append(winners, c.AssetID)
		}
	}
	require.Equal(t, []string{"a"}, winners)
}

func TestMatchTypesFormDistinctGroups(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", KeywordText: "push broom", MatchType: "Exact", Spend: 1},
		{VideoAssetIDs: "a", KeywordText: "push broom", MatchType: "Broad", Spend: 1},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 2)
	assert.Equal(t, "Exact", groups[0].MatchType)
	assert.Equal(t, "Broad", groups[1].MatchType)
}

func TestTargetResolutionSkips(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", CampaignName: "", AdGroupName: "", KeywordText: ""},
	}

	assert.Empty(t, e.BuildCompetitiveGroups(records, AssetIndex{}, TargetCampaign))
	assert.Empty(t, e.BuildCompetitiveGroups(records, AssetIndex{}, TargetAdGroup))
	assert.Empty(t, e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword))
}

func TestCategoryGroupingNeverSkips(t *testing.T) {
	e := New()
	index := BuildAssetIndex([]models.Asset{
		{ID: "a", Category: "Lifestyle"},
	})
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", Spend: 1},
		{VideoAssetIDs: "unknown", Spend: 2},
	}

	groups := e.BuildCompetitiveGroups(records, index, TargetCategory)
	require.Len(t, groups, 2)
	assert.Equal(t, "Lifestyle", groups[0].Target)
	assert.Equal(t, UncategorizedKey, groups[1].Target)
}

func TestASINGrouping(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", ProductTargetingExpression: `asin="B08XYZ1234"`, Spend: 1},
		{VideoAssetIDs: "b", ProductTargetingExpression: "asin:b08xyz1234", Spend: 2},
		// No token in the expression, falls back to the targeting id.
		{VideoAssetIDs: "c", ProductTargetingExpression: "category=brooms", ProductTargetingID: "B001ABC234", Spend: 3},
		// Nothing extractable anywhere: excluded entirely, no Unresolved bucket.
		{VideoAssetIDs: "d", ProductTargetingExpression: "loose-match", ProductTargetingID: "12345", Spend: 4},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetASIN)
	require.Len(t, groups, 2)
	assert.Equal(t, "B08XYZ1234", groups[0].Target)
	require.Len(t, groups[0].Creatives, 2)
	assert.Equal(t, "B001ABC234", groups[1].Target)
}

func TestExtractASIN(t *testing.T) {
	cases := []struct {
		expr, id, want string
		ok             bool
	}{
		{`asin="B08XYZ1234"`, "", "B08XYZ1234", true},
		{"asin:b08xyz1234", "", "B08XYZ1234", true},
		{"asin=B08XYZ1234", "", "B08XYZ1234", true},
		{"", "B001ABC234", "B001ABC234", true},
		{"category=brooms", "", "", false},
		{"", "short", "", false},
		// Eleven characters is not an ASIN.
		{"asin=B08XYZ12345", "", "", false},
	}
	for _, c := range cases {
		got, ok := ExtractASIN(c.expr, c.id)
		assert.Equal(t, c.ok, ok, "expr=%q id=%q", c.expr, c.id)
		assert.Equal(t, c.want, got, "expr=%q id=%q", c.expr, c.id)
	}
}

func TestCreativesSortedByROAS(t *testing.T) {
	e := New()
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "low", KeywordText: "kw", Spend: 20, Sales: 20},
		{VideoAssetIDs: "high", KeywordText: "kw", Spend: 20, Sales: 100},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)
	assert.Equal(t, "high", groups[0].Creatives[0].AssetID)
	assert.Equal(t, "low", groups[0].Creatives[1].AssetID)
}

func TestFilterABTests(t *testing.T) {
	groups := []CompetitiveGroup{
		{Target: "solo", Creatives: []CreativeStat{{AssetID: "a"}}},
		{Target: "test", Creatives: []CreativeStat{{AssetID: "a"}, {AssetID: "b"}}},
	}

	filtered := FilterABTests(groups)
	require.Len(t, filtered, 1)
	assert.Equal(t, "test", filtered[0].Target)
}

func TestCustomWinnerThreshold(t *testing.T) {
	e := New(WithMinSpendForWinner(50))
	records := []models.PerformanceRecord{
		{VideoAssetIDs: "a", KeywordText: "kw", Spend: 30, Sales: 90},
		{VideoAssetIDs: "b", KeywordText: "kw", Spend: 60, Sales: 60},
	}

	groups := e.BuildCompetitiveGroups(records, AssetIndex{}, TargetKeyword)
	require.Len(t, groups, 1)
	for _, c := range groups[0].Creatives {
		if c.AssetID == "b" {
			assert.True(t, c.Winner)
		} else {
			assert.False(t, c.Winner)
		}
	}
}

package engine

import "vidlytics/internal/models"

// Dimension selects the grouping key for the performance view.
type Dimension string

const (
	DimensionLabel    Dimension = "label"
	DimensionCategory Dimension = "category"
)

// ParseDimension maps a request parameter onto a Dimension.
func ParseDimension(s string) (Dimension, bool) {
	switch Dimension(s) {
	case DimensionLabel, DimensionCategory:
		return Dimension(s), true
	}
	return "", false
}

// TargetType selects the competitive grouping dimension for the A/B view.
type TargetType string

const (
	TargetKeyword  TargetType = "keyword"
	TargetASIN     TargetType = "asin"
	TargetCampaign TargetType = "campaign"
	TargetAdGroup  TargetType = "adgroup"
	TargetCategory TargetType = "category"
)

// ParseTargetType maps a request parameter onto a TargetType.
func ParseTargetType(s string) (TargetType, bool) {
	switch TargetType(s) {
	case TargetKeyword, TargetASIN, TargetCampaign, TargetAdGroup, TargetCategory:
		return TargetType(s), true
	}
	return "", false
}

// Fallback group keys for records whose asset lookup fails or whose asset
// carries no user-assigned value. Records are never dropped from the
// performance view because of a missing label.
const (
	UnlabeledKey     = "Unlabeled"
	UncategorizedKey = "Uncategorized"
)

// MetricTotals holds raw metric sums plus the ratios derived from them.
// Ratios are computed only in a finalize pass, never accumulated, because
// they are not additive across rows. Platform-supplied ratio columns are
// ignored entirely.
type MetricTotals struct {
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Orders      int64   `json:"orders"`
	Units       int64   `json:"units"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`

	CTR            float64 `json:"ctr"`
	ConversionRate float64 `json:"conversion_rate"`
	CPC            float64 `json:"cpc"`
	ROAS           float64 `json:"roas"`
}

// accumulate adds one record's raw metrics into the totals.
func (m *MetricTotals) accumulate(rec models.PerformanceRecord) {
	m.Impressions += rec.Impressions
	m.Clicks += rec.Clicks
	m.Orders += rec.Orders
	m.Units += rec.Units
	m.Spend += rec.Spend
	m.Sales += rec.Sales
}

// addRaw merges another total's raw sums, leaving ratios untouched.
func (m *MetricTotals) addRaw(other MetricTotals) {
	m.Impressions += other.Impressions
	m.Clicks += other.Clicks
	m.Orders += other.Orders
	m.Units += other.Units
	m.Spend += other.Spend
	m.Sales += other.Sales
}

// finalize derives the ratio metrics from the accumulated sums, guarding
// every denominator with zero.
func (m *MetricTotals) finalize() {
	if m.Impressions > 0 {
		m.CTR = float64(m.Clicks) / float64(m.Impressions) * 100
	}
	if m.Clicks > 0 {
		m.ConversionRate = float64(m.Orders) / float64(m.Clicks) * 100
		m.CPC = m.Spend / float64(m.Clicks)
	}
	if m.Spend > 0 {
		m.ROAS = m.Sales / m.Spend
	}
}

// AdBreakdown is one per-ad entry nested under an AggregatedRow,
// deduplicated by ad name, campaign and ad group.
type AdBreakdown struct {
	AdName       string `json:"ad_name"`
	CampaignName string `json:"campaign_name"`
	AdGroupName  string `json:"ad_group_name"`
	MetricTotals
}

// AggregatedRow is the sum of metrics over all records sharing a group key
// (creative label or category), with a per-ad breakdown sorted by spend
// descending. Rows are produced in group insertion order; any display sort
// is a separate explicit operation.
type AggregatedRow struct {
	Key string `json:"key"`
	MetricTotals
	Ads []AdBreakdown `json:"ads"`
}

// CreativeStat is one asset's accumulated performance within a competitive
// group. AssetID carries the raw video-asset-ids value of the underlying
// records; comma-separated composites are a single competitor.
type CreativeStat struct {
	AssetID      string `json:"asset_id"`
	CreativeName string `json:"creative_name"`
	MetricTotals
	Winner bool `json:"winner"`
}

// CompetitiveGroup is one targeting dimension value with the creatives
// competing for it. Identity is (TargetType, Target, MatchType): the same
// keyword text under different match types forms distinct groups.
type CompetitiveGroup struct {
	TargetType TargetType     `json:"target_type"`
	Target     string         `json:"target"`
	MatchType  string         `json:"match_type,omitempty"`
	Creatives  []CreativeStat `json:"creatives"`
}

// IsABTest reports whether the group actually pits creatives against each
// other. This backs a presentation filter, not a grouping constraint.
func (g CompetitiveGroup) IsABTest() bool {
	return len(g.Creatives) >= 2
}

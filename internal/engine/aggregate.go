package engine

import (
	"fmt"
	"sort"

	"vidlytics/internal/models"
)

// rowAccumulator collects raw sums for one group plus its per-ad breakdown.
// Both maps preserve insertion order through companion slices so output is
// deterministic across runs.
type rowAccumulator struct {
	totals  MetricTotals
	ads     map[string]*AdBreakdown
	adOrder []string
}

// AggregateByDimension groups performance records by resolved creative label
// or category and sums their metrics. Records whose asset lookup misses, or
// whose asset carries no value for the dimension, land in the
// Unlabeled/Uncategorized bucket rather than being dropped. The returned
// rows are in group insertion order; sorting is a separate operation.
func (e *Engine) AggregateByDimension(records []models.PerformanceRecord, index AssetIndex, dim Dimension) []AggregatedRow {
	groups := make(map[string]*rowAccumulator)
	var order []string

	for _, rec := range records {
		key := resolveDimension(index, rec, dim)

		acc, ok := groups[key]
		if !ok {
			acc = &rowAccumulator{ads: make(map[string]*AdBreakdown)}
			groups[key] = acc
			order = append(order, key)
		}
		acc.totals.accumulate(rec)

		adKey := rec.AdName + "\x1f" + rec.CampaignName + "\x1f" + rec.AdGroupName
		ad, ok := acc.ads[adKey]
		if !ok {
			ad = &AdBreakdown{
				AdName:       rec.AdName,
				CampaignName: rec.CampaignName,
				AdGroupName:  rec.AdGroupName,
			}
			acc.ads[adKey] = ad
			acc.adOrder = append(acc.adOrder, adKey)
		}
		ad.accumulate(rec)
	}

	// Finalize pass: derive ratios once per group and per ad entry, then
	// order the breakdown by spend descending.
	rows := make([]AggregatedRow, 0, len(order))
	for _, key := range order {
		acc := groups[key]
		acc.totals.finalize()

		ads := make([]AdBreakdown, 0, len(acc.adOrder))
		for _, adKey := range acc.adOrder {
			ad := acc.ads[adKey]
			ad.finalize()
			ads = append(ads, *ad)
		}
		sort.SliceStable(ads, func(i, j int) bool {
			return ads[i].Spend > ads[j].Spend
		})

		rows = append(rows, AggregatedRow{Key: key, MetricTotals: acc.totals, Ads: ads})
	}
	return rows
}

// resolveDimension maps a record to its group key. Exact-match lookup on the
// raw video-asset-ids value; composites are not split here.
func resolveDimension(index AssetIndex, rec models.PerformanceRecord, dim Dimension) string {
	asset, found := index[rec.VideoAssetIDs]
	switch dim {
	case DimensionCategory:
		if found && asset.Category != "" {
			return asset.Category
		}
		return UncategorizedKey
	default:
		if found && asset.CreativeName != "" {
			return asset.CreativeName
		}
		return UnlabeledKey
	}
}

// GrandTotal reduces aggregated rows into one overall total by summing their
// raw metrics and deriving ratios once. It deliberately never averages
// per-row ratios: sum(sales)/sum(spend) is not the mean of per-group roas.
func GrandTotal(rows []AggregatedRow) MetricTotals {
	var total MetricTotals
	for _, row := range rows {
		total.addRaw(row.MetricTotals)
	}
	total.finalize()
	return total
}

// SortRows orders rows by the named metric in place. The sort is stable, so
// equal values keep their original group insertion order. Unknown metric
// names are an error rather than a silent no-op.
func SortRows(rows []AggregatedRow, metric string, descending bool) error {
	key, err := metricSelector(metric)
	if err != nil {
		return err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := key(rows[i].MetricTotals), key(rows[j].MetricTotals)
		if descending {
			return a > b
		}
		return a < b
	})
	return nil
}

func metricSelector(metric string) (func(MetricTotals) float64, error) {
	switch metric {
	case "impressions":
		return func(m MetricTotals) float64 { return float64(m.Impressions) }, nil
	case "clicks":
		return func(m MetricTotals) float64 { return float64(m.Clicks) }, nil
	case "orders":
		return func(m MetricTotals) float64 { return float64(m.Orders) }, nil
	case "units":
		return func(m MetricTotals) float64 { return float64(m.Units) }, nil
	case "spend":
		return func(m MetricTotals) float64 { return m.Spend }, nil
	case "sales":
		return func(m MetricTotals) float64 { return m.Sales }, nil
	case "ctr":
		return func(m MetricTotals) float64 { return m.CTR }, nil
	case "conversion_rate":
		return func(m MetricTotals) float64 { return m.ConversionRate }, nil
	case "cpc":
		return func(m MetricTotals) float64 { return m.CPC }, nil
	case "roas":
		return func(m MetricTotals) float64 { return m.ROAS }, nil
	}
	return nil, fmt.Errorf("unknown sort metric %q", metric)
}

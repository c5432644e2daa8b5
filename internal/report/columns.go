package report

import (
	"strconv"
	"strings"
)

// columnIndex maps lower-cased header names to their column position. It is
// built once per sheet, not per row, so alias resolution stays cheap.
type columnIndex map[string]int

// newColumnIndex builds the lookup from a header row. The first occurrence
// of a duplicated header wins.
func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// Report format versions and regional exports rename columns. Each logical
// field carries an ordered list of historical spellings; resolution takes the
// first alias whose cell is non-empty.
var (
	colCampaignID    = []string{"Campaign Id", "Campaign ID"}
	colAdGroupID     = []string{"Ad Group Id", "Ad Group ID"}
	colAdID          = []string{"Ad Id", "Ad ID"}
	colKeywordID     = []string{"Keyword Id", "Keyword ID"}
	colTargetingID   = []string{"Product Targeting Id", "Product Targeting ID", "Targeting Id"}
	colTargetingExpr = []string{"Product Targeting Expression", "Targeting Expression", "Product Targeting Expression (Informational only)"}
	colCampaignName  = []string{"Campaign Name", "Campaign"}
	colAdGroupName   = []string{"Ad Group Name", "Ad Group"}
	colAdName        = []string{"Ad Name", "Ad Name (Informational only)"}
	colKeywordText   = []string{"Keyword Text", "Keyword"}
	colMatchType     = []string{"Match Type"}
	colVideoAssetIDs = []string{"Video Media Ids", "Video Asset Ids", "Creative Asset Ids"}
	colImpressions   = []string{"Impressions"}
	colClicks        = []string{"Clicks"}
	colSpend         = []string{"Spend", "Cost"}
	colSales         = []string{"14 Day Total Sales", "Sales", "Total Sales"}
	colOrders        = []string{"14 Day Total Orders (#)", "Orders", "Total Orders"}
	colUnits         = []string{"14 Day Total Units (#)", "Units", "Total Units"}
	colCTR           = []string{"Click-through Rate", "CTR"}
	colConversion    = []string{"14 Day Conversion Rate", "Conversion Rate"}
	colACOS          = []string{"Total Advertising Cost of Sales (ACOS)", "ACOS"}
	colCPC           = []string{"Cost Per Click (CPC)", "CPC"}
	colROAS          = []string{"Total Return on Advertising Spend (ROAS)", "ROAS"}
)

// cell returns the trimmed value at column i, tolerating short rows.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// text resolves a logical field against a row: first alias with a non-empty
// cell wins, otherwise empty.
func (idx columnIndex) text(row []string, aliases []string) string {
	for _, alias := range aliases {
		i, ok := idx[strings.ToLower(alias)]
		if !ok {
			continue
		}
		if v := cell(row, i); v != "" {
			return v
		}
	}
	return ""
}

// number resolves a logical field as float64, defaulting to zero on absence
// or non-numeric content. Currency symbols, percent signs and thousands
// separators are stripped first.
func (idx columnIndex) number(row []string, aliases []string) float64 {
	raw := idx.text(row, aliases)
	if raw == "" {
		return 0
	}
	raw = strings.NewReplacer("$", "", "%", "", ",", "").Replace(raw)
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return f
}

// count is number truncated to an integer metric (impressions, clicks...).
func (idx columnIndex) count(row []string, aliases []string) int64 {
	return int64(idx.number(row, aliases))
}

package engine

import (
	"sort"

	"vidlytics/internal/models"
)

// groupAccumulator collects per-creative sums for one competitive group.
type groupAccumulator struct {
	targetType    TargetType
	target        string
	matchType     string
	creatives     map[string]*CreativeStat
	creativeOrder []string
}

// BuildCompetitiveGroups groups performance records by one targeting
// dimension value and accumulates metrics per competing creative. Group
// identity is (target type, target, match type), so the same keyword text
// under Exact and Broad forms two groups. Records that cannot resolve a
// target for the chosen dimension are skipped, except for category grouping
// which falls back to Uncategorized.
func (e *Engine) BuildCompetitiveGroups(records []models.PerformanceRecord, index AssetIndex, target TargetType) []CompetitiveGroup {
	groups := make(map[string]*groupAccumulator)
	var order []string

	for _, rec := range records {
		value, matchType, ok := resolveTarget(index, rec, target)
		if !ok {
			continue
		}

		key := string(target) + "\x1f" + value + "\x1f" + matchType
		acc, exists := groups[key]
		if !exists {
			acc = &groupAccumulator{
				targetType: target,
				target:     value,
				matchType:  matchType,
				creatives:  make(map[string]*CreativeStat),
			}
			groups[key] = acc
			order = append(order, key)
		}

		// The raw video-asset-ids value is the competitor key; a
		// comma-separated composite competes as one creative.
		assetID := rec.VideoAssetIDs
		stat, exists := acc.creatives[assetID]
		if !exists {
			stat = &CreativeStat{
				AssetID:      assetID,
				CreativeName: resolveCreativeName(index, assetID),
			}
			acc.creatives[assetID] = stat
			acc.creativeOrder = append(acc.creativeOrder, assetID)
		}
		stat.accumulate(rec)
	}

	out := make([]CompetitiveGroup, 0, len(order))
	for _, key := range order {
		out = append(out, e.finalizeGroup(groups[key]))
	}
	return out
}

// resolveTarget maps a record onto the grouping value for the chosen target
// type. The match type discriminator is only carried for keyword grouping.
func resolveTarget(index AssetIndex, rec models.PerformanceRecord, target TargetType) (value, matchType string, ok bool) {
	switch target {
	case TargetCampaign:
		if rec.CampaignName == "" {
			return "", "", false
		}
		return rec.CampaignName, "", true
	case TargetAdGroup:
		if rec.AdGroupName == "" {
			return "", "", false
		}
		return rec.AdGroupName, "", true
	case TargetKeyword:
		if rec.KeywordText == "" {
			return "", "", false
		}
		return rec.KeywordText, rec.MatchType, true
	case TargetASIN:
		// No Unresolved bucket here: a record without an extractable ASIN is
		// left out of ASIN grouping entirely.
		asin, found := ExtractASIN(rec.ProductTargetingExpression, rec.ProductTargetingID)
		if !found {
			return "", "", false
		}
		return asin, "", true
	case TargetCategory:
		if asset, found := index[rec.VideoAssetIDs]; found && asset.Category != "" {
			return asset.Category, "", true
		}
		return UncategorizedKey, "", true
	}
	return "", "", false
}

func resolveCreativeName(index AssetIndex, assetID string) string {
	if asset, found := index[assetID]; found {
		if asset.CreativeName != "" {
			return asset.CreativeName
		}
		if asset.Name != "" {
			return asset.Name
		}
	}
	return UnlabeledKey
}

// finalizeGroup derives each creative's ratios, flags the winner and orders
// creatives by roas descending for display.
func (e *Engine) finalizeGroup(acc *groupAccumulator) CompetitiveGroup {
	creatives := make([]CreativeStat, 0, len(acc.creativeOrder))
	for _, id := range acc.creativeOrder {
		stat := acc.creatives[id]
		stat.finalize()
		creatives = append(creatives, *stat)
	}

	// Winner rules: at least two competing creatives in the group, only
	// creatives at or above the spend threshold are eligible, strictly
	// greatest roas wins, ties keep the first-encountered creative.
	if len(creatives) >= 2 {
		winner := -1
		for i, c := range creatives {
			if c.Spend < e.minSpendForWinner {
				continue
			}
			if winner < 0 || c.ROAS > creatives[winner].ROAS {
				winner = i
			}
		}
		if winner >= 0 {
			creatives[winner].Winner = true
		}
	}

	sort.SliceStable(creatives, func(i, j int) bool {
		return creatives[i].ROAS > creatives[j].ROAS
	})

	return CompetitiveGroup{
		TargetType: acc.targetType,
		Target:     acc.target,
		MatchType:  acc.matchType,
		Creatives:  creatives,
	}
}

// FilterABTests keeps only groups where at least two creatives actually
// compete. Presentation-layer concern, applied after grouping.
func FilterABTests(groups []CompetitiveGroup) []CompetitiveGroup {
	out := make([]CompetitiveGroup, 0, len(groups))
	for _, g := range groups {
		if g.IsABTest() {
			out = append(out, g)
		}
	}
	return out
}

package engine

import "vidlytics/internal/models"

// AssetIndex maps asset id to Asset for join resolution. Lookups use the
// record's raw video-asset-ids value as-is: a comma-separated composite is
// one key, not many.
type AssetIndex map[string]models.Asset

// BuildAssetIndex indexes assets by id. Ids are unique within one loaded
// set, so collision handling is not a concern.
func BuildAssetIndex(assets []models.Asset) AssetIndex {
	idx := make(AssetIndex, len(assets))
	for _, a := range assets {
		idx[a.ID] = a
	}
	return idx
}

// CarryForwardLabels copies user-assigned labels and cached thumbnails from
// a previously loaded asset set onto a freshly parsed one, matching on asset
// id. Ids absent from the new set lose their labels with it; the parsed
// slice is returned mutated in place.
func CarryForwardLabels(previous, next []models.Asset) []models.Asset {
	if len(previous) == 0 {
		return next
	}
	prev := make(map[string]models.Asset, len(previous))
	for _, a := range previous {
		prev[a.ID] = a
	}
	for i := range next {
		old, ok := prev[next[i].ID]
		if !ok {
			continue
		}
		if old.CreativeName != "" {
			next[i].CreativeName = old.CreativeName
		}
		if old.Category != "" {
			next[i].Category = old.Category
		}
		if old.ThumbnailURL != "" {
			next[i].ThumbnailURL = old.ThumbnailURL
		}
	}
	return next
}

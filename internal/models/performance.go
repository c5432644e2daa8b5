package models

// PerformanceRecord is one ad/keyword/target row extracted from the
// performance sheet of a bulk report. Records are immutable once parsed and
// the full set is replaced wholesale on every upload.
type PerformanceRecord struct {
	CampaignID         string `json:"campaign_id,omitempty"`
	AdGroupID          string `json:"ad_group_id,omitempty"`
	AdID               string `json:"ad_id,omitempty"`
	KeywordID          string `json:"keyword_id,omitempty"`
	ProductTargetingID string `json:"product_targeting_id,omitempty"`

	// ProductTargetingExpression is free text that may embed an ASIN in
	// varying surface forms (asin="...", asin:..., bare token).
	ProductTargetingExpression string `json:"product_targeting_expression,omitempty"`

	CampaignName string `json:"campaign_name,omitempty"`
	AdGroupName  string `json:"ad_group_name,omitempty"`
	AdName       string `json:"ad_name,omitempty"`
	KeywordText  string `json:"keyword_text,omitempty"`
	MatchType    string `json:"match_type,omitempty"`

	// VideoAssetIDs links the row to one or more creative assets,
	// comma-separated when multiple. Rows with an empty value are rejected at
	// parse time; they cannot be linked to anything.
	VideoAssetIDs string `json:"video_asset_ids"`

	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Orders      int64   `json:"orders"`
	Units       int64   `json:"units"`
	Spend       float64 `json:"spend"`
	Sales       float64 `json:"sales"`

	// Platform-precomputed ratios, kept for reference only. The engine always
	// rederives ratios from the raw sums because ratios are not additive
	// across rows.
	CTR            float64 `json:"ctr,omitempty"`
	ConversionRate float64 `json:"conversion_rate,omitempty"`
	ACOS           float64 `json:"acos,omitempty"`
	CPC            float64 `json:"cpc,omitempty"`
	ROAS           float64 `json:"roas,omitempty"`
}

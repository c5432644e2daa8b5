package models

// AssetType classifies a creative asset as reported by the ad platform.
// Only the five types below are accepted during parsing; rows carrying any
// other type value are skipped.
type AssetType string

const (
	AssetTypeVideo        AssetType = "Video"
	AssetTypeCustomImage  AssetType = "Custom Image"
	AssetTypeOtherImage   AssetType = "Other Image"
	AssetTypeBrandLogo    AssetType = "Brand Logo"
	AssetTypeProductImage AssetType = "Product Image"
)

// ParseAssetType matches a raw cell value against the known asset types.
// Matching is exact after trimming; unknown values return ok=false.
func ParseAssetType(raw string) (AssetType, bool) {
	switch AssetType(raw) {
	case AssetTypeVideo, AssetTypeCustomImage, AssetTypeOtherImage,
		AssetTypeBrandLogo, AssetTypeProductImage:
		return AssetType(raw), true
	}
	return "", false
}

// Asset represents one creative (video or image) known to the ad platform.
// ID is unique within a single user's loaded set. CreativeName, Category and
// ThumbnailURL are user/store owned and survive report re-uploads when the
// same ID appears in the new set; everything else is replaced wholesale on
// each upload.
type Asset struct {
	ID   string    `json:"asset_id"`
	Type AssetType `json:"asset_type"`
	// Name is the platform-assigned display name. For synthesized assets it
	// is a generated placeholder.
	Name string `json:"asset_name"`
	URL  string `json:"asset_url,omitempty"`

	// CreativeName is the user-assigned label, empty until set.
	CreativeName string `json:"creative_name,omitempty"`
	// Category is a free-text grouping tag, empty until set.
	Category     string `json:"category,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	// Synthesized marks assets invented from performance-row references when
	// the source workbook carried no asset sheet. They have no URL, so no
	// thumbnail can ever be generated for them.
	Synthesized bool `json:"synthesized,omitempty"`
}

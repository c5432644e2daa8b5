// Package report parses advertising bulk-report workbooks into typed asset
// and performance record sets. Parsing is tolerant by design: structural
// problems produce warnings and partial output, and only an undecodable
// workbook is a hard failure.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"vidlytics/internal/models"
)

const (
	// AssetsSheetName is matched case-insensitively against workbook sheets.
	AssetsSheetName = "Creative Assets"

	// assetHeaderLiteral identifies the header row inside the assets sheet by
	// its first cell.
	assetHeaderLiteral = "Asset Type"
)

// PerformanceSheetCandidates are tried in priority order, case-insensitively.
// The first sheet that yields at least one video-linked row wins. Later
// entries cover legacy report naming.
var PerformanceSheetCandidates = []string{
	"Sponsored Brands Campaigns",
	"Sponsored Brands",
	"SB Campaigns",
}

// Structural warnings surfaced through Diagnostics. The "missing sheet" and
// "sheet present but empty" cases are deliberately distinct.
const (
	WarnNoAssetsSheet       = "assets sheet not found; creative names and thumbnails will be unavailable"
	WarnNoAssetHeader       = "assets sheet found but no header row; no assets extracted"
	WarnNoPerformanceSheet  = "no performance sheet found in workbook"
	WarnNoVideoRows         = "performance sheet present but contains no video-linked rows"
	WarnSynthesizedAssets   = "assets synthesized from performance rows; thumbnails will be unavailable"
	WarnAssetsSheetUnusable = "assets sheet could not be read; no assets extracted"
)

// Diagnostics describes what the parser found, or failed to find, in a
// workbook. Row-level rejections are reflected only in RowsRejected.
type Diagnostics struct {
	HasAssets      bool     `json:"has_assets"`
	HasPerformance bool     `json:"has_performance"`
	SourceSheet    string   `json:"source_sheet,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	RowsRejected   int      `json:"rows_rejected"`
}

// Result is the full parser output for one workbook.
type Result struct {
	Assets      []models.Asset             `json:"assets"`
	Records     []models.PerformanceRecord `json:"records"`
	Diagnostics Diagnostics                `json:"diagnostics"`
}

// Parse decodes a workbook and extracts asset and performance record sets.
// A workbook that cannot be decoded at all returns a *ParseError; anything
// else degrades to warnings and possibly empty slices. Parsing the same
// content twice yields identical results.
func Parse(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	defer func() {
		_ = f.Close()
	}()

	res := &Result{}

	res.Assets = parseAssets(f, &res.Diagnostics)
	res.Records = parsePerformance(f, &res.Diagnostics)

	// Performance rows can reference assets the workbook never declares.
	// Without an asset sheet the set would be unlinkable, so placeholders are
	// synthesized per distinct referenced id.
	if len(res.Records) > 0 && len(res.Assets) == 0 {
		res.Assets = synthesizeAssets(res.Records)
		res.Diagnostics.Warnings = append(res.Diagnostics.Warnings, WarnSynthesizedAssets)
	}

	res.Diagnostics.HasAssets = len(res.Assets) > 0
	res.Diagnostics.HasPerformance = len(res.Records) > 0
	return res, nil
}

// findSheet returns the workbook's actual sheet name matching want,
// case-insensitively.
func findSheet(f *excelize.File, want string) (string, bool) {
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), want) {
			return name, true
		}
	}
	return "", false
}

// parseAssets extracts creative assets from the assets sheet. The sheet may
// be absent (legacy exports), and the header row may sit below introductory
// rows, so the scan locates it by its first cell before reading data rows.
func parseAssets(f *excelize.File, diag *Diagnostics) []models.Asset {
	sheet, ok := findSheet(f, AssetsSheetName)
	if !ok {
		diag.Warnings = append(diag.Warnings, WarnNoAssetsSheet)
		return nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		diag.Warnings = append(diag.Warnings, WarnAssetsSheetUnusable)
		return nil
	}

	headerRow := -1
	for i, row := range rows {
		if strings.EqualFold(cell(row, 0), assetHeaderLiteral) {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		diag.Warnings = append(diag.Warnings, WarnNoAssetHeader)
		return nil
	}

	// Fixed column layout relative to the header: type, then id/name/url at
	// offsets +2/+3/+4. Rows missing an id or carrying an unknown type are
	// skipped silently.
	var assets []models.Asset
	for _, row := range rows[headerRow+1:] {
		id := cell(row, 2)
		if id == "" {
			continue
		}
		typ, ok := models.ParseAssetType(cell(row, 0))
		if !ok {
			continue
		}
		assets = append(assets, models.Asset{
			ID:   id,
			Type: typ,
			Name: cell(row, 3),
			URL:  cell(row, 4),
		})
	}
	return assets
}

// parsePerformance tries the candidate performance sheets in priority order
// and returns the rows of the first one that yields at least one
// video-linked record.
func parsePerformance(f *excelize.File, diag *Diagnostics) []models.PerformanceRecord {
	sheetSeen := false

	for _, candidate := range PerformanceSheetCandidates {
		sheet, ok := findSheet(f, candidate)
		if !ok {
			continue
		}
		sheetSeen = true

		records, rejected := parsePerformanceSheet(f, sheet)
		if len(records) == 0 {
			continue
		}
		diag.SourceSheet = sheet
		diag.RowsRejected += rejected
		return records
	}

	if sheetSeen {
		diag.Warnings = append(diag.Warnings, WarnNoVideoRows)
	} else {
		diag.Warnings = append(diag.Warnings, WarnNoPerformanceSheet)
	}
	return nil
}

func parsePerformanceSheet(f *excelize.File, sheet string) (records []models.PerformanceRecord, rejected int) {
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		return nil, 0
	}

	idx := newColumnIndex(rows[0])
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		assetIDs := idx.text(row, colVideoAssetIDs)
		if assetIDs == "" {
			// Unlinkable row: nothing to join it to, so it is not retained.
			rejected++
			continue
		}
		records = append(records, models.PerformanceRecord{
			CampaignID:                 idx.text(row, colCampaignID),
			AdGroupID:                  idx.text(row, colAdGroupID),
			AdID:                       idx.text(row, colAdID),
			KeywordID:                  idx.text(row, colKeywordID),
			ProductTargetingID:         idx.text(row, colTargetingID),
			ProductTargetingExpression: idx.text(row, colTargetingExpr),
			CampaignName:               idx.text(row, colCampaignName),
			AdGroupName:                idx.text(row, colAdGroupName),
			AdName:                     idx.text(row, colAdName),
			KeywordText:                idx.text(row, colKeywordText),
			MatchType:                  idx.text(row, colMatchType),
			VideoAssetIDs:              assetIDs,
			Impressions:                idx.count(row, colImpressions),
			Clicks:                     idx.count(row, colClicks),
			Orders:                     idx.count(row, colOrders),
			Units:                      idx.count(row, colUnits),
			Spend:                      idx.number(row, colSpend),
			Sales:                      idx.number(row, colSales),
			CTR:                        idx.number(row, colCTR),
			ConversionRate:             idx.number(row, colConversion),
			ACOS:                       idx.number(row, colACOS),
			CPC:                        idx.number(row, colCPC),
			ROAS:                       idx.number(row, colROAS),
		})
	}
	return records, rejected
}

// synthesizeAssets invents one placeholder Asset per distinct asset id
// referenced by the performance rows, in first-seen order. Multi-valued
// references are split on comma here (and only here) so each underlying
// asset gets a placeholder.
func synthesizeAssets(records []models.PerformanceRecord) []models.Asset {
	seen := make(map[string]bool)
	var assets []models.Asset
	for _, rec := range records {
		for _, id := range strings.Split(rec.VideoAssetIDs, ",") {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			assets = append(assets, models.Asset{
				ID:          id,
				Type:        models.AssetTypeVideo,
				Name:        fmt.Sprintf("Video asset %d", len(assets)+1),
				Synthesized: true,
			})
		}
	}
	return assets
}

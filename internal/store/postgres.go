package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"vidlytics/internal/models"
)

// Postgres implements Store on a postgres database.
type Postgres struct {
	DB *sql.DB
}

// schemaSQL sets up the necessary tables if they don't exist. seq preserves
// workbook row order across a save/load round trip.
const schemaSQL = `CREATE TABLE IF NOT EXISTS report_assets (
    user_id TEXT NOT NULL,
    seq INT NOT NULL,
    asset_id TEXT NOT NULL,
    asset_type TEXT NOT NULL,
    asset_name TEXT NOT NULL DEFAULT '',
    asset_url TEXT NOT NULL DEFAULT '',
    creative_name TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    thumbnail_url TEXT NOT NULL DEFAULT '',
    synthesized BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (user_id, asset_id)
);

CREATE TABLE IF NOT EXISTS performance_records (
    user_id TEXT NOT NULL,
    seq INT NOT NULL,
    campaign_id TEXT NOT NULL DEFAULT '',
    ad_group_id TEXT NOT NULL DEFAULT '',
    ad_id TEXT NOT NULL DEFAULT '',
    keyword_id TEXT NOT NULL DEFAULT '',
    product_targeting_id TEXT NOT NULL DEFAULT '',
    product_targeting_expression TEXT NOT NULL DEFAULT '',
    campaign_name TEXT NOT NULL DEFAULT '',
    ad_group_name TEXT NOT NULL DEFAULT '',
    ad_name TEXT NOT NULL DEFAULT '',
    keyword_text TEXT NOT NULL DEFAULT '',
    match_type TEXT NOT NULL DEFAULT '',
    video_asset_ids TEXT NOT NULL,
    impressions BIGINT NOT NULL DEFAULT 0,
    clicks BIGINT NOT NULL DEFAULT 0,
    orders BIGINT NOT NULL DEFAULT 0,
    units BIGINT NOT NULL DEFAULT 0,
    spend DOUBLE PRECISION NOT NULL DEFAULT 0,
    sales DOUBLE PRECISION NOT NULL DEFAULT 0,
    PRIMARY KEY (user_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_performance_records_user ON performance_records (user_id);
CREATE INDEX IF NOT EXISTS idx_report_assets_user ON report_assets (user_id);
`

// InitPostgres connects to Postgres with connection pooling configuration
// and ensures the schema exists.
func InitPostgres(dsn string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*Postgres, error) {
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(
			attribute.String("db.system", "postgresql"),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("register otelsql: %w", err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	zap.L().Info("Connected to Postgres")
	return &Postgres{DB: db}, nil
}

// Close shuts down the underlying connection pool.
func (p *Postgres) Close() error {
	return p.DB.Close()
}

// Save replaces the full data set for userID inside one transaction, using
// COPY for the bulk inserts.
func (p *Postgres) Save(ctx context.Context, userID string, assets []models.Asset, records []models.PerformanceRecord) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM report_assets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear assets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM performance_records WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	if err := copyAssets(ctx, tx, userID, assets); err != nil {
		return err
	}
	if err := copyRecords(ctx, tx, userID, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

func copyAssets(ctx context.Context, tx *sql.Tx, userID string, assets []models.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("report_assets",
		"user_id", "seq", "asset_id", "asset_type", "asset_name", "asset_url",
		"creative_name", "category", "thumbnail_url", "synthesized"))
	if err != nil {
		return fmt.Errorf("prepare asset copy: %w", err)
	}
	for i, a := range assets {
		if _, err := stmt.ExecContext(ctx, userID, i, a.ID, string(a.Type), a.Name, a.URL,
			a.CreativeName, a.Category, a.ThumbnailURL, a.Synthesized); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy asset %s: %w", a.ID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush asset copy: %w", err)
	}
	return stmt.Close()
}

func copyRecords(ctx context.Context, tx *sql.Tx, userID string, records []models.PerformanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("performance_records",
		"user_id", "seq", "campaign_id", "ad_group_id", "ad_id", "keyword_id",
		"product_targeting_id", "product_targeting_expression", "campaign_name",
		"ad_group_name", "ad_name", "keyword_text", "match_type",
		"video_asset_ids", "impressions", "clicks", "orders", "units", "spend", "sales"))
	if err != nil {
		return fmt.Errorf("prepare record copy: %w", err)
	}
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, userID, i, r.CampaignID, r.AdGroupID, r.AdID,
			r.KeywordID, r.ProductTargetingID, r.ProductTargetingExpression,
			r.CampaignName, r.AdGroupName, r.AdName, r.KeywordText, r.MatchType,
			r.VideoAssetIDs, r.Impressions, r.Clicks, r.Orders, r.Units, r.Spend, r.Sales); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("copy record %d: %w", i, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("flush record copy: %w", err)
	}
	return stmt.Close()
}

// Load returns the saved data set for userID in original workbook order.
func (p *Postgres) Load(ctx context.Context, userID string) ([]models.Asset, []models.PerformanceRecord, error) {
	assets, err := p.loadAssets(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	records, err := p.loadRecords(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return assets, records, nil
}

func (p *Postgres) loadAssets(ctx context.Context, userID string) ([]models.Asset, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT asset_id, asset_type, asset_name, asset_url, creative_name,
		       category, thumbnail_url, synthesized
		FROM report_assets WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		var typ string
		if err := rows.Scan(&a.ID, &typ, &a.Name, &a.URL, &a.CreativeName,
			&a.Category, &a.ThumbnailURL, &a.Synthesized); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		a.Type = models.AssetType(typ)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (p *Postgres) loadRecords(ctx context.Context, userID string) ([]models.PerformanceRecord, error) {
	rows, err := p.DB.QueryContext(ctx, `
		SELECT campaign_id, ad_group_id, ad_id, keyword_id, product_targeting_id,
		       product_targeting_expression, campaign_name, ad_group_name, ad_name,
		       keyword_text, match_type, video_asset_ids, impressions, clicks,
		       orders, units, spend, sales
		FROM performance_records WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []models.PerformanceRecord
	for rows.Next() {
		var r models.PerformanceRecord
		if err := rows.Scan(&r.CampaignID, &r.AdGroupID, &r.AdID, &r.KeywordID,
			&r.ProductTargetingID, &r.ProductTargetingExpression, &r.CampaignName,
			&r.AdGroupName, &r.AdName, &r.KeywordText, &r.MatchType,
			&r.VideoAssetIDs, &r.Impressions, &r.Clicks, &r.Orders, &r.Units,
			&r.Spend, &r.Sales); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// UpdateAssetLabel applies a partial label edit; nil fields keep their
// current value.
func (p *Postgres) UpdateAssetLabel(ctx context.Context, userID, assetID string, upd LabelUpdate) error {
	res, err := p.DB.ExecContext(ctx, `
		UPDATE report_assets
		SET creative_name = COALESCE($3, creative_name),
		    category = COALESCE($4, category)
		WHERE user_id = $1 AND asset_id = $2`,
		userID, assetID, upd.CreativeName, upd.Category)
	if err != nil {
		return fmt.Errorf("update label: %w", err)
	}
	return requireRow(res)
}

// UpdateAssetThumbnail records a generated thumbnail URL for one asset.
func (p *Postgres) UpdateAssetThumbnail(ctx context.Context, userID, assetID, url string) error {
	res, err := p.DB.ExecContext(ctx, `
		UPDATE report_assets SET thumbnail_url = $3
		WHERE user_id = $1 AND asset_id = $2`,
		userID, assetID, url)
	if err != nil {
		return fmt.Errorf("update thumbnail: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAssetNotFound
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"toolfinder-backend/internal/recommendations/engine"
)

// SQLiteRepo keeps the catalog in a local sqlite file for development and the CLI.
type SQLiteRepo struct {
	DB *sqlx.DB
}

type sqliteToolRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	Category      string          `db:"category"`
	Description   string          `db:"description"`
	Features      string          `db:"features"`
	Tags          string          `db:"tags"`
	Integrations  string          `db:"integrations"`
	PricingModel  string          `db:"pricing_model"`
	StartingPrice sql.NullFloat64 `db:"starting_price"`
	BillingPeriod string          `db:"billing_period"`
	Rating        float64         `db:"rating"`
	ReviewCount   int             `db:"review_count"`
	LastUpdated   string          `db:"last_updated"`
	CreatedAt     string          `db:"created_at"`
	UpdatedAt     string          `db:"updated_at"`
}

const sqliteToolColumns = `id, name, category, description, features, tags, integrations,
  pricing_model, starting_price, billing_period, rating, review_count, last_updated, created_at, updated_at`

func (r *SQLiteRepo) List(ctx context.Context) ([]Tool, error) {
	var rows []sqliteToolRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+sqliteToolColumns+` FROM tools ORDER BY lower(name), id`); err != nil {
		return nil, err
	}
	return toolsFromRows(rows)
}

func (r *SQLiteRepo) ListByCategory(ctx context.Context, category string) ([]Tool, error) {
	var rows []sqliteToolRow
	if err := r.DB.SelectContext(ctx, &rows,
		`SELECT `+sqliteToolColumns+` FROM tools WHERE lower(category) = lower(?) ORDER BY lower(name), id`, category); err != nil {
		return nil, err
	}
	return toolsFromRows(rows)
}

func (r *SQLiteRepo) Get(ctx context.Context, id string) (Tool, error) {
	var row sqliteToolRow
	if err := r.DB.GetContext(ctx, &row, `SELECT `+sqliteToolColumns+` FROM tools WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tool{}, ErrNotFound
		}
		return Tool{}, err
	}
	return row.tool()
}

func (r *SQLiteRepo) Upsert(ctx context.Context, tool Tool) error {
	const query = `
INSERT INTO tools (` + sqliteToolColumns + `)
VALUES (:id, :name, :category, :description, :features, :tags, :integrations,
  :pricing_model, :starting_price, :billing_period, :rating, :review_count, :last_updated, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
  name = excluded.name,
  category = excluded.category,
  description = excluded.description,
  features = excluded.features,
  tags = excluded.tags,
  integrations = excluded.integrations,
  pricing_model = excluded.pricing_model,
  starting_price = excluded.starting_price,
  billing_period = excluded.billing_period,
  rating = excluded.rating,
  review_count = excluded.review_count,
  last_updated = excluded.last_updated,
  updated_at = excluded.updated_at`
	row, err := sqliteRowFromTool(tool, time.Now())
	if err != nil {
		return err
	}
	_, err = r.DB.NamedExecContext(ctx, query, row)
	return err
}

func (r *SQLiteRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	stats := []CategoryStat{}
	if err := r.DB.SelectContext(ctx, &stats, `
SELECT category, COUNT(*) AS tool_count, COALESCE(AVG(rating), 0) AS average_rating
FROM tools
GROUP BY category
ORDER BY category`); err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].AverageRating = roundRating(stats[i].AverageRating)
	}
	return stats, nil
}

func (r *SQLiteRepo) CreateSubmission(ctx context.Context, sub Submission) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO tool_submissions (id, name, website, category, description, pricing_model, submitted_by, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Name, sub.Website, sub.Category, sub.Description,
		sub.PricingModel, sub.SubmittedBy, sub.Status, formatTime(sub.CreatedAt),
	)
	return err
}

func sqliteRowFromTool(tool Tool, now time.Time) (sqliteToolRow, error) {
	features, err := encodeList(tool.Features)
	if err != nil {
		return sqliteToolRow{}, err
	}
	tags, err := encodeList(tool.Tags)
	if err != nil {
		return sqliteToolRow{}, err
	}
	integrations, err := encodeList(tool.Integrations)
	if err != nil {
		return sqliteToolRow{}, err
	}
	row := sqliteToolRow{
		ID:            tool.ID,
		Name:          tool.Name,
		Category:      tool.Category,
		Description:   tool.Description,
		Features:      features,
		Tags:          tags,
		Integrations:  integrations,
		PricingModel:  string(tool.Pricing.Model),
		BillingPeriod: tool.Pricing.BillingPeriod,
		Rating:        tool.Rating,
		ReviewCount:   tool.ReviewCount,
		LastUpdated:   formatTime(tool.LastUpdated),
		CreatedAt:     formatTime(now),
		UpdatedAt:     formatTime(now),
	}
	if tool.Pricing.StartingPrice != nil {
		row.StartingPrice = sql.NullFloat64{Float64: *tool.Pricing.StartingPrice, Valid: true}
	}
	return row, nil
}

func (row sqliteToolRow) tool() (Tool, error) {
	tool := Tool{
		ID:          row.ID,
		Name:        row.Name,
		Category:    row.Category,
		Description: row.Description,
		Pricing: engine.Pricing{
			Model:         engine.PricingModel(row.PricingModel),
			BillingPeriod: row.BillingPeriod,
		},
		Rating:      row.Rating,
		ReviewCount: row.ReviewCount,
		LastUpdated: parseTime(row.LastUpdated),
	}
	if row.StartingPrice.Valid {
		price := row.StartingPrice.Float64
		tool.Pricing.StartingPrice = &price
	}
	var err error
	if tool.Features, err = decodeList([]byte(row.Features), "features"); err != nil {
		return Tool{}, err
	}
	if tool.Tags, err = decodeList([]byte(row.Tags), "tags"); err != nil {
		return Tool{}, err
	}
	if tool.Integrations, err = decodeList([]byte(row.Integrations), "integrations"); err != nil {
		return Tool{}, err
	}
	return tool, nil
}

func toolsFromRows(rows []sqliteToolRow) ([]Tool, error) {
	tools := make([]Tool, 0, len(rows))
	for _, row := range rows {
		tool, err := row.tool()
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, nil
}

var _ Repo = (*SQLiteRepo)(nil)

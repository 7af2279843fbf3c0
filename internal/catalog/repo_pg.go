package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"toolfinder-backend/internal/recommendations/engine"
)

type PGRepo struct {
	DB *sql.DB
}

const pgToolColumns = `id, name, category, description, features, tags, integrations,
  pricing_model, starting_price, billing_period, rating, review_count, last_updated`

func (r *PGRepo) List(ctx context.Context) ([]Tool, error) {
	query := `SELECT ` + pgToolColumns + `
FROM tools
ORDER BY lower(name), id`
	return r.query(ctx, query)
}

func (r *PGRepo) ListByCategory(ctx context.Context, category string) ([]Tool, error) {
	query := `SELECT ` + pgToolColumns + `
FROM tools
WHERE lower(category) = lower($1)
ORDER BY lower(name), id`
	return r.query(ctx, query, category)
}

func (r *PGRepo) Get(ctx context.Context, id string) (Tool, error) {
	query := `SELECT ` + pgToolColumns + `
FROM tools
WHERE id = $1
LIMIT 1`
	tool, err := scanTool(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Tool{}, ErrNotFound
		}
		return Tool{}, err
	}
	return tool, nil
}

func (r *PGRepo) Upsert(ctx context.Context, tool Tool) error {
	const query = `
INSERT INTO tools (id, name, category, description, features, tags, integrations,
  pricing_model, starting_price, billing_period, rating, review_count, last_updated, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  category = EXCLUDED.category,
  description = EXCLUDED.description,
  features = EXCLUDED.features,
  tags = EXCLUDED.tags,
  integrations = EXCLUDED.integrations,
  pricing_model = EXCLUDED.pricing_model,
  starting_price = EXCLUDED.starting_price,
  billing_period = EXCLUDED.billing_period,
  rating = EXCLUDED.rating,
  review_count = EXCLUDED.review_count,
  last_updated = EXCLUDED.last_updated,
  updated_at = now()`
	features, err := encodeList(tool.Features)
	if err != nil {
		return err
	}
	tags, err := encodeList(tool.Tags)
	if err != nil {
		return err
	}
	integrations, err := encodeList(tool.Integrations)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		tool.ID,
		tool.Name,
		tool.Category,
		nullableString(tool.Description),
		features,
		tags,
		integrations,
		string(tool.Pricing.Model),
		nullableFloat(tool.Pricing.StartingPrice),
		nullableString(tool.Pricing.BillingPeriod),
		tool.Rating,
		tool.ReviewCount,
		nullableTime(tool.LastUpdated),
	)
	return err
}

func (r *PGRepo) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	const query = `
SELECT category, COUNT(*) AS tool_count, COALESCE(AVG(rating), 0) AS average_rating
FROM tools
GROUP BY category
ORDER BY category`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []CategoryStat
	for rows.Next() {
		var s CategoryStat
		if err := rows.Scan(&s.Category, &s.ToolCount, &s.AverageRating); err != nil {
			return nil, err
		}
		s.AverageRating = roundRating(s.AverageRating)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *PGRepo) CreateSubmission(ctx context.Context, sub Submission) error {
	const query = `
INSERT INTO tool_submissions (id, name, website, category, description, pricing_model, submitted_by, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		sub.ID,
		sub.Name,
		nullableString(sub.Website),
		sub.Category,
		nullableString(sub.Description),
		nullableString(sub.PricingModel),
		nullableString(sub.SubmittedBy),
		sub.Status,
		sub.CreatedAt,
	)
	return err
}

func (r *PGRepo) query(ctx context.Context, query string, args ...any) ([]Tool, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tools := []Tool{}
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, tool)
	}
	return tools, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (Tool, error) {
	var tool Tool
	var description sql.NullString
	var features, tags, integrations []byte
	var pricingModel string
	var startingPrice sql.NullFloat64
	var billingPeriod sql.NullString
	var lastUpdated sql.NullTime
	if err := row.Scan(
		&tool.ID,
		&tool.Name,
		&tool.Category,
		&description,
		&features,
		&tags,
		&integrations,
		&pricingModel,
		&startingPrice,
		&billingPeriod,
		&tool.Rating,
		&tool.ReviewCount,
		&lastUpdated,
	); err != nil {
		return Tool{}, err
	}
	var err error
	if tool.Features, err = decodeList(features, "features"); err != nil {
		return Tool{}, err
	}
	if tool.Tags, err = decodeList(tags, "tags"); err != nil {
		return Tool{}, err
	}
	if tool.Integrations, err = decodeList(integrations, "integrations"); err != nil {
		return Tool{}, err
	}
	if description.Valid {
		tool.Description = description.String
	}
	// unknown models are kept so the engine can report them as diagnostics
	tool.Pricing.Model = engine.PricingModel(pricingModel)
	if startingPrice.Valid {
		price := startingPrice.Float64
		tool.Pricing.StartingPrice = &price
	}
	if billingPeriod.Valid {
		tool.Pricing.BillingPeriod = billingPeriod.String
	}
	if lastUpdated.Valid {
		tool.LastUpdated = lastUpdated.Time.UTC()
	}
	return tool, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC()
}

var _ Repo = (*PGRepo)(nil)

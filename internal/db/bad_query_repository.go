package db

import (
	"context"
	"database/sql"

	"github.com/nycnighthawk/otel-app-sample/internal/config"
	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

const randomSortTop = 50

const likeQuery = `
	SELECT category, COUNT(*) AS matches
	FROM products
	WHERE description ILIKE $1
	GROUP BY category
	HAVING COUNT(*) >= $2
	ORDER BY matches DESC
`

// likeFallbackQuery runs for modes nobody recognises: the same scan without
// the minimum match filter.
const likeFallbackQuery = `
	SELECT category, COUNT(*) AS matches
	FROM products
	WHERE description ILIKE $1
	GROUP BY category
	ORDER BY matches DESC
`

// randomSortQuery materializes a pool of rows, builds a wide text key from
// repeated md5 digests and sorts on it, which usually spills to disk.
const randomSortQuery = `
	WITH pool AS (
		SELECT id, sku, category, description
		FROM products
		LIMIT $1
	),
	keyed AS (
		SELECT
			id,
			sku,
			category,
			repeat(md5(description), $2) AS sort_key
		FROM pool
	)
	SELECT id, sku, category
	FROM keyed
	ORDER BY sort_key
	LIMIT $3
`

// joinBombQuery pairs every row with the next $3 rows of its category.
// Work per category is bounded by max_per_cat * fanout.
const joinBombQuery = `
	WITH topcats AS (
		SELECT category
		FROM products
		GROUP BY category
		ORDER BY COUNT(*) DESC
		LIMIT $1
	),
	ranked AS (
		SELECT
			id,
			category,
			row_number() OVER (PARTITION BY category ORDER BY id) AS rn
		FROM products
		WHERE category IN (SELECT category FROM topcats)
	),
	capped AS (
		SELECT * FROM ranked WHERE rn <= $2
	),
	pairs AS (
		SELECT
			p1.category AS category,
			p1.id AS left_id,
			p2.id AS right_id
		FROM capped p1
		JOIN capped p2
			ON p1.category = p2.category
			AND p2.rn BETWEEN p1.rn AND (p1.rn + $3)
	)
	SELECT
		category,
		COUNT(*) AS pair_count,
		MIN(left_id) AS min_left_id,
		MAX(right_id) AS max_right_id
	FROM pairs
	GROUP BY category
	ORDER BY pair_count DESC
`

// BadQueryRepository runs the deliberately expensive queries.
type BadQueryRepository struct {
	db  *sql.DB
	cfg config.BadQueryConfig
}

func NewBadQueryRepository(database *PostgresDB, cfg config.BadQueryConfig) *BadQueryRepository {
	return &BadQueryRepository{db: database.Conn, cfg: cfg}
}

// Run executes the query for mode. The result carries the full row count and
// at most models.BadSampleSize rows.
func (r *BadQueryRepository) Run(ctx context.Context, mode string) (*models.BadQueryResult, error) {
	mode = models.NormalizeMode(mode)
	if mode == "" {
		mode = models.BadModeLike
	}

	result := &models.BadQueryResult{Mode: mode}

	switch mode {
	case models.BadModeLike:
		rows, err := r.categoryMatches(ctx, likeQuery, r.cfg.LikePattern, r.cfg.LikeMinCount)
		if err != nil {
			return nil, err
		}
		result.Rows, result.Sample = len(rows), models.Sample(rows, models.BadSampleSize)

	case models.BadModeRandomSort:
		rows, err := r.randomSort(ctx)
		if err != nil {
			return nil, err
		}
		result.Rows, result.Sample = len(rows), models.Sample(rows, models.BadSampleSize)

	case models.BadModeJoinBomb:
		rows, err := r.joinBomb(ctx)
		if err != nil {
			return nil, err
		}
		result.Rows, result.Sample = len(rows), models.Sample(rows, models.BadSampleSize)

	default:
		rows, err := r.categoryMatches(ctx, likeFallbackQuery, r.cfg.LikePattern)
		if err != nil {
			return nil, err
		}
		result.Rows, result.Sample = len(rows), models.Sample(rows, models.BadSampleSize)
	}

	return result, nil
}

func (r *BadQueryRepository) categoryMatches(ctx context.Context, query string, args ...any) ([]models.CategoryMatches, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &QueryError{Op: "run like scan", Err: err}
	}
	defer rows.Close()

	out := []models.CategoryMatches{}
	for rows.Next() {
		var m models.CategoryMatches
		if err := rows.Scan(&m.Category, &m.Matches); err != nil {
			return nil, &QueryError{Op: "scan like row", Err: err}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate like rows", Err: err}
	}
	return out, nil
}

func (r *BadQueryRepository) randomSort(ctx context.Context) ([]models.SortedProduct, error) {
	rows, err := r.db.QueryContext(ctx, randomSortQuery, r.cfg.RandomPool, r.cfg.KeyRepeat(), randomSortTop)
	if err != nil {
		return nil, &QueryError{Op: "run random sort", Err: err}
	}
	defer rows.Close()

	out := []models.SortedProduct{}
	for rows.Next() {
		var p models.SortedProduct
		if err := rows.Scan(&p.ID, &p.SKU, &p.Category); err != nil {
			return nil, &QueryError{Op: "scan random sort row", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate random sort rows", Err: err}
	}
	return out, nil
}

func (r *BadQueryRepository) joinBomb(ctx context.Context) ([]models.CategoryPairs, error) {
	rows, err := r.db.QueryContext(ctx, joinBombQuery, r.cfg.JoinTopCats, r.cfg.JoinMaxPerCat, r.cfg.JoinFanout)
	if err != nil {
		return nil, &QueryError{Op: "run join bomb", Err: err}
	}
	defer rows.Close()

	out := []models.CategoryPairs{}
	for rows.Next() {
		var p models.CategoryPairs
		if err := rows.Scan(&p.Category, &p.PairCount, &p.MinLeftID, &p.MaxRightID); err != nil {
			return nil, &QueryError{Op: "scan join bomb row", Err: err}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate join bomb rows", Err: err}
	}
	return out, nil
}

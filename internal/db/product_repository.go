package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(database *PostgresDB) *ProductRepository {
	return &ProductRepository{db: database.Conn}
}

// Search returns products whose name contains q (case-insensitive), newest
// first. An empty q matches everything.
func (r *ProductRepository) Search(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	term := strings.TrimSpace(q.Q)
	limit := models.Clamp(q.Limit, 1, models.MaxProductLimit)

	query := `
		SELECT id, sku, name, price_cents
		FROM products
		WHERE ($1::text = '' OR name ILIKE ('%' || $1::text || '%'))
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, term, limit)
	if err != nil {
		return nil, &QueryError{Op: "query products", Err: err}
	}
	defer rows.Close()

	products := make([]models.Product, 0, limit)
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.PriceCents); err != nil {
			return nil, &QueryError{Op: "scan product", Err: err}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate products", Err: err}
	}

	return products, nil
}

package db

import (
	"context"
	"database/sql"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(database *PostgresDB) *OrderRepository {
	return &OrderRepository{db: database.Conn}
}

// Place inserts an order and its single item in one transaction and returns
// the new order id. Nothing is left behind if either insert fails.
func (r *OrderRepository) Place(ctx context.Context, req models.PlaceOrderRequest) (int64, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return 0, err
	}

	// Start transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &QueryError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	// Insert order
	var orderID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (customer_email) VALUES ($1) RETURNING id`,
		req.CustomerEmail,
	).Scan(&orderID)
	if err != nil {
		return 0, &QueryError{Op: "insert order", Err: err}
	}

	// Insert order item
	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, qty) VALUES ($1, $2, $3)`,
		orderID, req.ProductID, req.Qty,
	)
	if err != nil {
		return 0, &QueryError{Op: "insert order item", Err: err}
	}

	// Commit transaction
	if err := tx.Commit(); err != nil {
		return 0, &QueryError{Op: "commit transaction", Err: err}
	}

	return orderID, nil
}

// List returns order totals, newest first.
func (r *OrderRepository) List(ctx context.Context, limit int) ([]models.OrderSummary, error) {
	limit = models.Clamp(limit, 1, models.MaxOrderLimit)

	query := `
		SELECT
			o.id,
			o.created_at,
			o.customer_email,
			COALESCE(SUM(oi.qty * p.price_cents), 0) AS total_cents,
			COALESCE(SUM(oi.qty), 0) AS total_items
		FROM orders o
		LEFT JOIN order_items oi ON oi.order_id = o.id
		LEFT JOIN products p ON p.id = oi.product_id
		GROUP BY o.id
		ORDER BY o.id DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, &QueryError{Op: "query orders", Err: err}
	}
	defer rows.Close()

	orders := make([]models.OrderSummary, 0, limit)
	for rows.Next() {
		var o models.OrderSummary
		err := rows.Scan(&o.ID, &o.CreatedAt, &o.CustomerEmail, &o.TotalCents, &o.TotalItems)
		if err != nil {
			return nil, &QueryError{Op: "scan order", Err: err}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "iterate orders", Err: err}
	}

	return orders, nil
}

// Package seed fills an existing shop schema with synthetic products and
// orders.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/nycnighthawk/otel-app-sample/internal/config"
	"github.com/nycnighthawk/otel-app-sample/internal/db"
	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

var Categories = []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta"}

const lorem = "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor " +
	"incididunt ut labore et dolore magna aliqua"

const (
	minPriceCents = 199
	maxPriceCents = 19999
	maxCustomerNo = 200000
)

var ErrNoProducts = errors.New("no products in database, cannot create orders")

type Seeder struct {
	db  *sql.DB
	cfg config.SeedConfig
	rng *rand.Rand
}

type Result struct {
	Products int
	Orders   int
	Items    int
}

func NewSeeder(database *db.PostgresDB, cfg config.SeedConfig, rng *rand.Rand) *Seeder {
	return &Seeder{
		db:  database.Conn,
		cfg: cfg,
		rng: rng,
	}
}

// Run appends products, then orders referencing the full product id range.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	products, err := s.SeedProducts(ctx)
	if err != nil {
		return nil, err
	}

	orders, items, err := s.SeedOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &Result{Products: products, Orders: orders, Items: items}, nil
}

// SeedProducts inserts cfg.Products rows, numbering SKUs after the rows
// already present.
func (s *Seeder) SeedProducts(ctx context.Context) (int, error) {
	var existing int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&existing); err != nil {
		return 0, &db.QueryError{Op: "count products", Err: err}
	}
	if existing > 0 {
		log.Printf("products already has %d rows, appending", existing)
	}

	err := s.inBatches(ctx, "products", s.cfg.Products, s.cfg.ProductBatch, func(tx *sql.Tx, i int) error {
		p := NewProduct(s.rng, existing+i+1)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (sku, name, category, description, price_cents) VALUES ($1, $2, $3, $4, $5)`,
			p.SKU, p.Name, p.Category, p.Description, p.PriceCents,
		)
		if err != nil {
			return &db.QueryError{Op: "insert product", Err: err}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return s.cfg.Products, nil
}

// SeedOrders inserts cfg.Orders orders, each with distinct random products.
func (s *Seeder) SeedOrders(ctx context.Context) (int, int, error) {
	var minID, maxID, total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MIN(id), 0), COALESCE(MAX(id), 0), COUNT(*) FROM products`,
	).Scan(&minID, &maxID, &total)
	if err != nil {
		return 0, 0, &db.QueryError{Op: "read product id range", Err: err}
	}
	if total == 0 {
		return 0, 0, ErrNoProducts
	}

	var existing int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&existing); err != nil {
		return 0, 0, &db.QueryError{Op: "count orders", Err: err}
	}
	if existing > 0 {
		log.Printf("orders already has %d rows, appending", existing)
	}

	items := 0
	err = s.inBatches(ctx, "orders", s.cfg.Orders, s.cfg.OrderBatch, func(tx *sql.Tx, _ int) error {
		order := NewOrder(s.rng, s.cfg, minID, maxID)

		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (customer_email) VALUES ($1) RETURNING id`,
			order.CustomerEmail,
		).Scan(&order.ID)
		if err != nil {
			return &db.QueryError{Op: "insert order", Err: err}
		}

		for _, item := range order.Items {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, qty) VALUES ($1, $2, $3)`,
				order.ID, item.ProductID, item.Qty,
			)
			if err != nil {
				return &db.QueryError{Op: "insert order item", Err: err}
			}
			items++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return s.cfg.Orders, items, nil
}

// inBatches runs insert for 0..total-1, committing every size rows.
func (s *Seeder) inBatches(ctx context.Context, what string, total, size int, insert func(tx *sql.Tx, i int) error) error {
	for start := 0; start < total; start += size {
		end := min(start+size, total)
		if err := s.batch(ctx, start, end, insert); err != nil {
			return err
		}
		log.Printf("  inserted %s %d/%d", what, end, total)
	}
	return nil
}

func (s *Seeder) batch(ctx context.Context, start, end int, insert func(tx *sql.Tx, i int) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.QueryError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback()

	for i := start; i < end; i++ {
		if err := insert(tx, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return &db.QueryError{Op: "commit transaction", Err: err}
	}
	return nil
}

// NewProduct builds the synthetic product with sequence number seq.
func NewProduct(rng *rand.Rand, seq int) models.Product {
	category := Categories[rng.Intn(len(Categories))]
	description := lorem + " | " + category + " | " + strings.Repeat(" "+lorem, between(rng, 2, 6))

	return models.Product{
		SKU:         fmt.Sprintf("SKU-%08d", seq),
		Name:        randWord(rng, 6) + " " + randWord(rng, 7),
		Category:    category,
		Description: description,
		PriceCents:  int64(between(rng, minPriceCents, maxPriceCents)),
	}
}

// NewOrder builds a synthetic order over products in [minID, maxID]. Items
// never repeat a product; ID is left for the database to assign.
func NewOrder(rng *rand.Rand, cfg config.SeedConfig, minID, maxID int64) models.Order {
	order := models.Order{
		CustomerEmail: fmt.Sprintf("user%d@example.com", between(rng, 1, maxCustomerNo)),
	}

	n := between(rng, cfg.ItemsMin, cfg.ItemsMax)
	for _, productID := range pickDistinct(rng, minID, maxID, n) {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: productID,
			Qty:       between(rng, cfg.QtyMin, cfg.QtyMax),
		})
	}
	return order
}

func randWord(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('a' + rng.Intn(26))
	}
	return string(b)
}

// between returns a uniform int in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// pickDistinct draws up to n distinct ids from [lo, hi].
func pickDistinct(rng *rand.Rand, lo, hi int64, n int) []int64 {
	span := hi - lo + 1
	if int64(n) > span {
		n = int(span)
	}

	seen := make(map[int64]struct{}, n)
	ids := make([]int64, 0, n)
	for len(ids) < n {
		id := lo + rng.Int63n(span)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

package config

import "fmt"

// SeedConfig sizes a seeding run.
type SeedConfig struct {
	DatabaseURL  string
	Products     int
	Orders       int
	ItemsMin     int
	ItemsMax     int
	QtyMin       int
	QtyMax       int
	ProductBatch int
	OrderBatch   int
}

// LoadSeed reads the seeder settings from environment variables.
func LoadSeed() (*SeedConfig, error) {
	cfg := &SeedConfig{
		DatabaseURL:  getEnv("DATABASE_URL", DefaultDatabaseURL),
		Products:     getEnvAsInt("SEED_ROWS", 20000),
		Orders:       getEnvAsInt("SEED_ORDERS", 2000),
		ItemsMin:     max(1, getEnvAsInt("ORDER_ITEMS_MIN", 1)),
		ItemsMax:     max(1, getEnvAsInt("ORDER_ITEMS_MAX", 4)),
		QtyMin:       max(1, getEnvAsInt("ORDER_QTY_MIN", 1)),
		QtyMax:       max(1, getEnvAsInt("ORDER_QTY_MAX", 5)),
		ProductBatch: 1000,
		OrderBatch:   200,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed configuration: %w", err)
	}

	return cfg, nil
}

func (c *SeedConfig) Validate() error {
	if c.Products < 0 || c.Orders < 0 {
		return fmt.Errorf("SEED_ROWS and SEED_ORDERS must not be negative")
	}
	if c.ItemsMin > c.ItemsMax {
		return fmt.Errorf("ORDER_ITEMS_MIN %d exceeds ORDER_ITEMS_MAX %d", c.ItemsMin, c.ItemsMax)
	}
	if c.QtyMin > c.QtyMax {
		return fmt.Errorf("ORDER_QTY_MIN %d exceeds ORDER_QTY_MAX %d", c.QtyMin, c.QtyMax)
	}
	if c.ProductBatch < 1 || c.OrderBatch < 1 {
		return fmt.Errorf("batch sizes must be positive")
	}
	return nil
}

package main

import (
	"context"
	"log"
	"math/rand"
	"os/signal"
	"syscall"
	"time"

	"github.com/nycnighthawk/otel-app-sample/internal/config"
	"github.com/nycnighthawk/otel-app-sample/internal/db"
	"github.com/nycnighthawk/otel-app-sample/internal/seed"
)

func main() {
	cfg, err := config.LoadSeed()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Printf("🌱 Seeding products=%d orders=%d items_per_order=[%d,%d]",
		cfg.Products, cfg.Orders, cfg.ItemsMin, cfg.ItemsMax)

	start := time.Now()
	seeder := seed.NewSeeder(database, *cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
	result, err := seeder.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✅ Done in %.1fs: %d products, %d orders, %d order items",
		time.Since(start).Seconds(), result.Products, result.Orders, result.Items)
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/badmode"
	"github.com/nycnighthawk/otel-app-sample/internal/config"
	"github.com/nycnighthawk/otel-app-sample/internal/db"
	"github.com/nycnighthawk/otel-app-sample/internal/discovery"
	"github.com/nycnighthawk/otel-app-sample/internal/handlers"
	"github.com/nycnighthawk/otel-app-sample/internal/messaging"
	"github.com/nycnighthawk/otel-app-sample/internal/middleware"
	"github.com/nycnighthawk/otel-app-sample/internal/publisher"
	"github.com/nycnighthawk/otel-app-sample/internal/runlog"
	"github.com/nycnighthawk/otel-app-sample/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	database, err := db.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run journal: Redis when configured
	var journal handlers.RunJournal = runlog.Nop{}
	if cfg.Redis.Addr != "" {
		redisLog, err := runlog.NewRedisRunLog(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.RunHistorySize)
		if err != nil {
			log.Printf("⚠️ Run journal disabled: %v", err)
		} else {
			defer redisLog.Close()
			journal = redisLog
		}
	}

	// Order events: RabbitMQ when configured
	var events handlers.OrderEventPublisher = publisher.Nop{}
	if cfg.AMQPURL != "" {
		rabbitMQ, err := messaging.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.Printf("⚠️ Order events disabled: %v", err)
		} else {
			defer rabbitMQ.Close()
			orderPublisher, err := publisher.NewOrderPublisher(rabbitMQ)
			if err != nil {
				log.Printf("⚠️ Order events disabled: %v", err)
			} else {
				events = orderPublisher
			}
		}
	}

	// Create repositories
	productRepo := db.NewProductRepository(database)
	orderRepo := db.NewOrderRepository(database)
	badRepo := db.NewBadQueryRepository(database, cfg.BadQuery)

	modes := badmode.NewController(cfg.BadQuery.DefaultMode)

	// Setup router
	router := gin.Default()
	router.Use(middleware.ConcurrencyLimit(cfg.MaxConcurrentRequests))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Products: handlers.NewProductHandler(productRepo),
		Orders:   handlers.NewOrderHandler(orderRepo, events),
		Bad:      handlers.NewBadQueryHandler(badRepo, modes, journal),
		Static:   handlers.NewStaticHandler(web.Files(cfg.StaticDir)),
	})

	// Register with Consul
	var consul *discovery.ConsulClient
	if cfg.Consul.Addr != "" {
		consul, err = discovery.NewConsulClient(cfg.Consul.Addr)
		if err != nil {
			log.Printf("⚠️ Service registration disabled: %v", err)
		} else if err := consul.Register(discovery.ServiceConfig{
			Name: cfg.Consul.ServiceName,
			ID:   cfg.Consul.ServiceID,
			Port: cfg.PortNumber(),
			Tags: []string{"api", "shop"},
		}); err != nil {
			log.Printf("⚠️ Failed to register service: %v", err)
			consul = nil
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("🚀 shop starting on http://localhost:%s (bad query mode: %s)", cfg.Port, modes.Current())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	if consul != nil {
		if err := consul.Deregister(cfg.Consul.ServiceID); err != nil {
			log.Printf("⚠️ %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

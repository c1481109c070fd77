package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nycnighthawk/otel-app-sample/internal/client"
	"github.com/nycnighthawk/otel-app-sample/internal/discovery"
	"github.com/nycnighthawk/otel-app-sample/internal/traffic"
)

func main() {
	var exitCode int
	defer func() {
		os.Exit(exitCode)
	}()

	configPath := flag.String("config", "traffic.yaml", "path to YAML config, created with defaults if missing")
	flag.Parse()

	cfg, created, err := traffic.LoadOrCreate(*configPath)
	if err != nil {
		log.Printf("❌ Failed to load config: %v", err)
		exitCode = 1
		return
	}
	if created {
		log.Printf("✅ Wrote default config to %s", *configPath)
	}

	targets := cfg.Targets
	if cfg.Consul != nil && cfg.Consul.Service != "" {
		consul, err := discovery.NewConsulClient(cfg.Consul.Addr)
		if err != nil {
			log.Printf("❌ %v", err)
			exitCode = 1
			return
		}
		targets, err = consul.ServiceAddrs(cfg.Consul.Service)
		if err != nil {
			log.Printf("❌ %v", err)
			exitCode = 1
			return
		}
	}

	baseURLs := make([]string, 0, len(targets))
	for _, t := range targets {
		u, err := client.NormalizeBaseURL(t, cfg.Scheme)
		if err != nil {
			log.Printf("❌ %v", err)
			exitCode = 1
			return
		}
		baseURLs = append(baseURLs, u)
	}

	log.Printf("🚀 Driving %v with %d workers each at %.2f qps, /api/bad every %s",
		baseURLs, cfg.WorkersPerTarget, cfg.QPSPerWorker, cfg.BadEvery)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reports, err := traffic.NewRunner(cfg, baseURLs, nil).Run(ctx)
	for _, r := range reports {
		log.Printf("🏁 %s", r)
	}
	if err != nil {
		log.Printf("❌ %v", err)
		exitCode = 1
	}
}

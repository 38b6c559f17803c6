package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/kirychukyurii/adg-monitor/internal/api"
	"github.com/kirychukyurii/adg-monitor/internal/cache"
	"github.com/kirychukyurii/adg-monitor/internal/config"
	"github.com/kirychukyurii/adg-monitor/internal/eventlog"
	"github.com/kirychukyurii/adg-monitor/internal/logger"
	"github.com/kirychukyurii/adg-monitor/internal/metrics"
	"github.com/kirychukyurii/adg-monitor/internal/monitor"
	"github.com/kirychukyurii/adg-monitor/internal/repository"
	"github.com/kirychukyurii/adg-monitor/pkg/httpserver"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	log := logger.New()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load configuration",
			"error", err.Error(),
		)
		os.Exit(1)
	}

	log = logger.NewWithLevel(cfg.SlogLevel())

	log.Info("configuration loaded",
		"latency_interval", cfg.Monitor.LatencyInterval,
		"latency_threshold", cfg.Monitor.LatencyThreshold,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessionMetrics := metrics.New(registry)

	// All clients of this process share one outbound request budget
	limiter := rate.NewLimiter(rate.Limit(cfg.Client.RequestsPerSecond), cfg.Client.Burst)
	newClient := func(endpointBase string) (repository.DBAPIRepository, error) {
		return repository.NewDBAPIRepository(endpointBase, cfg.Client, log, repository.WithLimiter(limiter))
	}

	hub := api.NewHub(log)
	events := eventlog.New(log)
	enquiryCache := cache.New(cfg.Cache.TTL)

	session := monitor.NewSession(
		cfg.Monitor,
		newClient,
		enquiryCache,
		cfg.Cache.TTL,
		events,
		sessionMetrics,
		hub,
		log,
	)
	defer session.Dispose()

	if cfg.Monitor.Autostart {
		if err := session.Start(cfg.Monitor.EndpointBase); err != nil {
			log.Error("failed to start monitoring session",
				"endpoint_base", cfg.Monitor.EndpointBase,
				"error", err.Error(),
			)
			os.Exit(1)
		}
	}

	handler := api.NewHandler(
		session,
		hub,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		cfg.Server.BasePath,
		log,
	)

	srv := httpserver.New(
		cfg.Server.Addr,
		handler.Router(),
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting adg-monitor service")

	if err := srv.Run(ctx); err != nil {
		log.Error("server error",
			"error", err.Error(),
		)
	}

	log.Info("shutting down monitoring session")
	session.Stop()
	hub.Close()

	log.Info("shutdown complete")
}

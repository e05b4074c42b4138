// Package main provides the action server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/unichat-bot/unichat-actions-go/internal/actions"
	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/buildinfo"
	"github.com/unichat-bot/unichat-actions-go/internal/config"
	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/resolver"
	"github.com/unichat-bot/unichat-actions-go/internal/sentry"
	"github.com/unichat-bot/unichat-actions-go/internal/topics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithField("version", buildinfo.Version).Info("Starting UniChat action server")

	// Initialize error reporting (no-op without a DSN)
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	}
	defer sentry.Flush(2 * time.Second)
	if sentry.IsEnabled() {
		log.Info("Sentry error reporting enabled")
	}

	// Create Prometheus registry
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	log.Info("Metrics initialized")

	// Backend API client: short timeout for structured reads, long one for
	// the generative call
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, cfg.GenerateTimeout, log, m)
	log.WithField("base_url", cfg.BackendBaseURL).Info("Backend client created")

	// Course name resolution with TTL cache
	courseResolver := resolver.New(client, cfg.CacheTTL, log, m)
	log.WithField("cache_ttl", cfg.CacheTTL).Info("Course resolver created")

	// Topic extraction for question persistence
	topicExtractor := topics.New(client)

	// Action registry
	classifier := domerrors.NewClassifier(log)
	registryActions := actions.NewRegistry(client, courseResolver, topicExtractor, classifier, log, m)
	log.WithField("actions", len(registryActions.ActionNames())).Info("Action registry created")

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentryMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(log))

	// Setup routes
	setupRoutes(router, registryActions, registry, cfg, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.WebhookHTTPRead,
		WriteTimeout: config.WebhookHTTPWrite,
		IdleTimeout:  config.WebhookHTTPIdle,
	}

	// Start server in goroutine
	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

// Package main provides the knowledge ingestion daemon entry point.
// It runs both pipeline stages: Gemini summarization of uploaded documents
// and metadata enrichment plus publication to the backend knowledge base.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/buildinfo"
	"github.com/unichat-bot/unichat-actions-go/internal/config"
	"github.com/unichat-bot/unichat-actions-go/internal/genai"
	"github.com/unichat-bot/unichat-actions-go/internal/ingest"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/resolver"
	"github.com/unichat-bot/unichat-actions-go/internal/sentry"
	"github.com/unichat-bot/unichat-actions-go/internal/storage"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateIngest(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to validate ingest config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.WithField("version", buildinfo.Version).Info("Starting UniChat ingestion daemon")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     buildinfo.Version,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize Sentry, error reporting disabled")
	}
	defer sentry.Flush(2 * time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.NewRegistry())

	ledger, err := storage.Open(cfg.Ingest.LedgerPath)
	if err != nil {
		log.WithError(err).Error("Failed to open ingestion ledger")
		os.Exit(1)
	}
	defer func() { _ = ledger.Close() }()
	log.WithField("path", cfg.Ingest.LedgerPath).Info("Ingestion ledger opened")

	summarizer, err := genai.NewSummarizer(ctx, cfg.Ingest.GeminiAPIKey, cfg.Ingest.GeminiModel)
	if err != nil {
		log.WithError(err).Error("Failed to create summarizer")
		os.Exit(1)
	}
	log.WithField("model", cfg.Ingest.GeminiModel).Info("Summarizer created")

	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, cfg.GenerateTimeout, log, m)
	courseResolver := resolver.New(client, cfg.CacheTTL, log, m)

	stage1 := ingest.NewSummarizeStage(summarizer,
		cfg.Ingest.InputDir, cfg.Ingest.IntermediateDir, cfg.Ingest.SettleDelay, ledger, log, m)
	stage2 := ingest.NewPublishStage(courseResolver, client,
		cfg.Ingest.IntermediateDir, cfg.Ingest.SettleDelay, ledger, log, m)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return stage1.Run(groupCtx) })
	group.Go(func() error { return stage2.Run(groupCtx) })

	log.WithField("input_dir", cfg.Ingest.InputDir).
		WithField("intermediate_dir", cfg.Ingest.IntermediateDir).
		Info("Pipeline stages running")

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		log.WithError(err).Error("Pipeline stage failed")
		os.Exit(1)
	}
	log.Info("Ingestion daemon stopped")
}

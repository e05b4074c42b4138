// Package ingest implements the two-stage knowledge ingestion pipeline.
// Stage 1 watches the upload directory, summarizes each document through
// Gemini and writes an intermediate JSON. Stage 2 watches the intermediate
// directory, enriches the JSON with metadata derived from the filename and
// publishes it to the backend knowledge base.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/unichat-bot/unichat-actions-go/internal/logger"
)

// WatchDir processes existing files in dir, then handles create events until
// ctx is canceled. One file at a time: the settle delay and the handler run
// inline so a half-written upload is never read early and two documents are
// never processed concurrently.
func WatchDir(ctx context.Context, dir string, settle time.Duration, log *logger.Logger, handle func(context.Context, string)) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create watch directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	// Leftovers from before the last shutdown get a retry first.
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if entry.IsDir() {
			continue
		}
		handle(ctx, filepath.Join(dir, entry.Name()))
	}

	log.WithField("dir", dir).Infof("watching directory")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
				continue
			}
			if !sleepCtx(ctx, settle) {
				return ctx.Err()
			}
			handle(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warnf("watcher error")
		}
	}
}

// sleepCtx waits d unless ctx is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

package config

import "time"

// Webhook and HTTP server timeouts
const (
	// WebhookHTTPRead is the HTTP server read timeout. The dialogue runtime
	// sends small JSON payloads, so this stays short.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite must accommodate the slowest action, which is the
	// generative call, plus response serialization.
	WebhookHTTPWrite = 40 * time.Second

	// WebhookHTTPIdle is the keep-alive idle timeout.
	WebhookHTTPIdle = 120 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown on SIGTERM.
	DefaultShutdownTimeout = 10 * time.Second
)

// Backend call timeouts
const (
	// BackendRead bounds every structured read against the backend API.
	// These endpoints serve from its database and answer well under a
	// second when healthy.
	BackendRead = 10 * time.Second

	// BackendGenerate bounds the generative-answer call, which proxies to
	// an LLM and routinely takes tens of seconds.
	BackendGenerate = 30 * time.Second

	// QuestionPersist bounds the fire-and-forget student question save,
	// which runs detached from the webhook turn.
	QuestionPersist = 10 * time.Second
)

// Cache and ingestion timing
const (
	// DefaultCacheTTL is the course resolution cache lifetime.
	DefaultCacheTTL = 300 * time.Second

	// IngestSettleDelay is how long each pipeline stage waits after a file
	// create event before reading, so uploads finish writing first.
	IngestSettleDelay = 2 * time.Second

	// IngestSummarize bounds one Gemini summarization call.
	IngestSummarize = 120 * time.Second
)

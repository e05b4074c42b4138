package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/config"
	"github.com/unichat-bot/unichat-actions-go/internal/genai"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/storage"
)

// Ledger stage names.
const (
	stageSummarize = "summarize"
	stagePublish   = "publish"
)

// Intermediate is the JSON handed from stage 1 to stage 2.
type Intermediate struct {
	Resumo            string   `json:"resumo"`
	PalavrasChave     []string `json:"palavras_chave"`
	NomeArquivoOrigem string   `json:"nome_arquivo_origem"`
}

// DocumentSummarizer produces a summary for one document's content.
type DocumentSummarizer interface {
	Summarize(ctx context.Context, content string) (*genai.Summary, error)
}

// SummarizeStage is stage 1: upload directory to intermediate JSON.
type SummarizeStage struct {
	summarizer DocumentSummarizer
	inputDir   string
	outputDir  string
	settle     time.Duration
	ledger     *storage.Ledger
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewSummarizeStage wires stage 1.
func NewSummarizeStage(s DocumentSummarizer, inputDir, outputDir string, settle time.Duration, ledger *storage.Ledger, log *logger.Logger, m *metrics.Metrics) *SummarizeStage {
	return &SummarizeStage{
		summarizer: s,
		inputDir:   inputDir,
		outputDir:  outputDir,
		settle:     settle,
		ledger:     ledger,
		log:        log.WithModule("ingest.summarize"),
		metrics:    m,
	}
}

// Run watches the upload directory until ctx is canceled.
func (s *SummarizeStage) Run(ctx context.Context) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return err
	}
	return WatchDir(ctx, s.inputDir, s.settle, s.log, s.Process)
}

// Process summarizes one uploaded document. Uploads are never deleted;
// the ledger keeps the startup re-scan from summarizing them twice.
func (s *SummarizeStage) Process(ctx context.Context, path string) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return
	}
	log := s.log.WithField("file", name)

	if status, err := s.ledger.Status(ctx, name, stageSummarize); err != nil {
		log.WithError(err).Warnf("ledger lookup failed")
	} else if status == storage.StatusSummarized {
		log.Debugf("already summarized, skipping")
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Errorf("failed to read upload")
		s.metrics.RecordIngestDocument(stageSummarize, "read_error")
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, config.IngestSummarize)
	summary, err := s.summarizer.Summarize(callCtx, string(content))
	cancel()
	if err != nil {
		log.WithError(err).Errorf("summarization failed")
		s.recordLedger(ctx, name, stageSummarize, storage.StatusFailed, err.Error())
		s.metrics.RecordIngestDocument(stageSummarize, "failure")
		return
	}

	out := Intermediate{
		Resumo:            summary.Resumo,
		PalavrasChave:     summary.PalavrasChave,
		NomeArquivoOrigem: name,
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.WithError(err).Errorf("failed to encode intermediate JSON")
		s.metrics.RecordIngestDocument(stageSummarize, "failure")
		return
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	outPath := filepath.Join(s.outputDir, base+".json")
	if err := os.WriteFile(outPath, raw, 0o644); err != nil {
		log.WithError(err).Errorf("failed to write intermediate JSON")
		s.recordLedger(ctx, name, stageSummarize, storage.StatusFailed, err.Error())
		s.metrics.RecordIngestDocument(stageSummarize, "failure")
		return
	}

	s.recordLedger(ctx, name, stageSummarize, storage.StatusSummarized, "")
	s.metrics.RecordIngestDocument(stageSummarize, "success")
	log.WithField("output", outPath).Infof("document summarized")
}

func (s *SummarizeStage) recordLedger(ctx context.Context, name, stage, status, detail string) {
	if err := s.ledger.Record(ctx, name, stage, status, detail); err != nil {
		s.log.WithError(err).Warnf("failed to record ledger entry")
	}
}

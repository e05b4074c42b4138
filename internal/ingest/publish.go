package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/storage"
)

// CourseResolver resolves a course name to its backend identifier.
type CourseResolver interface {
	ResolveCourseID(ctx context.Context, name string) (string, error)
}

// KnowledgeSaver posts one document to the knowledge base.
type KnowledgeSaver interface {
	SaveKnowledge(ctx context.Context, doc backend.KnowledgeDocument) error
}

// PublishStage is stage 2: intermediate JSON to the backend knowledge base.
type PublishStage struct {
	resolver CourseResolver
	saver    KnowledgeSaver
	dir      string
	settle   time.Duration
	ledger   *storage.Ledger
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewPublishStage wires stage 2.
func NewPublishStage(r CourseResolver, saver KnowledgeSaver, dir string, settle time.Duration, ledger *storage.Ledger, log *logger.Logger, m *metrics.Metrics) *PublishStage {
	return &PublishStage{
		resolver: r,
		saver:    saver,
		dir:      dir,
		settle:   settle,
		ledger:   ledger,
		log:      log.WithModule("ingest.publish"),
		metrics:  m,
	}
}

// Run watches the intermediate directory until ctx is canceled.
func (p *PublishStage) Run(ctx context.Context) error {
	return WatchDir(ctx, p.dir, p.settle, p.log, p.Process)
}

// Process publishes one intermediate JSON. The file is deleted only after
// the backend confirms the save; any failure keeps it for the next re-scan.
func (p *PublishStage) Process(ctx context.Context, path string) {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
		return
	}
	log := p.log.WithField("file", name)

	raw, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Errorf("failed to read intermediate JSON")
		p.metrics.RecordIngestDocument(stagePublish, "read_error")
		return
	}

	var data Intermediate
	if err := json.Unmarshal(raw, &data); err != nil {
		log.WithError(err).Errorf("malformed intermediate JSON")
		p.recordLedger(ctx, name, storage.StatusFailed, "malformed JSON")
		p.metrics.RecordIngestDocument(stagePublish, "failure")
		return
	}
	if data.NomeArquivoOrigem == "" {
		log.Errorf("intermediate JSON missing nome_arquivo_origem")
		p.recordLedger(ctx, name, storage.StatusFailed, "missing nome_arquivo_origem")
		p.metrics.RecordIngestDocument(stagePublish, "failure")
		return
	}

	disciplina, categoria := ParseSourceName(data.NomeArquivoOrigem)

	// Missing course is not fatal: the document publishes with a null id.
	var idDisciplina *string
	if id, err := p.resolver.ResolveCourseID(ctx, disciplina); err == nil {
		idDisciplina = &id
	} else {
		log.WithField("disciplina", disciplina).WithError(err).Warnf("course id not resolved, saving as null")
	}

	doc := backend.KnowledgeDocument{
		NomeArquivoOrigem:  data.NomeArquivoOrigem,
		ConteudoProcessado: data.Resumo,
		PalavrasChave:      data.PalavrasChave,
		Categoria:          categoria,
		Status:             "publicado",
		IDDisciplina:       idDisciplina,
	}

	if err := p.saver.SaveKnowledge(ctx, doc); err != nil {
		log.WithError(err).Errorf("failed to publish document")
		p.recordLedger(ctx, name, storage.StatusFailed, err.Error())
		p.metrics.RecordIngestDocument(stagePublish, "failure")
		return
	}

	if err := os.Remove(path); err != nil {
		log.WithError(err).Warnf("published but failed to remove intermediate JSON")
	}
	p.recordLedger(ctx, name, storage.StatusPublished, "")
	p.metrics.RecordIngestDocument(stagePublish, "success")
	log.WithField("categoria", categoria).Infof("document published")
}

func (p *PublishStage) recordLedger(ctx context.Context, name, status, detail string) {
	if err := p.ledger.Record(ctx, name, stagePublish, status, detail); err != nil {
		p.log.WithError(err).Warnf("failed to record ledger entry")
	}
}

// ParseSourceName derives the course and category from the upload naming
// convention DISCIPLINA-CATEGORIA-NOME.ext. Underscores in the category
// stand in for spaces. Names outside the convention fall back to
// "desconhecida"/"Outros".
func ParseSourceName(filename string) (disciplina, categoria string) {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	parts := strings.Split(base, "-")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "desconhecida", "Outros"
	}
	return parts[0], strings.ReplaceAll(parts[1], "_", " ")
}

package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/genai"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/storage"
)

type fakeSummarizer struct {
	summary *genai.Summary
	err     error
	calls   int
}

func (f *fakeSummarizer) Summarize(context.Context, string) (*genai.Summary, error) {
	f.calls++
	return f.summary, f.err
}

type fakeResolver struct {
	id  string
	err error
}

func (f *fakeResolver) ResolveCourseID(context.Context, string) (string, error) {
	return f.id, f.err
}

type fakeSaver struct {
	err  error
	docs []backend.KnowledgeDocument
}

func (f *fakeSaver) SaveKnowledge(_ context.Context, doc backend.KnowledgeDocument) error {
	if f.err != nil {
		return f.err
	}
	f.docs = append(f.docs, doc)
	return nil
}

func newLedger(t *testing.T) *storage.Ledger {
	t.Helper()
	l, err := storage.Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestParseSourceName(t *testing.T) {
	tests := []struct {
		filename   string
		disciplina string
		categoria  string
	}{
		{"REDES-prova-gabarito_np1.pdf", "REDES", "prova"},
		{"TCC-regras_gerais-edital.txt", "TCC", "regras gerais"},
		{"BancoDeDados-cronograma.txt", "BancoDeDados", "cronograma"},
		{"semconvencao.txt", "desconhecida", "Outros"},
		{"-categoria-x.txt", "desconhecida", "Outros"},
		{"", "desconhecida", "Outros"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			disciplina, categoria := ParseSourceName(tt.filename)
			assert.Equal(t, tt.disciplina, disciplina)
			assert.Equal(t, tt.categoria, categoria)
		})
	}
}

func TestSummarizeStageWritesIntermediate(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	path := filepath.Join(inputDir, "REDES-prova-conteudo.txt")
	require.NoError(t, os.WriteFile(path, []byte("material de prova"), 0o644))

	summarizer := &fakeSummarizer{summary: &genai.Summary{
		Resumo:        "Resumo do material.",
		PalavrasChave: []string{"redes", "prova"},
	}}
	stage := NewSummarizeStage(summarizer, inputDir, outputDir, 0, newLedger(t), logger.New("error"), nil)

	stage.Process(context.Background(), path)

	raw, err := os.ReadFile(filepath.Join(outputDir, "REDES-prova-conteudo.json"))
	require.NoError(t, err)

	var got Intermediate
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Resumo do material.", got.Resumo)
	assert.Equal(t, []string{"redes", "prova"}, got.PalavrasChave)
	assert.Equal(t, "REDES-prova-conteudo.txt", got.NomeArquivoOrigem)

	// The upload stays in place; the ledger prevents a second call.
	stage.Process(context.Background(), path)
	assert.Equal(t, 1, summarizer.calls)
}

func TestSummarizeStageFailsClosed(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()
	path := filepath.Join(inputDir, "REDES-prova-conteudo.txt")
	require.NoError(t, os.WriteFile(path, []byte("material"), 0o644))

	summarizer := &fakeSummarizer{err: genai.ErrInvalidSummary}
	ledger := newLedger(t)
	stage := NewSummarizeStage(summarizer, inputDir, outputDir, 0, ledger, logger.New("error"), nil)

	stage.Process(context.Background(), path)

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	status, err := ledger.Status(context.Background(), "REDES-prova-conteudo.txt", "summarize")
	require.NoError(t, err)
	assert.Equal(t, storage.StatusFailed, status)

	// A failed document is retried on the next scan.
	stage.Process(context.Background(), path)
	assert.Equal(t, 2, summarizer.calls)
}

func writeIntermediate(t *testing.T, dir, jsonName string, data Intermediate) string {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	path := filepath.Join(dir, jsonName)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestPublishStageDeletesOnSuccess(t *testing.T) {
	dir := t.TempDir()
	path := writeIntermediate(t, dir, "REDES-prova-conteudo.json", Intermediate{
		Resumo:            "Resumo.",
		PalavrasChave:     []string{"redes"},
		NomeArquivoOrigem: "REDES-prova_final-conteudo.txt",
	})

	saver := &fakeSaver{}
	stage := NewPublishStage(&fakeResolver{id: "42"}, saver, dir, 0, newLedger(t), logger.New("error"), nil)

	stage.Process(context.Background(), path)

	require.Len(t, saver.docs, 1)
	doc := saver.docs[0]
	assert.Equal(t, "REDES-prova_final-conteudo.txt", doc.NomeArquivoOrigem)
	assert.Equal(t, "Resumo.", doc.ConteudoProcessado)
	assert.Equal(t, "prova final", doc.Categoria)
	assert.Equal(t, "publicado", doc.Status)
	require.NotNil(t, doc.IDDisciplina)
	assert.Equal(t, "42", *doc.IDDisciplina)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPublishStageKeepsFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeIntermediate(t, dir, "doc.json", Intermediate{
		Resumo:            "Resumo.",
		NomeArquivoOrigem: "REDES-prova-doc.txt",
	})

	saver := &fakeSaver{err: errors.New("backend unreachable")}
	stage := NewPublishStage(&fakeResolver{id: "42"}, saver, dir, 0, newLedger(t), logger.New("error"), nil)

	stage.Process(context.Background(), path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestPublishStageUnresolvedCoursePostsNull(t *testing.T) {
	dir := t.TempDir()
	path := writeIntermediate(t, dir, "doc.json", Intermediate{
		Resumo:            "Resumo.",
		NomeArquivoOrigem: "Alquimia-apostila-doc.txt",
	})

	saver := &fakeSaver{}
	stage := NewPublishStage(&fakeResolver{err: errors.New("not found")}, saver, dir, 0, newLedger(t), logger.New("error"), nil)

	stage.Process(context.Background(), path)

	require.Len(t, saver.docs, 1)
	assert.Nil(t, saver.docs[0].IDDisciplina)
}

func TestPublishStageIgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nota.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	saver := &fakeSaver{}
	stage := NewPublishStage(&fakeResolver{}, saver, dir, 0, newLedger(t), logger.New("error"), nil)

	stage.Process(context.Background(), path)
	assert.Empty(t, saver.docs)
}

func TestWatchDirProcessesExistingFilesFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("2"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	var seen []string
	done := make(chan error, 1)
	go func() {
		done <- WatchDir(ctx, dir, 0, logger.New("error"), func(_ context.Context, path string) {
			seen = append(seen, filepath.Base(path))
			if len(seen) == 2 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not process existing files")
	}
	assert.ElementsMatch(t, []string{"a.txt", "b.txt"}, seen)
}

// Package genai provides the Gemini integration for the knowledge ingestion
// pipeline: one call that turns an uploaded document into a summary plus
// keywords.
package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// ErrInvalidSummary indicates the model answered with something that is not
// the requested JSON object. The document is left unprocessed.
var ErrInvalidSummary = errors.New("model returned invalid summary JSON")

// Summary is the structured result of one summarization call.
type Summary struct {
	Resumo        string   `json:"resumo"`
	PalavrasChave []string `json:"palavras_chave"`
}

// Summarizer produces document summaries through the Gemini API.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a Gemini-backed summarizer.
func NewSummarizer(ctx context.Context, apiKey, model string) (*Summarizer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Summarizer{client: client, model: model}, nil
}

// Summarize sends content to the model and parses the JSON it returns.
// Fails closed: an unparsable answer is an error, never a partial summary.
func (s *Summarizer) Summarize(ctx context.Context, content string) (*Summary, error) {
	prompt := summaryPrompt(content)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response", ErrInvalidSummary)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}

	return ParseSummary(text.String())
}

// ParseSummary decodes the model's answer, tolerating the markdown code
// fences Gemini wraps JSON in despite instructions.
func ParseSummary(raw string) (*Summary, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var summary Summary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSummary, firstLine(cleaned))
	}
	if summary.Resumo == "" {
		return nil, fmt.Errorf("%w: missing resumo", ErrInvalidSummary)
	}
	return &summary, nil
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(`Sua tarefa é ler o texto a seguir e retornar as seguintes informações em formato JSON:
1. Um resumo conciso do conteúdo principal (chave: "resumo").
2. Uma lista de 5 a 7 palavras-chave ou termos técnicos importantes (chave: "palavras_chave").

Texto para análise:
---
%s
---

Retorne APENAS o objeto JSON, sem nenhum texto ou marcadores de código.`, content)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 120
	if len(s) > max {
		s = s[:max]
	}
	return s
}

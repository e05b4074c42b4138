// Package topics tags student questions for later curricular analysis.
package topics

import (
	"context"

	"github.com/unichat-bot/unichat-actions-go/internal/textnorm"
)

// KnowledgeProber is the single backend call the extractor needs.
type KnowledgeProber interface {
	SearchKnowledge(ctx context.Context, query string) ([]string, error)
}

// keywordTags maps normalized keywords to topic tags. Keys are matched as
// substrings of the normalized question, so "professora" also hits
// "professor".
var keywordTags = []struct {
	keyword string
	tag     string
}{
	{"tcc", "TCC"},
	{"docente", "Docente"},
	{"professor", "Docente"},
	{"coordenador", "Docente"},
	{"disciplina", "Disciplina"},
	{"materia", "Disciplina"},
	{"prova", "Avaliacao"},
	{"avaliacao", "Avaliacao"},
	{"nota", "Avaliacao"},
	{"cronograma", "Cronograma"},
	{"horario", "Cronograma"},
	{"aviso", "Aviso"},
	{"estagio", "Estagio"},
	{"aps", "APS"},
	{"matricula", "Matricula"},
}

// Extractor classifies free-text questions into topic tags. A question can
// carry several tags; one with none falls back to a knowledge-base probe and
// finally to "Geral".
type Extractor struct {
	prober KnowledgeProber
}

// New creates an extractor backed by prober. A nil prober skips the
// knowledge-base fallback.
func New(prober KnowledgeProber) *Extractor {
	return &Extractor{prober: prober}
}

// Extract returns the topic tags for question, never empty. The probe is
// best effort: any probe failure degrades to the "Geral" tag rather than
// failing the caller, which persists questions on a fire-and-forget path.
func (e *Extractor) Extract(ctx context.Context, question string) []string {
	normalized := textnorm.Normalize(question)

	var tags []string
	seen := make(map[string]bool)
	for _, entry := range keywordTags {
		if seen[entry.tag] {
			continue
		}
		if containsWord(normalized, entry.keyword) {
			seen[entry.tag] = true
			tags = append(tags, entry.tag)
		}
	}
	if len(tags) > 0 {
		return tags
	}

	if e.prober != nil {
		if snippets, err := e.prober.SearchKnowledge(ctx, question); err == nil && len(snippets) > 0 {
			return []string{"Conteudo"}
		}
	}
	return []string{"Geral"}
}

// containsWord reports whether keyword occurs in text on token boundaries.
// Substring matching inside a token is allowed only as a prefix, so
// "professores" hits "professor" but "aprovado" does not hit "prova".
func containsWord(text, keyword string) bool {
	for _, token := range textnorm.Tokens(text, 0) {
		if token == keyword {
			return true
		}
		if len(token) > len(keyword) && token[:len(keyword)] == keyword {
			return true
		}
	}
	return false
}

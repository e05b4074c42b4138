package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

const maxSnippets = 3

func (r *Registry) buscarInfoAtividade(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	atividade := tr.EntityOrSlot("atividade_academica")
	if atividade == "" {
		d.Utter("Sobre qual atividade acadêmica você quer informações (TCC, APS, Estágio...)?")
		return outcomeMissingSlot
	}
	d.Utter(fmt.Sprintf("Buscando informações sobre '%s'...", atividade))

	snippets, err := r.backend.SearchKnowledge(ctx, atividade)
	if err != nil {
		d.Utter(r.classify("action_buscar_info_atividade_academica", "buscar base de conhecimento", err,
			fmt.Sprintf("Não encontrei informações sobre '%s'.", atividade)))
		if isNotFound(err) {
			return outcomeNotFound
		}
		return outcomeError
	}
	if len(snippets) == 0 {
		d.Utter(fmt.Sprintf("Não encontrei informações sobre '%s'.", atividade))
		return outcomeSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontrei isto sobre '%s':\n", atividade)
	for _, snippet := range snippets[:min(len(snippets), maxSnippets)] {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(snippet))
	}
	d.Utter(strings.TrimRight(b.String(), "\n"))
	return outcomeSuccess
}

func (r *Registry) buscarMaterial(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	termo := tr.EntityOrSlot("material")
	if termo == "" {
		termo = tr.EntityOrSlot("atividade_academica")
	}
	if termo == "" {
		d.Utter("Qual material você está procurando?")
		return outcomeMissingSlot
	}
	d.Utter(fmt.Sprintf("Procurando o material sobre '%s'...", termo))

	url, err := r.backend.DocumentURL(ctx, termo)
	if err != nil {
		if isNotFound(err) {
			d.Utter(fmt.Sprintf("Não encontrei nenhum material sobre '%s'.", termo))
			return outcomeNotFound
		}
		d.Utter(r.classify("action_buscar_material", "buscar material", err, ""))
		return outcomeError
	}
	if url == "" {
		d.Utter(fmt.Sprintf("Não encontrei nenhum material sobre '%s'.", termo))
		return outcomeSuccess
	}

	d.Utter(fmt.Sprintf("Encontrei este material sobre '%s': %s", termo, url))
	return outcomeSuccess
}

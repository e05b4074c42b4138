package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

const maxAnnouncements = 3

func (r *Registry) buscarUltimosAvisos(ctx context.Context, _ *rasa.Tracker, d *rasa.Dispatcher) string {
	d.Utter("Ok, estou buscando os últimos avisos para você...")

	avisos, err := r.backend.ListAnnouncements(ctx)
	if err != nil {
		d.Utter(r.classify("action_buscar_ultimos_avisos", "listar avisos", err,
			"Não encontrei nenhum aviso recente."))
		return outcomeError
	}
	if len(avisos) == 0 {
		d.Utter("Não encontrei nenhum aviso recente.")
		return outcomeSuccess
	}

	var b strings.Builder
	b.WriteString("Encontrei os seguintes avisos:\n")
	for _, aviso := range avisos[:min(len(avisos), maxAnnouncements)] {
		titulo := aviso.Titulo
		if titulo == "" {
			titulo = "Sem Título"
		}
		conteudo := aviso.Conteudo
		if conteudo == "" {
			conteudo = "Sem Conteúdo"
		}
		fmt.Fprintf(&b, "- Título: %s\n  Conteúdo: %s\n\n", titulo, conteudo)
	}
	if extra := len(avisos) - maxAnnouncements; extra > 0 {
		fmt.Fprintf(&b, "Há mais %d avisos no mural.", extra)
	}
	d.Utter(strings.TrimRight(b.String(), "\n"))
	return outcomeSuccess
}

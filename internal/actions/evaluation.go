package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

const maxEvaluations = 5

func (r *Registry) buscarDataAvaliacao(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	termo := tr.EntityOrSlot("tipo_avaliacao")
	if termo == "" {
		termo = tr.EntityOrSlot("prazo_tipo")
	}
	nome := tr.EntityOrSlot("disciplina")

	if termo == "" {
		d.Utter("Qual prazo ou prova você quer saber a data? (Ex: NP1, APS, TCC...)")
		return outcomeMissingSlot
	}
	if nome == "" {
		d.Utter(fmt.Sprintf("Certo. E para qual disciplina é o prazo de '%s'?", termo))
		return outcomeMissingSlot
	}
	d.Utter(fmt.Sprintf("Buscando a data de '%s' para '%s'...", termo, nome))

	id, err := r.resolver.ResolveCourseID(ctx, nome)
	if err != nil {
		if isNotFound(err) {
			d.Utter(fmt.Sprintf("Não consegui encontrar a disciplina '%s'. Verifique se o nome está correto.", nome))
			return outcomeNotFound
		}
		d.Utter(r.classify("action_buscar_data_avaliacao", "resolver disciplina", err, ""))
		return outcomeError
	}
	d.AddEvent(rasa.SlotSet("disciplina_id", id))

	avaliacoes, err := r.backend.EvaluationsByCourse(ctx, id)
	if err != nil {
		d.Utter(r.classify("action_buscar_data_avaliacao", "buscar avaliacoes", err,
			fmt.Sprintf("Ainda não há avaliações cadastradas para '%s'.", nome)))
		if isNotFound(err) {
			return outcomeNotFound
		}
		return outcomeError
	}
	if len(avaliacoes) == 0 {
		d.Utter(fmt.Sprintf("Ainda não há avaliações cadastradas para '%s'.", nome))
		return outcomeSuccess
	}

	var filtradas []struct{ tipo, data string }
	for _, aval := range avaliacoes {
		if strings.EqualFold(aval.TipoAvaliacao, termo) {
			filtradas = append(filtradas, struct{ tipo, data string }{aval.TipoAvaliacao, aval.DataProva})
		}
	}
	if len(filtradas) == 0 {
		d.Utter(fmt.Sprintf("Não encontrei a data para '%s' de '%s'.", termo, nome))
		return outcomeSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontrei estas datas para '%s' de '%s':\n", termo, nome)
	for _, item := range filtradas[:min(len(filtradas), maxEvaluations)] {
		fmt.Fprintf(&b, "- %s: %s\n", item.tipo, formatDate(item.data))
	}
	if extra := len(filtradas) - maxEvaluations; extra > 0 {
		fmt.Fprintf(&b, "E mais %d datas cadastradas.\n", extra)
	}
	d.Utter(strings.TrimRight(b.String(), "\n"))
	return outcomeSuccess
}

// formatDate renders a backend date as dd/mm/yyyy. Dates arrive as plain
// ISO days or full timestamps depending on the backend build; anything else
// is echoed untouched.
func formatDate(s string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return s
}

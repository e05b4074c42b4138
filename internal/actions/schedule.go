package actions

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

const maxScheduleEntries = 5

func (r *Registry) buscarCronograma(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	nome := tr.EntityOrSlot("disciplina")
	if nome == "" {
		d.Utter("Para qual disciplina você gostaria de ver o cronograma?")
		return outcomeMissingSlot
	}
	d.Utter(fmt.Sprintf("Ok, buscando o cronograma para '%s'...", nome))

	id, err := r.resolver.ResolveCourseID(ctx, nome)
	if err != nil {
		if isNotFound(err) {
			d.Utter(fmt.Sprintf("Não consegui encontrar a disciplina '%s'. Verifique se o nome está correto.", nome))
			return outcomeNotFound
		}
		d.Utter(r.classify("action_buscar_cronograma", "resolver disciplina", err, ""))
		return outcomeError
	}
	d.AddEvent(rasa.SlotSet("disciplina_id", id))

	entries, err := r.backend.ScheduleByCourse(ctx, id)
	if err != nil {
		d.Utter(r.classify("action_buscar_cronograma", "buscar cronograma", err,
			fmt.Sprintf("Não encontrei cronograma para '%s'.", nome)))
		if isNotFound(err) {
			return outcomeNotFound
		}
		return outcomeError
	}
	if len(entries) == 0 {
		d.Utter(fmt.Sprintf("Não encontrei um cronograma para a disciplina '%s'.", nome))
		return outcomeSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Aqui está o cronograma para '%s':\n", nome)
	for _, entry := range entries[:min(len(entries), maxScheduleEntries)] {
		dia := entry.DiaSemana
		if dia == "" {
			dia = "Dia não informado"
		}
		inicio, okInicio := formatClock(entry.HoraInicio)
		fim, okFim := formatClock(entry.HoraFim)
		if okInicio && okFim {
			fmt.Fprintf(&b, "- %s: das %s às %s\n", dia, inicio, fim)
		} else {
			fmt.Fprintf(&b, "- %s: %s às %s\n", dia, entry.HoraInicio, entry.HoraFim)
		}
	}
	if extra := len(entries) - maxScheduleEntries; extra > 0 {
		fmt.Fprintf(&b, "E mais %d horários cadastrados.\n", extra)
	}
	d.Utter(strings.TrimRight(b.String(), "\n"))
	return outcomeSuccess
}

// formatClock renders an HH:MM:SS backend time as HH:MM. Unparsable values
// report false and the caller echoes them untouched.
func formatClock(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return s, false
	}
	return t.Format("15:04"), true
}

package actions

import (
	"context"
	"strings"

	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

func (r *Registry) gerarRespostaComIA(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	pergunta := strings.TrimSpace(tr.LatestMessage.Text)
	if pergunta == "" {
		d.Utter("Não entendi sua pergunta. Pode reformular?")
		return outcomeMissingSlot
	}
	d.Utter("Ok, estou consultando nossos materiais para te dar uma resposta...")

	resposta, err := r.backend.GenerateAnswer(ctx, pergunta)
	if err != nil {
		d.Utter(r.classify("action_gerar_resposta_com_ia", "gerar resposta", err,
			"Não encontrei nenhuma informação sobre isso nos materiais cadastrados."))
		if isNotFound(err) {
			return outcomeNotFound
		}
		return outcomeError
	}
	if strings.TrimSpace(resposta) == "" {
		d.Utter("Não consegui formular uma resposta com base nos materiais.")
		return outcomeSuccess
	}

	d.Utter(resposta)
	return outcomeSuccess
}

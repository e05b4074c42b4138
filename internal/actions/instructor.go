package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
	"github.com/unichat-bot/unichat-actions-go/internal/textnorm"
)

func (r *Registry) buscarInfoDocente(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string {
	nome := tr.EntityOrSlot("nome_docente")
	if nome == "" {
		d.Utter("Sobre qual professor ou professora você quer informações?")
		return outcomeMissingSlot
	}
	info := tr.EntityOrSlot("info_docente")
	d.Utter(fmt.Sprintf("Buscando informações sobre '%s'...", nome))

	docentes, err := r.backend.ListInstructors(ctx)
	if err != nil {
		d.Utter(r.classify("action_buscar_info_docente", "listar docentes", err, ""))
		return outcomeError
	}
	if len(docentes) == 0 {
		d.Utter("Não consegui carregar a lista de docentes do sistema.")
		return outcomeError
	}

	docente := findInstructor(docentes, nome)
	if docente == nil {
		d.Utter(fmt.Sprintf("Não encontrei informações para '%s'.", nome))
		return outcomeNotFound
	}

	d.Utter(instructorReply(docente, nome, info))
	return outcomeSuccess
}

// findInstructor matches first on normalized name equality, then on
// normalized substring in either direction, so "professor silva" finds
// "Prof. Dr. João Silva" and vice versa.
func findInstructor(docentes []backend.PersonRecord, nome string) *backend.PersonRecord {
	query := textnorm.Normalize(nome)
	for i := range docentes {
		if textnorm.Normalize(docentes[i].FullName) == query {
			return &docentes[i]
		}
	}
	for i := range docentes {
		candidate := textnorm.Normalize(docentes[i].FullName)
		if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
			return &docentes[i]
		}
	}
	return nil
}

func instructorReply(docente *backend.PersonRecord, nome, info string) string {
	email := valueOr(docente.Email, "Não informado")
	sala := valueOr(docente.Sala, "Não informada")
	atendimento := valueOr(docente.OfficeHours, "Não informado")

	switch textnorm.Normalize(info) {
	case "email", "e-mail":
		return fmt.Sprintf("O email de '%s' é: %s", nome, email)
	case "sala":
		return fmt.Sprintf("A sala de '%s' é: %s", nome, sala)
	case "horario de atendimento", "atendimento", "horario", "contato":
		return fmt.Sprintf("O horário de atendimento de '%s' é: %s", nome, atendimento)
	default:
		return fmt.Sprintf("Informações de '%s':\n- Email: %s\n- Sala: %s\n- Atendimento: %s",
			nome, email, sala, atendimento)
	}
}

func valueOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

package rasa

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookRequestDecode(t *testing.T) {
	raw := `{
		"next_action": "action_buscar_cronograma",
		"sender_id": "aluno-42",
		"version": "3.6.0",
		"tracker": {
			"sender_id": "aluno-42",
			"slots": {"disciplina": "Banco de Dados", "requested_slot": null},
			"latest_message": {
				"text": "qual o horário de banco de dados?",
				"intent": {"name": "buscar_cronograma", "confidence": 0.97},
				"entities": [{"entity": "disciplina", "value": "banco de dados"}]
			}
		}
	}`

	var req WebhookRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	assert.Equal(t, "action_buscar_cronograma", req.NextAction)
	assert.Equal(t, "banco de dados", req.Tracker.EntityValue("disciplina"))
	assert.Equal(t, "Banco de Dados", req.Tracker.SlotString("disciplina"))
	assert.Equal(t, "buscar_cronograma", req.Tracker.LatestMessage.Intent.Name)
}

func TestEntityOrSlotPrefersEntity(t *testing.T) {
	tr := Tracker{
		Slots: map[string]any{"disciplina": "Redes"},
		LatestMessage: LatestMessage{
			Entities: []Entity{{Entity: "disciplina", Value: "Compiladores"}},
		},
	}
	assert.Equal(t, "Compiladores", tr.EntityOrSlot("disciplina"))

	tr.LatestMessage.Entities = nil
	assert.Equal(t, "Redes", tr.EntityOrSlot("disciplina"))

	assert.Equal(t, "", tr.EntityOrSlot("nome_docente"))
}

func TestSlotStringIgnoresNonString(t *testing.T) {
	tr := Tracker{Slots: map[string]any{"tentativas": 3.0}}
	assert.Equal(t, "", tr.SlotString("tentativas"))
}

func TestDispatcherOrderPreserved(t *testing.T) {
	d := NewDispatcher()
	d.Utter("primeira")
	d.AddEvent(SlotSet("disciplina_id", "12"))
	d.Utter("segunda")

	resp := d.Response()
	require.Len(t, resp.Responses, 2)
	assert.Equal(t, "primeira", resp.Responses[0].Text)
	assert.Equal(t, "segunda", resp.Responses[1].Text)

	require.Len(t, resp.Events, 1)
	assert.Equal(t, "slot", resp.Events[0].Event)
	assert.Equal(t, "disciplina_id", resp.Events[0].Name)
	assert.JSONEq(t, `"12"`, string(resp.Events[0].Value))
}

func TestEmptyResponseMarshalsArrays(t *testing.T) {
	raw, err := json.Marshal(NewDispatcher().Response())
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[],"responses":[]}`, string(raw))
}

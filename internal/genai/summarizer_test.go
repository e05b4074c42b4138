package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSummary(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    *Summary
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"resumo": "Regras do TCC.", "palavras_chave": ["tcc", "monografia"]}`,
			want: &Summary{Resumo: "Regras do TCC.", PalavrasChave: []string{"tcc", "monografia"}},
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"resumo\": \"Cronograma de provas.\", \"palavras_chave\": [\"np1\"]}\n```",
			want: &Summary{Resumo: "Cronograma de provas.", PalavrasChave: []string{"np1"}},
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"resumo\": \"Edital.\", \"palavras_chave\": []}\n```",
			want: &Summary{Resumo: "Edital.", PalavrasChave: []string{}},
		},
		{
			name:    "prose instead of json",
			raw:     "Claro! Aqui está o resumo do documento...",
			wantErr: true,
		},
		{
			name:    "missing resumo",
			raw:     `{"palavras_chave": ["a"]}`,
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSummary(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidSummary)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

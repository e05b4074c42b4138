package textnorm

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", ""},
		{"Already normalized", "sistemas distribuidos", "sistemas distribuidos"},
		{"Accents stripped", "Sistemas Distribuídos", "sistemas distribuidos"},
		{"Cedilla and tilde", "Computação Gráfica", "computacao grafica"},
		{"Whitespace collapsed", "  Engenharia   de  Software ", "engenharia de software"},
		{"Tabs and newlines", "Banco\tde\nDados", "banco de dados"},
		{"Uppercase accents", "CÁLCULO NUMÉRICO", "calculo numerico"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Sistemas Distribuídos",
		"  Programação   Orientada a Objetos  ",
		"TCC",
		"",
		"Ética e Cidadania",
	}
	for _, s := range inputs {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestCollapseSpace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Keeps accents", " Sistemas  Distribuídos ", "Sistemas Distribuídos"},
		{"Keeps case", "Banco de Dados", "Banco de Dados"},
		{"Empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollapseSpace(tt.input); got != tt.want {
				t.Errorf("CollapseSpace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Desenvolvimento de Sistemas Distribuídos", 2)
	want := []string{"desenvolvimento", "sistemas", "distribuidos"}
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

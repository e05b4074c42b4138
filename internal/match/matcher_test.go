package match

import "testing"

var catalog = []Candidate{
	{ID: "d1", Name: "Desenvolvimento de Sistemas Distribuídos"},
	{ID: "d2", Name: "Banco de Dados"},
	{ID: "d3", Name: "Programação Orientada a Objetos"},
	{ID: "d4", Name: "Cálculo Numérico"},
}

func TestMatchTiers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantID    string
		wantScore int
	}{
		{"Exact after normalization", "banco de dados", "d2", ScoreExact},
		{"Exact with accents typed differently", "cálculo numerico", "d4", ScoreExact},
		{"Query is substring of candidate", "Sistemas Distribuídos", "d1", ScoreQuerySub},
		{"Candidate is substring of query", "quero a ementa de banco de dados por favor", "d2", ScoreCandidateSub},
		{"All tokens scattered", "distribuidos desenvolvimento", "d1", ScoreAllTokens + 2*ScoreTokenBonus},
		{"Partial token overlap", "programação funcional", "d3", ScoreSomeTokens + ScoreTokenBonus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.query, catalog)
			if got == nil {
				t.Fatalf("Match(%q) = nil, want %s with score %d", tt.query, tt.wantID, tt.wantScore)
			}
			if got.Candidate.ID != tt.wantID {
				t.Errorf("Match(%q) candidate = %s, want %s", tt.query, got.Candidate.ID, tt.wantID)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Match(%q) score = %d, want %d", tt.query, got.Score, tt.wantScore)
			}
		})
	}
}

func TestMatchNoOverlap(t *testing.T) {
	if got := Match("xyz123", catalog); got != nil {
		t.Errorf("Match(%q) = %+v, want nil", "xyz123", got)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if got := Match("", catalog); got != nil {
		t.Errorf("Match of empty query = %+v, want nil", got)
	}
	if got := Match("   ", catalog); got != nil {
		t.Errorf("Match of blank query = %+v, want nil", got)
	}
	if got := Match("banco de dados", nil); got != nil {
		t.Errorf("Match against empty catalog = %+v, want nil", got)
	}
}

func TestMatchTieKeepsCatalogOrder(t *testing.T) {
	dup := []Candidate{
		{ID: "a", Name: "Estágio Supervisionado"},
		{ID: "b", Name: "Estágio Supervisionado"},
	}
	got := Match("Estágio Supervisionado", dup)
	if got == nil || got.Candidate.ID != "a" {
		t.Fatalf("tie-break should keep first candidate, got %+v", got)
	}
}

func TestMatchDeterministic(t *testing.T) {
	first := Match("sistemas distribuidos", catalog)
	for range 10 {
		again := Match("sistemas distribuidos", catalog)
		if again == nil || first == nil || again.Score != first.Score || again.Candidate.ID != first.Candidate.ID {
			t.Fatalf("Match not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestScoreCandidateBelowFloorExcluded(t *testing.T) {
	// A candidate scoring 0 must never beat absence of a match.
	got := Match("tcc", []Candidate{{ID: "d2", Name: "Banco de Dados"}})
	if got != nil {
		t.Errorf("expected no match, got %+v", got)
	}
}

package backend

import "testing"

func TestProfessorProjection(t *testing.T) {
	row := professorRow{
		NomeProfessor:      "Carlos Andrade",
		EmailInstitucional: "carlos@uni.edu.br",
		Sala:               "B204",
		HorarioAtendimento: "Terças 14h-16h",
	}
	got := row.project()
	if got.FullName != "Carlos Andrade" || got.Role != RoleProfessor {
		t.Errorf("project() = %+v", got)
	}
	if got.Email != "carlos@uni.edu.br" || got.Sala != "B204" || got.OfficeHours != "Terças 14h-16h" {
		t.Errorf("project() lost fields: %+v", got)
	}
}

func TestCoordinatorProjection(t *testing.T) {
	row := coordinatorRow{NomeCoordenador: "Maria Silva", EmailInstitucional: "maria@uni.edu.br"}
	got := row.project()
	if got.FullName != "Maria Silva" || got.Role != RoleCoordenador {
		t.Errorf("project() = %+v", got)
	}
}

func TestComposeName(t *testing.T) {
	tests := []struct {
		name   string
		full   string
		given  string
		family string
		want   string
	}{
		{"Full name wins", "Ana Souza", "Ana", "Pereira", "Ana Souza"},
		{"Composed from parts", "", "Ana", "Pereira", "Ana Pereira"},
		{"Given only", "", "Ana", "", "Ana"},
		{"Family only", "", "", "Pereira", "Pereira"},
		{"All absent", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composeName(tt.full, tt.given, tt.family); got != tt.want {
				t.Errorf("composeName() = %q, want %q", got, tt.want)
			}
		})
	}
}

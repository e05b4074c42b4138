package backend

import "strings"

// The professor and coordinator collections describe the same concept with
// different field names. Each row type carries its own projection to the
// normalized PersonRecord instead of or-chained field access at call sites.

// RolePerson values.
const (
	RoleProfessor   = "professor"
	RoleCoordenador = "coordenador"
)

// PersonRecord is the normalized read-only projection of an instructor or
// coordinator row.
type PersonRecord struct {
	FullName    string
	Email       string
	Sala        string
	OfficeHours string
	Role        string
}

// professorRow mirrors one element of /professores/lista_professores/.
// Some backend builds ship a single nome_professor, others split into
// primeiro_nome/sobrenome; full name may be absent entirely.
type professorRow struct {
	NomeProfessor      string `json:"nome_professor"`
	PrimeiroNome       string `json:"primeiro_nome"`
	Sobrenome          string `json:"sobrenome"`
	EmailInstitucional string `json:"email_institucional"`
	Sala               string `json:"sala"`
	HorarioAtendimento string `json:"horario_atendimento"`
}

func (r professorRow) project() PersonRecord {
	return PersonRecord{
		FullName:    composeName(r.NomeProfessor, r.PrimeiroNome, r.Sobrenome),
		Email:       r.EmailInstitucional,
		Sala:        r.Sala,
		OfficeHours: r.HorarioAtendimento,
		Role:        RoleProfessor,
	}
}

// coordinatorRow mirrors one element of /coordenador/get_list_coordenador/.
type coordinatorRow struct {
	NomeCoordenador    string `json:"nome_coordenador"`
	PrimeiroNome       string `json:"primeiro_nome"`
	Sobrenome          string `json:"sobrenome"`
	EmailInstitucional string `json:"email_institucional"`
	Sala               string `json:"sala"`
	HorarioAtendimento string `json:"horario_atendimento"`
}

func (r coordinatorRow) project() PersonRecord {
	return PersonRecord{
		FullName:    composeName(r.NomeCoordenador, r.PrimeiroNome, r.Sobrenome),
		Email:       r.EmailInstitucional,
		Sala:        r.Sala,
		OfficeHours: r.HorarioAtendimento,
		Role:        RoleCoordenador,
	}
}

// composeName prefers the single full-name field, falling back to joining
// the given and family names. May return empty when all fields are absent.
func composeName(full, given, family string) string {
	if full != "" {
		return full
	}
	return strings.TrimSpace(strings.Join(strings.Fields(given+" "+family), " "))
}

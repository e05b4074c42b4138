package backend

// Wire types for the academic REST API. JSON field names follow the backend
// contract and are not translated.

// Announcement is one entry from /aviso/get_lista_aviso/.
type Announcement struct {
	Titulo   string `json:"titulo"`
	Conteudo string `json:"conteudo"`
}

// Course is one catalog entry from /disciplinas/lista_disciplina/.
// Sourced from the backend, immutable per fetch.
type Course struct {
	ID   string `json:"id_disciplina"`
	Nome string `json:"nome_disciplina"`
}

// ScheduleEntry is one row from /cronograma/disciplina/{id}.
type ScheduleEntry struct {
	DiaSemana  string `json:"dia_semana"`
	HoraInicio string `json:"hora_inicio"`
	HoraFim    string `json:"hora_fim"`
}

// Evaluation is one row from /avaliacao/disciplina/{id}.
type Evaluation struct {
	TipoAvaliacao string `json:"tipo_avaliacao"`
	DataProva     string `json:"data_prova"`
}

// StudentQuestion is the payload for POST /mensagens_aluno/.
type StudentQuestion struct {
	PrimeiraPergunta string `json:"primeira_pergunta"`
	Topico           string `json:"topico"`
	Feedback         string `json:"feedback"`
	DataHora         string `json:"data_hora"`
}

// KnowledgeDocument is the payload for POST /baseconhecimento/ (ingestion).
type KnowledgeDocument struct {
	NomeArquivoOrigem  string   `json:"nome_arquivo_origem"`
	ConteudoProcessado string   `json:"conteudo_processado"`
	PalavrasChave      []string `json:"palavras_chave"`
	Categoria          string   `json:"categoria"`
	Status             string   `json:"status"`
	IDDisciplina       *string  `json:"id_disciplina"`
}

package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, 3*time.Second, logger.NewWithWriter("error", io.Discard), nil)
}

func TestListAnnouncements(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aviso/get_lista_aviso/", r.URL.Path)
		_, _ = w.Write([]byte(`[{"titulo":"A","conteudo":"x"},{"titulo":"B","conteudo":"y"}]`))
	}))

	got, err := c.ListAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Titulo)
}

func TestListCoursesStatusError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListCourses(context.Background())
	require.Error(t, err)

	var status *domerrors.StatusError
	require.True(t, errors.As(err, &status))
	assert.Equal(t, 500, status.StatusCode)
	assert.Equal(t, domerrors.KindInternal, domerrors.ClassifyKind(err))
}

func TestTimeoutClassifiesAsTransport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	c := NewClient(server.URL, 50*time.Millisecond, 50*time.Millisecond, logger.NewWithWriter("error", io.Discard), nil)
	_, err := c.ListAnnouncements(context.Background())
	require.Error(t, err)
	assert.Equal(t, domerrors.KindTimeout, domerrors.ClassifyKind(err))
}

func TestConnectionRefused(t *testing.T) {
	// Port reserved then closed: connection refused, not timeout.
	c := NewClient("http://127.0.0.1:1", 2*time.Second, 2*time.Second, logger.NewWithWriter("error", io.Discard), nil)
	_, err := c.ListAnnouncements(context.Background())
	require.Error(t, err)
	assert.Equal(t, domerrors.KindConnection, domerrors.ClassifyKind(err))
}

func TestScheduleByNameEscapesPath(t *testing.T) {
	var gotPath atomic.Value
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.EscapedPath())
		_, _ = w.Write([]byte(`[{"id_disciplina":"d7"}]`))
	}))

	rows, err := c.ScheduleByName(context.Background(), "Sistemas Distribuídos")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, gotPath.Load().(string), "/disciplinas/get_diciplina_nome/")
	assert.Contains(t, gotPath.Load().(string), "%20")
}

func TestSearchKnowledgeUnwrapsContextos(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tcc", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"contextos":["prazo do TCC é junho","banca em julho"]}`))
	}))

	got, err := c.SearchKnowledge(context.Background(), "tcc")
	require.NoError(t, err)
	assert.Equal(t, []string{"prazo do TCC é junho", "banca em julho"}, got)
}

func TestGenerateAnswer(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ia/gerar-resposta", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"pergunta"`)
		_, _ = w.Write([]byte(`{"resposta":"O prazo é junho."}`))
	}))

	got, err := c.GenerateAnswer(context.Background(), "Qual o prazo do TCC?")
	require.NoError(t, err)
	assert.Equal(t, "O prazo é junho.", got)
}

func TestGenerateAnswerInvalidShape(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sem_resposta":true}`))
	}))

	_, err := c.GenerateAnswer(context.Background(), "pergunta")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domerrors.ErrInvalidResponse))
}

func TestListInstructorsMergesCollections(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/professores/lista_professores/":
			_, _ = w.Write([]byte(`[{"nome_professor":"Carlos Andrade","email_institucional":"carlos@uni.edu.br"}]`))
		case "/coordenador/get_list_coordenador/":
			_, _ = w.Write([]byte(`[{"nome_coordenador":"Maria Silva","email_institucional":"maria@uni.edu.br"}]`))
		default:
			http.NotFound(w, r)
		}
	}))

	got, err := c.ListInstructors(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, RoleProfessor, got[0].Role)
	assert.Equal(t, RoleCoordenador, got[1].Role)
}

func TestListInstructorsPartialFailure(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/professores/lista_professores/" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"nome_coordenador":"Maria Silva"}]`))
	}))

	got, err := c.ListInstructors(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Maria Silva", got[0].FullName)
}

func TestSaveStudentQuestion(t *testing.T) {
	var called atomic.Bool
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
		assert.Equal(t, "/mensagens_aluno/", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"primeira_pergunta"`)
		w.WriteHeader(http.StatusCreated)
	}))

	err := c.SaveStudentQuestion(context.Background(), StudentQuestion{
		PrimeiraPergunta: "Quando é a prova?",
		Topico:           "Prova",
		DataHora:         "2026-08-31T10:00:00Z",
	})
	require.NoError(t, err)
	assert.True(t, called.Load())
}

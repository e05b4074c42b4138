// Package backend provides the typed client for the academic REST API,
// response shape validation and the person record projection. All calls are
// synchronous with explicit timeouts; failures classify into transport,
// status and shape errors and are never retried here.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Client is the HTTP client for the academic API.
type Client struct {
	read     *resty.Client // read endpoints, short timeout
	generate *resty.Client // generative answer endpoint, long timeout
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// NewClient creates a backend client. readTimeout applies to every endpoint
// except the generative answer call, which uses generateTimeout.
func NewClient(baseURL string, readTimeout, generateTimeout time.Duration, log *logger.Logger, m *metrics.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		read:     resty.New().SetBaseURL(baseURL).SetTimeout(readTimeout),
		generate: resty.New().SetBaseURL(baseURL).SetTimeout(generateTimeout),
		log:      log,
		metrics:  m,
	}
}

// get performs a GET and returns the raw body, mapping failures to the
// domain error types.
func (c *Client) get(ctx context.Context, endpoint, path string, configure func(*resty.Request)) ([]byte, error) {
	start := time.Now()
	req := c.read.R().SetContext(ctx)
	if configure != nil {
		configure(req)
	}
	resp, err := req.Get(path)
	body, callErr := c.finish(endpoint, path, resp, err, start)
	return body, callErr
}

// post performs a POST with a JSON body on the given resty client.
func (c *Client) post(ctx context.Context, client *resty.Client, endpoint, path string, payload any) ([]byte, error) {
	start := time.Now()
	resp, err := client.R().SetContext(ctx).SetBody(payload).Post(path)
	return c.finish(endpoint, path, resp, err, start)
}

// finish maps the resty outcome to domain errors and records metrics.
func (c *Client) finish(endpoint, path string, resp *resty.Response, err error, start time.Time) ([]byte, error) {
	duration := time.Since(start).Seconds()
	if err != nil {
		timeout := errors.Is(err, context.DeadlineExceeded)
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			timeout = true
		}
		status := "error"
		if timeout {
			status = "timeout"
		}
		c.metrics.RecordBackendRequest(endpoint, status, duration)
		return nil, domerrors.NewTransportError(path, timeout, err)
	}
	if resp.IsError() {
		status := "error"
		if resp.StatusCode() == http.StatusNotFound {
			status = "not_found"
		}
		c.metrics.RecordBackendRequest(endpoint, status, duration)
		return nil, domerrors.NewStatusError(path, resp.StatusCode())
	}
	c.metrics.RecordBackendRequest(endpoint, "success", duration)
	return resp.Body(), nil
}

// ListAnnouncements fetches the current announcements.
func (c *Client) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	body, err := c.get(ctx, "lista_aviso", "/aviso/get_lista_aviso/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Announcement](body, c.log), nil
}

// ListCourses fetches the full course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]Course, error) {
	body, err := c.get(ctx, "lista_disciplina", "/disciplinas/lista_disciplina/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Course](body, c.log), nil
}

// ScheduleByName queries the schedule-by-name fallback endpoint with the raw
// (URL-encoded) course name. Rows are returned undecoded: the endpoint's row
// shape varies between backend builds and callers only need the id field.
func (c *Client) ScheduleByName(ctx context.Context, name string) ([]map[string]any, error) {
	body, err := c.get(ctx, "cronograma_por_nome", "/disciplinas/get_diciplina_nome/{nome}/cronograma", func(r *resty.Request) {
		r.SetPathParam("nome", name)
	})
	if err != nil {
		return nil, err
	}
	return decodeList[map[string]any](body, c.log), nil
}

// ScheduleByCourse fetches schedule entries for a resolved course id.
func (c *Client) ScheduleByCourse(ctx context.Context, id string) ([]ScheduleEntry, error) {
	body, err := c.get(ctx, "cronograma", "/cronograma/disciplina/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	})
	if err != nil {
		return nil, err
	}
	return decodeList[ScheduleEntry](body, c.log), nil
}

// EvaluationsByCourse fetches evaluation/exam entries for a course id.
func (c *Client) EvaluationsByCourse(ctx context.Context, id string) ([]Evaluation, error) {
	body, err := c.get(ctx, "avaliacao", "/avaliacao/disciplina/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
	})
	if err != nil {
		return nil, err
	}
	return decodeList[Evaluation](body, c.log), nil
}

// ListInstructors fetches professors and coordinators and merges both
// collections into normalized person records. A failure in one collection
// does not discard the other; both failing returns the first error.
func (c *Client) ListInstructors(ctx context.Context) ([]PersonRecord, error) {
	var people []PersonRecord

	profBody, profErr := c.get(ctx, "lista_professores", "/professores/lista_professores/", nil)
	if profErr == nil {
		for _, row := range decodeList[professorRow](profBody, c.log) {
			people = append(people, row.project())
		}
	}

	coordBody, coordErr := c.get(ctx, "lista_coordenadores", "/coordenador/get_list_coordenador/", nil)
	if coordErr == nil {
		for _, row := range decodeList[coordinatorRow](coordBody, c.log) {
			people = append(people, row.project())
		}
	}

	if profErr != nil && coordErr != nil {
		return nil, profErr
	}
	return people, nil
}

// SearchKnowledge queries the knowledge base and returns contextual snippets.
func (c *Client) SearchKnowledge(ctx context.Context, query string) ([]string, error) {
	body, err := c.get(ctx, "baseconhecimento_buscar", "/baseconhecimento/get_buscar", func(r *resty.Request) {
		r.SetQueryParam("q", query)
	})
	if err != nil {
		return nil, err
	}
	// Documented shape is {"contextos": [...]}; ValidateList unwraps it and
	// tolerates the bare-array variant.
	elems := ValidateList(body, c.log)
	snippets := make([]string, 0, len(elems))
	for _, e := range elems {
		var s string
		if err := json.Unmarshal(e, &s); err == nil {
			snippets = append(snippets, s)
			continue
		}
		// Some builds return objects with a "texto" field instead of strings.
		var obj map[string]any
		if err := json.Unmarshal(e, &obj); err == nil {
			if texto, ok := obj["texto"].(string); ok {
				snippets = append(snippets, texto)
			}
		}
	}
	return snippets, nil
}

// DocumentURL looks up the stored document link for a keyword.
func (c *Client) DocumentURL(ctx context.Context, term string) (string, error) {
	body, err := c.get(ctx, "url_documento", "/baseconhecimento/get_baseconhecimento_url_documento/{termo}", func(r *resty.Request) {
		r.SetPathParam("termo", term)
	})
	if err != nil {
		return "", err
	}
	obj, err := ValidateObject(body, "url_documento")
	if err != nil {
		return "", err
	}
	url, _ := obj["url_documento"].(string)
	return url, nil
}

// GenerateAnswer posts the student question to the generative endpoint and
// returns the answer text. Uses the long timeout.
func (c *Client) GenerateAnswer(ctx context.Context, question string) (string, error) {
	body, err := c.post(ctx, c.generate, "gerar_resposta", "/ia/gerar-resposta", map[string]string{
		"pergunta": question,
	})
	if err != nil {
		return "", err
	}
	obj, err := ValidateObject(body, "resposta")
	if err != nil {
		return "", err
	}
	answer, _ := obj["resposta"].(string)
	return answer, nil
}

// SaveStudentQuestion persists a student question for later aggregation.
// Callers treat failures as best-effort (logged, never user-visible).
func (c *Client) SaveStudentQuestion(ctx context.Context, q StudentQuestion) error {
	_, err := c.post(ctx, c.read, "mensagens_aluno", "/mensagens_aluno/", q)
	return err
}

// SaveKnowledge writes one processed document to the knowledge base.
func (c *Client) SaveKnowledge(ctx context.Context, doc KnowledgeDocument) error {
	_, err := c.post(ctx, c.read, "baseconhecimento", "/baseconhecimento/", doc)
	return err
}

// Package actions implements the custom actions the dialogue runtime
// delegates to this server. Each handler runs one conversation turn:
// persist the student question on a detached best-effort path, check the
// required slots, resolve entities, query the backend, and reply in
// Portuguese. Failures are terminal for the turn; there are no retries.
package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/config"
	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/rasa"
)

// ErrUnknownAction is returned when the runtime requests an action this
// server does not implement.
var ErrUnknownAction = errors.New("unknown action")

// Backend is the slice of the API client the handlers use.
type Backend interface {
	ListAnnouncements(ctx context.Context) ([]backend.Announcement, error)
	ScheduleByCourse(ctx context.Context, id string) ([]backend.ScheduleEntry, error)
	EvaluationsByCourse(ctx context.Context, id string) ([]backend.Evaluation, error)
	ListInstructors(ctx context.Context) ([]backend.PersonRecord, error)
	SearchKnowledge(ctx context.Context, query string) ([]string, error)
	DocumentURL(ctx context.Context, term string) (string, error)
	GenerateAnswer(ctx context.Context, question string) (string, error)
	SaveStudentQuestion(ctx context.Context, q backend.StudentQuestion) error
}

// CourseResolver resolves user-typed course names to backend identifiers.
type CourseResolver interface {
	ResolveCourseID(ctx context.Context, name string) (string, error)
}

// TopicTagger classifies a question into topic tags for persistence.
type TopicTagger interface {
	Extract(ctx context.Context, question string) []string
}

// Action outcomes for metrics.
const (
	outcomeSuccess     = "success"
	outcomeMissingSlot = "missing_slot"
	outcomeNotFound    = "not_found"
	outcomeError       = "error"
)

type handlerFunc func(ctx context.Context, tr *rasa.Tracker, d *rasa.Dispatcher) string

// Registry routes webhook requests to handlers and owns their shared
// dependencies.
type Registry struct {
	backend    Backend
	resolver   CourseResolver
	topics     TopicTagger
	classifier *domerrors.Classifier
	log        *logger.Logger
	metrics    *metrics.Metrics
	handlers   map[string]handlerFunc

	// now is time.Now except in tests.
	now func() time.Time
}

// NewRegistry wires the seven actions.
func NewRegistry(b Backend, r CourseResolver, t TopicTagger, c *domerrors.Classifier, log *logger.Logger, m *metrics.Metrics) *Registry {
	reg := &Registry{
		backend:    b,
		resolver:   r,
		topics:     t,
		classifier: c,
		log:        log.WithModule("actions"),
		metrics:    m,
		now:        time.Now,
	}
	reg.handlers = map[string]handlerFunc{
		"action_buscar_ultimos_avisos":           reg.buscarUltimosAvisos,
		"action_buscar_cronograma":               reg.buscarCronograma,
		"action_buscar_data_avaliacao":           reg.buscarDataAvaliacao,
		"action_buscar_info_docente":             reg.buscarInfoDocente,
		"action_buscar_info_atividade_academica": reg.buscarInfoAtividade,
		"action_buscar_material":                 reg.buscarMaterial,
		"action_gerar_resposta_com_ia":           reg.gerarRespostaComIA,
	}
	return reg
}

// ActionNames returns the registered action names, for startup logging.
func (r *Registry) ActionNames() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Dispatch runs the requested action and returns the collected messages and
// events. Unknown actions return ErrUnknownAction; everything else answers
// the turn, even on backend failure.
func (r *Registry) Dispatch(ctx context.Context, req *rasa.WebhookRequest) (rasa.WebhookResponse, error) {
	handler, ok := r.handlers[req.NextAction]
	if !ok {
		return rasa.WebhookResponse{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.NextAction)
	}

	r.persistQuestion(req)

	d := rasa.NewDispatcher()
	start := r.now()
	outcome := handler(ctx, &req.Tracker, d)
	r.metrics.RecordAction(req.NextAction, outcome, time.Since(start).Seconds())

	r.log.WithField("action", req.NextAction).
		WithField("sender_id", req.SenderID).
		WithField("outcome", outcome).
		Infof("action handled")
	return d.Response(), nil
}

// persistQuestion saves the student's message with its topic tags on a
// detached goroutine. The webhook turn never waits on it and a failure is
// logged only.
func (r *Registry) persistQuestion(req *rasa.WebhookRequest) {
	text := strings.TrimSpace(req.Tracker.LatestMessage.Text)
	if text == "" {
		return
	}
	asked := r.now()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.QuestionPersist)
		defer cancel()

		q := backend.StudentQuestion{
			PrimeiraPergunta: text,
			Topico:           strings.Join(r.topics.Extract(ctx, text), ", "),
			DataHora:         asked.Format(time.RFC3339),
		}
		if err := r.backend.SaveStudentQuestion(ctx, q); err != nil {
			r.log.WithError(err).Warnf("failed to persist student question")
		}
	}()
}

// classify converts a backend failure into the user reply, logging once. A
// non-empty notFoundMsg replaces the generic not-found text so each action
// keeps its own phrasing.
func (r *Registry) classify(action, context string, err error, notFoundMsg string) string {
	msg := r.classifier.Classify(action, context, err)
	if notFoundMsg != "" && domerrors.ClassifyKind(err) == domerrors.KindNotFound {
		return notFoundMsg
	}
	return msg
}

// isNotFound reports a plain miss: the sentinel or an HTTP 404.
func isNotFound(err error) bool {
	return errors.Is(err, domerrors.ErrNotFound) ||
		domerrors.ClassifyKind(err) == domerrors.KindNotFound
}

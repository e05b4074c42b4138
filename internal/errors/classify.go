package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/unichat-bot/unichat-actions-go/internal/logger"
)

// Kind is the classified failure category of a backend call.
type Kind int

const (
	// KindTimeout: the call exceeded its deadline.
	KindTimeout Kind = iota
	// KindConnection: the backend could not be reached at all.
	KindConnection
	// KindNotFound: HTTP 404.
	KindNotFound
	// KindInternal: HTTP 500.
	KindInternal
	// KindUnavailable: HTTP 503.
	KindUnavailable
	// KindHTTPOther: any other non-2xx status.
	KindHTTPOther
	// KindInvalidResponse: the body did not parse or failed shape validation.
	KindInvalidResponse
	// KindUnexpected: anything else.
	KindUnexpected
)

// String returns the log label for the kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnection:
		return "connection"
	case KindNotFound:
		return "not_found"
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	case KindHTTPOther:
		return "http_other"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unexpected"
	}
}

// ClassifyKind maps an error to its failure category. Deterministic: the
// same error always classifies the same way.
func ClassifyKind(err error) Kind {
	if err == nil {
		return KindUnexpected
	}

	var transport *TransportError
	if errors.As(err, &transport) {
		if transport.Timeout {
			return KindTimeout
		}
		return KindConnection
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var status *StatusError
	if errors.As(err, &status) {
		switch status.StatusCode {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusInternalServerError:
			return KindInternal
		case http.StatusServiceUnavailable:
			return KindUnavailable
		default:
			return KindHTTPOther
		}
	}

	if errors.Is(err, ErrNotFound) {
		return KindNotFound
	}
	if errors.Is(err, ErrInvalidResponse) {
		return KindInvalidResponse
	}
	return KindUnexpected
}

// Classifier converts backend failures into user-facing replies, emitting
// exactly one structured log record per classification. It never re-raises:
// every error produces a message.
type Classifier struct {
	log *logger.Logger
}

// NewClassifier creates a classifier logging through log.
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify returns the user-facing reply for err and logs one record with
// the originating action name and free-text context. Unexpected kinds are
// also reported to Sentry when the SDK is initialized.
func (c *Classifier) Classify(action, context string, err error) string {
	kind := ClassifyKind(err)

	c.log.WithModule(action).
		WithField("context", context).
		WithField("error_kind", kind.String()).
		WithError(err).
		Errorf("backend call failed")

	if kind == KindUnexpected {
		sentry.CaptureException(err)
	}

	return UserMessage(kind, err)
}

// UserMessage returns the Portuguese reply for a failure category.
func UserMessage(kind Kind, err error) string {
	switch kind {
	case KindTimeout:
		return "O servidor está demorando para responder. Tente novamente mais tarde."
	case KindConnection:
		return "Não consegui me conectar ao sistema agora. Tente novamente mais tarde."
	case KindNotFound:
		return "Não encontrei essa informação no sistema."
	case KindInternal:
		return "O sistema encontrou um erro interno. Tente novamente mais tarde."
	case KindUnavailable:
		return "O sistema está temporariamente indisponível. Tente novamente em alguns minutos."
	case KindHTTPOther:
		var status *StatusError
		if errors.As(err, &status) {
			return fmt.Sprintf("Ocorreu um erro ao processar sua solicitação (código %d).", status.StatusCode)
		}
		return "Ocorreu um erro ao processar sua solicitação."
	case KindInvalidResponse:
		return "O servidor retornou uma resposta inválida. Tente novamente mais tarde."
	default:
		return "Ocorreu um erro inesperado. Tente novamente."
	}
}

// Package resolver maps user-typed course names to backend identifiers.
//
// Resolution short-circuits on first success: cache, then the full catalog
// scored by the approximate matcher, then the schedule-by-name endpoint as a
// last resort. Successful resolutions populate the cache; misses are never
// cached, so a course added upstream becomes resolvable immediately.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unichat-bot/unichat-actions-go/internal/backend"
	"github.com/unichat-bot/unichat-actions-go/internal/cache"
	domerrors "github.com/unichat-bot/unichat-actions-go/internal/errors"
	"github.com/unichat-bot/unichat-actions-go/internal/logger"
	"github.com/unichat-bot/unichat-actions-go/internal/match"
	"github.com/unichat-bot/unichat-actions-go/internal/metrics"
	"github.com/unichat-bot/unichat-actions-go/internal/textnorm"
)

// Catalog is the slice of backend calls the resolver needs. *backend.Client
// satisfies it; tests substitute fakes.
type Catalog interface {
	ListCourses(ctx context.Context) ([]backend.Course, error)
	ScheduleByName(ctx context.Context, name string) ([]map[string]any, error)
}

// Resolver resolves course names to identifiers with a TTL-bounded cache.
// Constructed once at process start and injected into the handlers; safe
// for concurrent use across conversations.
type Resolver struct {
	catalog Catalog
	cache   *cache.TTL[string]
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a resolver with its own cache.
func New(catalog Catalog, ttl time.Duration, log *logger.Logger, m *metrics.Metrics) *Resolver {
	return &Resolver{
		catalog: catalog,
		cache:   cache.New[string](ttl),
		log:     log.WithModule("resolver"),
		metrics: m,
	}
}

// ResolveCourseID resolves name to a backend course identifier.
// Returns ErrNotFound when nothing matches; transport failures from the
// catalog surface unchanged for the caller to classify. A plain miss is not
// an operational fault.
//
// Cache keys are whitespace-collapsed but accent-preserving: two accented
// spellings of one course score identically in the matcher yet occupy
// separate cache slots. Kept on purpose, see DESIGN.md.
func (r *Resolver) ResolveCourseID(ctx context.Context, name string) (string, error) {
	key := textnorm.CollapseSpace(name)
	if key == "" {
		return "", fmt.Errorf("%w: empty course name", domerrors.ErrNotFound)
	}

	if id, ok := r.cache.Get(key); ok {
		r.metrics.RecordCacheHit("course_id")
		return id, nil
	}
	r.metrics.RecordCacheMiss("course_id")

	id, err := r.resolveFromCatalog(ctx, key)
	if err == nil {
		r.cache.Set(key, id)
		r.metrics.SetCacheEntries(r.cache.Len())
		return id, nil
	}
	if !isNotFound(err) {
		return "", err
	}

	id, err = r.resolveFromSchedule(ctx, key)
	if err != nil {
		return "", err
	}
	r.cache.Set(key, id)
	r.metrics.SetCacheEntries(r.cache.Len())
	return id, nil
}

// resolveFromCatalog fetches the catalog and runs the approximate matcher.
func (r *Resolver) resolveFromCatalog(ctx context.Context, name string) (string, error) {
	courses, err := r.catalog.ListCourses(ctx)
	if err != nil {
		return "", err
	}

	candidates := make([]match.Candidate, 0, len(courses))
	for _, c := range courses {
		candidates = append(candidates, match.Candidate{ID: c.ID, Name: c.Nome})
	}

	result := match.Match(name, candidates)
	if result == nil {
		return "", fmt.Errorf("%w: no catalog match for %q", domerrors.ErrNotFound, name)
	}

	r.log.WithField("query", name).
		WithField("matched", result.Candidate.Name).
		WithField("score", result.Score).
		Debugf("catalog match")
	return result.Candidate.ID, nil
}

// resolveFromSchedule queries the schedule-by-name endpoint with the raw
// name and extracts the identifier from the first row. The endpoint's row
// shape drifts between backend builds, so both known id field spellings are
// accepted.
func (r *Resolver) resolveFromSchedule(ctx context.Context, name string) (string, error) {
	rows, err := r.catalog.ScheduleByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("%w: schedule lookup failed for %q", domerrors.ErrNotFound, name)
		}
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: schedule lookup empty for %q", domerrors.ErrNotFound, name)
	}

	for _, field := range []string{"id_disciplina", "disciplina_id"} {
		if id, ok := rows[0][field].(string); ok && id != "" {
			r.log.WithField("query", name).Debugf("resolved via schedule fallback")
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: schedule row carries no id for %q", domerrors.ErrNotFound, name)
}

// ClearCache drops every cached resolution. Exposed for operational resets.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
	r.metrics.SetCacheEntries(0)
}

// isNotFound reports whether err is a plain miss rather than a transport or
// shape failure. HTTP 404 from the backend counts as a miss.
func isNotFound(err error) bool {
	if errors.Is(err, domerrors.ErrNotFound) {
		return true
	}
	var statusErr *domerrors.StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == 404
}

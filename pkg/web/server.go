// Package web serves the requirements catalogue over HTTP: pages for building
// a selection and downloading the document, catalogue editing, a JSON API with
// server side selection sessions, and Prometheus metrics.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/selection"
	"tableflip.dev/a11yreq/pkg/store"
)

// maxRequestBodySize limits form and JSON bodies.
const maxRequestBodySize = 1 << 20

// Server holds the HTTP handlers. Create one with New.
type Server struct {
	svc      *app.Service
	log      *zap.Logger
	metrics  *Metrics
	sessions *Sessions

	// version increases every time the catalogue changes on disk. Sessions
	// built against an older version are rebuilt on next use.
	version atomic.Uint64
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSessionTTL sets how long idle selection sessions live.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessions.TTL = ttl
	}
}

// New returns a server over svc.
func New(svc *app.Service, opts ...Option) *Server {
	s := &Server{
		svc:      svc,
		log:      zap.NewNop(),
		metrics:  NewMetrics(),
		sessions: NewSessions(DefaultSessionTTL),
	}
	s.sessions.OnChange = s.metrics.setSessions
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sessions exposes the session registry so callers can run its janitor.
func (s *Server) Sessions() *Sessions { return s.sessions }

// Invalidate marks every session stale after a catalogue change.
func (s *Server) Invalidate() {
	s.version.Add(1)
}

// Handler returns the routed handler wrapped with logging, metrics and
// security headers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /view/clauses", s.handleClauses)
	mux.HandleFunc("GET /view/create", s.handleCreate)
	mux.HandleFunc("POST /view/create", s.handleGenerate)

	mux.HandleFunc("GET /edit", s.handleEditIndex)
	mux.HandleFunc("GET /edit/{kind}", s.handleEditList)
	mux.HandleFunc("POST /edit/{kind}", s.handleEditCreate)
	mux.HandleFunc("GET /edit/{kind}/{id}", s.handleEditForm)
	mux.HandleFunc("POST /edit/{kind}/{id}", s.handleEditUpdate)
	mux.HandleFunc("POST /edit/{kind}/{id}/delete", s.handleEditDelete)

	mux.HandleFunc("GET /api/v1/clauses", s.handleAPIClauses)
	mux.HandleFunc("GET /api/v1/infos", s.handleAPIInfos)
	mux.HandleFunc("GET /api/v1/presets", s.handleAPIPresets)
	mux.HandleFunc("GET /api/v1/questions", s.handleAPIQuestions)
	mux.HandleFunc("GET /api/v1/tree", s.handleAPITree)
	mux.HandleFunc("POST /api/v1/sessions", s.handleSessionCreate)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleSessionGet)
	mux.HandleFunc("POST /api/v1/sessions/{id}/ops", s.handleSessionOp)
	mux.HandleFunc("GET /api/v1/sessions/{id}/document", s.handleSessionDocument)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleSessionDelete)

	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return s.instrument(withSecurityHeaders(mux))
}

// Watch invalidates sessions whenever the store reports a change. It returns
// when ctx is done or the watch channel closes.
func (s *Server) Watch(ctx context.Context) error {
	events, err := s.svc.Watch(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-events:
			if !ok {
				return nil
			}
			s.log.Info("catalogue changed", zap.String("kind", string(evt.Kind)))
			s.Invalidate()
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		took := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observe(r.Method, route, rec.status, took)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", took),
		)
	})
}

func withSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var (
		exists     *app.ExistsError
		referenced *app.ReferencedError
	)
	var bad badRequest
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, app.ErrUnknownPreset):
		return http.StatusNotFound
	case errors.As(err, &exists), errors.As(err, &referenced):
		return http.StatusConflict
	case errors.Is(err, clause.ErrNumberRequired), errors.Is(err, clause.ErrNameRequired),
		errors.Is(err, app.ErrInvalidSelection):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// refresh rebuilds the session's controller over the current catalogue when
// the store changed since it was built. The selection and restore cache carry
// over.
func (s *Server) refresh(ctx context.Context, sess *Session) error {
	current := s.version.Load()
	if sess.version == current {
		return nil
	}
	fresh, err := s.svc.NewSelection(ctx)
	if err != nil {
		return err
	}
	fresh.CarryOver(sess.c)
	sess.c = fresh
	sess.version = current
	return nil
}

// withSession looks up the session named in the path and runs fn under its
// lock with an up to date controller.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(sess *Session, c *selection.Controller) error) {
	sess, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, r, http.StatusNotFound, errors.New("session not found"))
		return
	}
	err := sess.Do(func(*selection.Controller) error {
		if err := s.refresh(r.Context(), sess); err != nil {
			return err
		}
		return fn(sess, sess.c)
	})
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
	}
}

// badRequest marks client input errors.
type badRequest struct{ error }

func (b badRequest) Unwrap() error { return b.error }

// Package server is the HTTP surface: a small form UI, the JSON
// classification API and the administrative extension points for rules and
// templates.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mailsense/mailsense/internal/core/classify"
	"github.com/mailsense/mailsense/internal/core/rules"
	"github.com/mailsense/mailsense/internal/core/templates"
	"github.com/mailsense/mailsense/internal/platform/config"
	"github.com/mailsense/mailsense/internal/platform/observability"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
	requestTimeout    = 30 * time.Second
	maxUploadBytes    = 10 << 20
)

//go:embed web/*.html
var webFS embed.FS

var pages = template.Must(template.ParseFS(webFS, "web/*.html"))

type Server struct {
	orchestrator *classify.Orchestrator
	engine       *rules.Engine
	catalog      *templates.Catalog
	port         int
	maxChars     int
	logger       *zerolog.Logger
}

func New(cfg *config.Config, orchestrator *classify.Orchestrator, engine *rules.Engine, catalog *templates.Catalog, logger *zerolog.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		engine:       engine,
		catalog:      catalog,
		port:         cfg.HTTPPort,
		maxChars:     cfg.MaxEmailChars,
		logger:       logger,
	}
}

func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /analyse", s.handleAnalyse)
	mux.HandleFunc("POST /api/classify", s.handleClassify)
	mux.HandleFunc("POST /api/rules", s.handleAddRule)
	mux.HandleFunc("POST /api/templates", s.handleSetTemplate)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.instrument(mux),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		//nolint:errcheck,contextcheck // shutdown in signal handler is best-effort
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("HTTP server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

func routeLabel(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}

	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		requestID := uuid.NewString()

		logger := s.logger.With().Str("request_id", requestID).Logger()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		req := r.WithContext(logger.WithContext(ctx))
		next.ServeHTTP(rec, req)

		duration := time.Since(started)

		// The matched pattern keeps the label set bounded; raw paths would
		// mint a new label value per 404 probe.
		observability.HTTPRequestDuration.
			WithLabelValues(routeLabel(req), strconv.Itoa(rec.status)).
			Observe(duration.Seconds())

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", duration).
			Msg("request")
	})
}

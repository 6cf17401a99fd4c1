// Package server exposes the draft store over HTTP. It implements the
// endpoints the wizard client talks to: cached draft fetch, per-step
// submission, and the terminal process/archive actions.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"philfund-wizard/internal/common/config"
	"philfund-wizard/internal/common/logger"
	"philfund-wizard/internal/draftstore"
	"philfund-wizard/internal/notifier"
	"philfund-wizard/internal/submissions"
)

type Server struct {
	cfg      config.ServerConfig
	drafts   *draftstore.Store
	repo     *submissions.Repository
	notifier *notifier.Notifier
	schemas  *SchemaSet
	logger   logger.Logger
	httpSrv  *http.Server
}

func New(cfg config.ServerConfig, drafts *draftstore.Store, repo *submissions.Repository, n *notifier.Notifier, log logger.Logger) (*Server, error) {
	schemas, err := NewSchemaSet()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		drafts:   drafts,
		repo:     repo,
		notifier: n,
		schemas:  schemas,
		logger:   log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{wizard}/cached", s.handleCached)
	mux.HandleFunc("POST /{wizard}/process", s.handleProcess)
	mux.HandleFunc("POST /{wizard}/archive", s.handleArchive)
	mux.HandleFunc("POST /{wizard}/restore", s.handleRestore)
	mux.HandleFunc("POST /{wizard}/{step}", s.handleSubmitStep)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Millisecond,
	}
	return s, nil
}

func (s *Server) Start() error {
	s.logger.Info("draft server listening", map[string]interface{}{
		"addr": s.httpSrv.Addr,
	})
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		})
	})
}

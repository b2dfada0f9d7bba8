// Package server implements the quill backend HTTP API: the item feed,
// draft generation, reply submission, and the draft cache endpoints the
// dashboard consumes.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/colonyops/quill/internal/core/item"
	"github.com/colonyops/quill/internal/quill"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8000"

const shutdownTimeout = 10 * time.Second

// Config configures the HTTP server.
type Config struct {
	Addr string
}

// Server serves the dashboard API over the feed and responder services.
type Server struct {
	addr      string
	feed      *quill.FeedService
	responder *quill.Responder
	log       zerolog.Logger
}

// New creates the API server.
func New(cfg Config, feed *quill.FeedService, responder *quill.Responder, log zerolog.Logger) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:      addr,
		feed:      feed,
		responder: responder,
		log:       log.With().Str("component", "server").Logger(),
	}
}

// Router builds the chi router with the full middleware stack and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsAllowAll)

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/feedbacks", s.handleList(item.CategoryFeedbacks))
		r.Get("/questions", s.handleList(item.CategoryQuestions))
		r.Post("/generate-response", s.handleGenerate)
		r.Post("/generate-multiple-responses", s.handleGenerateVariants)
		r.Post("/reply", s.handleReply)
		r.Post("/cache-selected-response", s.handleCacheSelected)
	})

	return r
}

// Run prepares the draft cache and serves until ctx is cancelled, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	s.prepareCache(ctx)

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("api server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// prepareCache warms the hot draft cache and prunes rows for items no
// longer in the feed. Both are best-effort; a cold marketplace API must not
// keep the server from starting.
func (s *Server) prepareCache(ctx context.Context) {
	s.responder.Warm(ctx)

	ids, err := s.feed.ActiveIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("skipping draft cache prune, feed unavailable")
		return
	}

	removed, err := s.responder.Prune(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Msg("draft cache prune failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("pruned stale draft cache entries")
	}
}

// Package server exposes search, trending, README retrieval and streamed
// AI analysis over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/sources
//	GET  /api/search?q=react&source=github,npm&shallow=false
//	GET  /api/trending?limit=60
//	GET  /api/readme?source=github&name=facebook/react
//	POST /api/analyze   {"source":"github","fullName":"facebook/react"}
//
// Caller errors map to 400 with a JSON body {"error": ..., "code": ...}.
// /api/analyze streams the model output as chunked text/plain.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/gitseeker/pkg/ai"
	"github.com/matzehuels/gitseeker/pkg/prefs"
	"github.com/matzehuels/gitseeker/pkg/project"
	"github.com/matzehuels/gitseeker/pkg/sources"
)

// Searcher is the aggregation surface the server needs.
type Searcher interface {
	Search(ctx context.Context, query string, srcs []project.Source, deep bool) ([]project.Project, error)
	Trending(ctx context.Context, opts sources.TrendingOptions) []project.Project
	Sources() []project.Source
}

// ReadmeFetcher retrieves project documentation.
type ReadmeFetcher interface {
	FetchByName(ctx context.Context, source project.Source, fullName string) (string, bool)
}

// Server holds the HTTP handlers' dependencies.
type Server struct {
	Searcher Searcher
	Readme   ReadmeFetcher
	Prefs    prefs.Store
	Logger   *log.Logger

	// NewProvider builds the AI provider for an analysis. Defaults to
	// [ai.NewProvider].
	NewProvider func(ai.Config) (ai.Provider, error)
}

// New returns a server over the given collaborators.
func New(s Searcher, readme ReadmeFetcher, store prefs.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Searcher:    s,
		Readme:      readme,
		Prefs:       store,
		Logger:      logger,
		NewProvider: ai.NewProvider,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.listSources)
		r.Get("/search", s.search)
		r.Get("/trending", s.trending)
		r.Get("/readme", s.readme)
		r.Post("/analyze", s.analyze)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

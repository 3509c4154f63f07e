// Package api serves feature extraction and corpus analysis over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fakenews-features/internal/config"
	"fakenews-features/internal/crawler"
	"fakenews-features/internal/features"
	"fakenews-features/internal/metrics"
	"fakenews-features/internal/parser"
	"fakenews-features/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// Server is the HTTP API server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	log     *logger.Logger
	ext     *features.Extractor
	fetcher *crawler.HTTPClient
	parser  *parser.Parser
}

// NewServer wires the routes around an already built extractor.
func NewServer(cfg *config.Config, ext *features.Extractor, log *logger.Logger) *Server {
	s := &Server{
		cfg: cfg,
		log: log,
		ext: ext,
		fetcher: crawler.NewHTTPClient(crawler.Options{
			Timeout:       cfg.Fetch.Timeout,
			DialTimeout:   cfg.Fetch.DialTimeout,
			SizeCap:       cfg.Fetch.SizeCap,
			UserAgent:     cfg.Fetch.UserAgent,
			HostInterval:  cfg.Fetch.HostInterval,
			RespectRobots: cfg.Fetch.RespectRobots,
			AllowPrivate:  cfg.Fetch.AllowPrivate,
		}),
		parser: parser.New(),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("server listening on %s", httpSrv.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Infof("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(s.cfg.Server.MaxBodyBytes))
	if s.cfg.Server.WriteTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.Server.WriteTimeout))
	}

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/extract", s.handleExtract)
		r.Post("/extract/batch", s.handleExtractBatch)
		r.Post("/extract/url", s.handleExtractURL)
		r.Post("/extract/url/batch", s.handleExtractURLBatch)
		r.Post("/extract/upload", s.handleExtractUpload)
		r.Post("/analyze", s.handleAnalyze)
	})

	return r
}

// requestLogger logs each request and counts it by route pattern, so
// path parameters never explode metric cardinality.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordRequest(route, strconv.Itoa(status))
		s.log.Info("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("failed to write JSON response: %v", err)
	}
}

func (s *Server) writeData(w http.ResponseWriter, v any) {
	s.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: v})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, APIResponse{Success: false, Error: msg})
}

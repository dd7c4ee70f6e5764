// Package server exposes worksheet generation over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/worksheetgen/internal/logger"
	"github.com/abhisek/worksheetgen/internal/questiongen"
)

// Config holds the listener settings.
type Config struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	ServiceName    string        `yaml:"-"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

// DefaultConfig listens on localhost:8080.
func DefaultConfig() Config {
	return Config{
		Addr:          "127.0.0.1:8080",
		ServiceName:   "worksheetgen",
		ShutdownGrace: 10 * time.Second,
	}
}

// Server is the HTTP front end.
type Server struct {
	cfg       Config
	log       *logger.Logger
	generator *questiongen.Generator
	engine    *gin.Engine
}

// New builds the router. generator is required.
func New(cfg Config, generator *questiongen.Generator, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{cfg: cfg, log: log, generator: generator}
	s.engine = s.routes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if s.cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(s.cfg.ServiceName))
	}
	r.Use(requestID())
	r.Use(requestLogger(s.log))
	r.Use(corsMiddleware(s.cfg.AllowedOrigins))

	r.GET("/healthcheck", s.healthCheck)

	api := r.Group("/api")
	{
		api.GET("/options", s.options)
		api.GET("/topics/suggestion", s.topicSuggestion)
		api.GET("/math/symbols", s.mathSymbols)

		api.POST("/worksheets", s.createWorksheet)
		api.POST("/worksheets/stream", s.streamWorksheet)
		api.POST("/worksheets/render", s.renderWorksheet)
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("HTTP server listening", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		grace := s.cfg.ShutdownGrace
		if grace <= 0 {
			grace = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()
		s.log.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

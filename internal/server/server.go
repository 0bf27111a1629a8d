// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the paper collection over HTTP. Every route is
// served both at the root and under /api.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/pdiddy/docparse/pkg/types"
)

const shutdownTimeout = 10 * time.Second

// Papers is the collection API the HTTP surface needs.
type Papers interface {
	Add(ctx context.Context, locator string) (types.Paper, error)
	Remove(id int) (bool, error)
	List() []types.PaperSummary
	Get(id int) (types.Paper, bool)
	Len() int
	Export(format types.ExportFormat, name string) (string, error)
}

// Server routes HTTP requests to a Papers collection.
type Server struct {
	papers       Papers
	exportFormat types.ExportFormat
	allowFiles   bool
	engine       *gin.Engine
}

// New builds the router. cfg.Mode is passed to gin ("release", "debug",
// "test"); exportFormat is used when an export request names none. Local
// file locators are refused unless cfg.AllowFiles is set.
func New(papers Papers, cfg types.ServerConfig, exportFormat types.ExportFormat) *Server {
	mode := cfg.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)

	s := &Server{papers: papers, exportFormat: exportFormat, allowFiles: cfg.AllowFiles}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	s.routes(r)
	s.routes(r.Group("/api"))
	s.engine = r
	return s
}

func (s *Server) routes(r gin.IRoutes) {
	r.GET("/papers", s.listPapers)
	r.POST("/papers", s.addPaper)
	r.GET("/papers/:id", s.getPaper)
	r.DELETE("/papers/:id", s.deletePaper)
	r.POST("/export", s.exportPapers)
	r.GET("/health", s.health)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		switch {
		case status >= http.StatusInternalServerError:
			evt = log.Error()
		case status >= http.StatusBadRequest:
			evt = log.Warn()
		}
		if len(c.Errors) > 0 {
			evt = evt.Str("errors", c.Errors.String())
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}

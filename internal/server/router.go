// Package server wires the gin engine, middleware, and graceful shutdown
// for the optional HTTP face of the query surface — a long-running sibling
// to the one-shot CLI, started by its serve subcommand. The
// config.ServerConfig.Enabled setting is not consulted.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chunkdex/internal/handler"
	"chunkdex/internal/logger"
	"chunkdex/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Server owns the gin engine and the underlying http.Server for graceful
// shutdown.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    logger.Logger
}

// New builds a Server routing /healthz, /lookup, /index, and (if mr is
// non-nil) /metrics.
func New(h *handler.Handler, mr *metrics.Recorder, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(log))

	engine.GET("/healthz", h.Healthz)
	engine.GET("/lookup", h.Lookup)
	engine.POST("/lookup", h.Lookup)
	engine.POST("/index", h.Index)
	if mr != nil {
		engine.GET("/metrics", gin.WrapH(mr.HTTPHandler()))
	}

	return &Server{engine: engine, log: log}
}

// requestLogger is minimal request-scoped logging middleware, the gin
// analogue of the teacher's zap-backed access log.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Start listens on addr, blocking until Shutdown is called or a fatal
// listener error occurs.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{Addr: addr, Handler: s.engine}
	s.log.Info("http server listening on %s", addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

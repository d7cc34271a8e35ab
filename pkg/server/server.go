package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restockwatch/pkg/handlers"
	"restockwatch/pkg/logger"
	"restockwatch/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server constants
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
)

// Config holds HTTP server configuration
type Config struct {
	Address     string
	Port        int
	CORSOrigins []string
	Development bool
}

// HTTPServer serves the status API.
type HTTPServer struct {
	server     *http.Server
	engine     *gin.Engine
	config     *Config
	handlerSvc *handlers.HandlerService
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(config *Config, handlerSvc *handlers.HandlerService) *HTTPServer {
	if config.Development {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		engine:     gin.New(),
		config:     config,
		handlerSvc: handlerSvc,
	}
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", config.Address, config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}

	logger.Info("HTTP server initialized", zap.String("listen_addr", addr))
	return s
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

// setupRoutes configures all HTTP routes
func (s *HTTPServer) setupRoutes() {
	s.engine.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		corsMiddleware(s.config.CORSOrigins),
	)

	s.engine.GET("/health", s.handlerSvc.HealthCheck)

	api := s.engine.Group("/api/v1")
	api.GET("/status", s.handlerSvc.GetStatus)
	api.GET("/products", s.handlerSvc.GetProducts)
	api.POST("/run", s.handlerSvc.TriggerRun)
	api.GET("/jobs", s.handlerSvc.GetScheduledJobs)
	api.GET("/jobs/:id", s.handlerSvc.GetScheduledJob)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// Start starts the HTTP server and blocks until it stops.
func (s *HTTPServer) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

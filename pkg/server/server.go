// Package server exposes the engine over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vockit/lattice/pkg/config"
	"github.com/vockit/lattice/pkg/server/handlers"
	"github.com/vockit/lattice/pkg/store"
	"github.com/vockit/lattice/pkg/types"
)

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	router  *gin.Engine
	engines handlers.Resolver
	store   store.Store
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, engines handlers.Resolver, s store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		engines: engines,
		store:   s,
		logger:  logger,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.store)
	searchHandler := handlers.NewSearchHandler(s.engines)
	graphHandler := handlers.NewGraphHandler(s.engines)
	recordsHandler := handlers.NewRecordsHandler(s.engines)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		search := v1.Group("/search")
		{
			search.POST("/vector", searchHandler.VectorSearch)
			search.POST("/keyword", searchHandler.KeywordSearch)
			search.POST("/hybrid", searchHandler.HybridSearch)
		}

		graph := v1.Group("/graph")
		{
			graph.POST("/query", graphHandler.Query)
			graph.POST("/paths", graphHandler.Paths)
			graph.PUT("/edge", graphHandler.CreateEdge)
			graph.DELETE("/edge", graphHandler.DeleteEdge)
		}

		v1.GET("/documents", recordsHandler.ListDocuments)
		v1.GET("/documents/:id", recordsHandler.GetDocument)
		v1.GET("/insights", recordsHandler.ListInsights)
		v1.GET("/insights/:id", recordsHandler.GetInsight)
	}
}

// Router returns the configured router. Setup must have been called.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Tenant-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// contextMiddleware stamps tenant and request ids into the request
// context for telemetry.
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if tenantID := c.GetHeader(handlers.TenantHeader); tenantID != "" {
			ctx = context.WithValue(ctx, types.ContextKeyTenantID, tenantID)
		}

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, types.ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Package api wires the HTTP surface: the gin router, the middleware
// chain, and the per-kind CRUD routes over the data-access facades.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sampleflix/sampleflix/internal/auth"
	"github.com/sampleflix/sampleflix/internal/config"
	"github.com/sampleflix/sampleflix/internal/models"
	"github.com/sampleflix/sampleflix/internal/observability"
	"github.com/sampleflix/sampleflix/internal/repository"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies carries everything the server composes at construction.
type Dependencies struct {
	Registry    *repository.Registry
	AuthService *auth.Service
	Issuer      *auth.TokenIssuer
	Store       HealthChecker
	Logger      observability.Logger
}

// Server is the HTTP front of the service.
type Server struct {
	router *gin.Engine
	server *http.Server
	store  HealthChecker
	logger observability.Logger
}

// NewServer builds the router, middleware chain, and routes.
func NewServer(cfg config.Config, deps Dependencies) (*Server, error) {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewNoopLogger()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger.WithPrefix("api")))
	router.Use(ErrorHandler())

	if cfg.API.EnableCORS {
		router.Use(CORSMiddleware())
	}
	if cfg.API.RateLimit.Enabled {
		router.Use(RateLimiter(cfg.API.RateLimit))
	}

	s := &Server{
		router: router,
		store:  deps.Store,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.API.ListenAddress,
			Handler:      router,
			ReadTimeout:  cfg.API.ReadTimeout,
			WriteTimeout: cfg.API.WriteTimeout,
			IdleTimeout:  cfg.API.IdleTimeout,
		},
	}

	router.GET("/health", s.healthHandler)

	v1 := router.Group("/api/v1")

	authAPI := NewAuthAPI(deps.AuthService)
	authAPI.RegisterPublicRoutes(v1)

	protected := v1.Group("")
	protected.Use(auth.Middleware(deps.Issuer))
	authAPI.RegisterProtectedRoutes(protected)

	for _, kind := range models.Kinds() {
		dal, err := deps.Registry.DAL(kind)
		if err != nil {
			return nil, err
		}
		entityAPI := NewEntityAPI(kind, dal, cfg.Pagination.DefaultPageSize, cfg.Pagination.MaxPageSize)
		entityAPI.RegisterRoutes(protected)
	}

	return s, nil
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", map[string]interface{}{
		"address": s.server.Addr,
	})
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	if s.store != nil {
		if err := s.store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "unhealthy",
				"components": gin.H{"store": err.Error()},
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"components": gin.H{"store": "healthy"},
	})
}

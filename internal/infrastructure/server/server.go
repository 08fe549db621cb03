package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/taskmaster/tasklists/docs"
	httpHandlers "github.com/taskmaster/tasklists/internal/adapters/http"
	"github.com/taskmaster/tasklists/internal/adapters/repository"
	"github.com/taskmaster/tasklists/internal/application/services"
	"github.com/taskmaster/tasklists/internal/infrastructure/config"
	"github.com/taskmaster/tasklists/internal/infrastructure/database"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
	"github.com/taskmaster/tasklists/internal/infrastructure/metrics"
	"github.com/taskmaster/tasklists/internal/ports"
)

// Pinger reports whether the document store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend is everything the HTTP server needs from the storage side
type Backend struct {
	TaskLists ports.TaskListRepository
	Tasks     ports.TaskRepository
	NameCache ports.TaskListNameCache
	Store     Pinger
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logger.Logger
	metrics *metrics.Metrics
	store   Pinger
}

// New creates a server backed by the mongo collections of db
func New(cfg *config.Config, db *database.DB, nameCache ports.TaskListNameCache, appLogger *logger.Logger, m *metrics.Metrics) *Server {
	return NewWithBackend(cfg, Backend{
		TaskLists: repository.NewTaskListRepository(db.Collection(database.TaskListsCollection), appLogger),
		Tasks:     repository.NewTaskRepository(db.Collection(database.TasksCollection), appLogger),
		NameCache: nameCache,
		Store:     db,
	}, appLogger, m)
}

// NewWithBackend wires services, handlers and middleware over b
func NewWithBackend(cfg *config.Config, b Backend, appLogger *logger.Logger, m *metrics.Metrics) *Server {
	e := echo.New()
	e.Validator = httpHandlers.NewValidator()
	e.Debug = cfg.App.Debug
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger)

	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	listService := services.NewTaskListService(b.TaskLists, m, appLogger)
	taskService := services.NewTaskService(b.Tasks, b.TaskLists, b.NameCache, services.TaskServiceConfig{
		MaxLimit:          cfg.Listing.MaxLimit,
		MissingListPolicy: cfg.Listing.MissingListPolicy,
		CacheTTL:          cfg.Redis.TTL,
	}, m, appLogger)

	listHandler := httpHandlers.NewTaskListHandler(listService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  appLogger,
		metrics: m,
		store:   b.Store,
	}

	s.setupMiddleware()
	s.setupRoutes(listHandler, taskHandler)

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	s.echo.Use(s.requestLogger())

	if s.config.Metrics.Enabled && s.metrics != nil {
		s.echo.Use(s.metricsMiddleware())
	}

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost},
	}))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Skipper: func(c echo.Context) bool {
				return !strings.HasPrefix(c.Path(), "/api/")
			},
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rateFor(s.config.Security.RateLimitRequests, s.config.Security.RateLimitWindow),
				Burst:     s.config.Security.RateLimitRequests,
				ExpiresIn: s.config.Security.RateLimitWindow,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				return c.RealIP(), nil
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusForbidden, "rate limit exceeded")
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			},
		}))
	}

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))

	if s.config.Server.BodyLimit != "" {
		s.echo.Use(middleware.BodyLimit(s.config.Server.BodyLimit))
	}

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: s.config.Server.RequestTimeout,
		}))
	}
}

// rateFor spreads n requests evenly over window
func rateFor(n int, window time.Duration) rate.Limit {
	if window <= 0 {
		return rate.Limit(n)
	}
	return rate.Every(window / time.Duration(n))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(listHandler *httpHandlers.TaskListHandler, taskHandler *httpHandlers.TaskHandler) {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	s.echo.GET("/swagger/*", echoSwagger.WrapHandler)

	if s.config.Metrics.Enabled && s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	httpHandlers.RegisterRoutes(s.echo.Group("/api"), listHandler, taskHandler)
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.logger.Warnw("Readiness check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"reason": "database_not_ready",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}

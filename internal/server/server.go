package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"

	"taskmanager/internal/service"
)

// Options configures the HTTP layer.
type Options struct {
	// StaticDir holds a compiled web frontend. Empty means API only.
	StaticDir string
	// AllowedOrigins are the CORS origins allowed to call the API with credentials.
	AllowedOrigins []string
}

// Server provides HTTP handlers for the task management API.
type Server struct {
	engine  *gin.Engine
	tasks   *service.Service
	logger  *slog.Logger
	options Options
}

// New constructs the HTTP server with routes and middleware configured.
func New(tasks *service.Service, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api/health"))

	srv := &Server{
		engine:  router,
		tasks:   tasks,
		logger:  logger,
		options: opts,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	if len(s.options.AllowedOrigins) == 0 {
		return s.engine
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(s.options.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	)
	return cors(s.engine)
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.GET("/stats/overview", s.handleStats)
			tasks.GET("/:id", s.handleGetTask)
			tasks.PUT("/:id", s.handleUpdateTask)
			tasks.PATCH("/:id/toggle", s.handleToggleTask)
			tasks.DELETE("/:id", s.handleDeleteTask)
		}
	}

	s.mountStatic()
}

// handleHealth reports liveness, and store reachability when the store supports it.
func (s *Server) handleHealth(c *gin.Context) {
	if err := s.tasks.Ping(c.Request.Context()); err != nil {
		s.logger.Warn("health check: store unreachable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED", "message": "Task store is unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Task Management API is running"})
}

// respondError maps service errors to status codes. Unexpected failures are
// logged and reported with the generic fallback message only.
func (s *Server) respondError(c *gin.Context, err error, fallback string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		s.logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// respondSuccess writes payload as JSON, or only the status when payload is nil.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}

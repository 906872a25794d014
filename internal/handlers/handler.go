package handlers

import (
	"context"
	"time"

	"todo_list/internal/logger"
	"todo_list/internal/metrics"
	"todo_list/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	metrics     *metrics.Metrics
	metricsPath string
	ready       func(ctx context.Context) error
	origins     []string
	pollEvery   time.Duration
}

// Option customises a Handler.
type Option func(*Handler)

// WithMetrics records request metrics and serves them on path.
func WithMetrics(m *metrics.Metrics, path string) Option {
	return func(h *Handler) {
		h.metrics = m
		if path != "" {
			h.metricsPath = path
		}
	}
}

// WithReadiness makes GET /ready report the result of check.
func WithReadiness(check func(ctx context.Context) error) Option {
	return func(h *Handler) { h.ready = check }
}

// WithCORS allows browser requests from origins ("*" allows any).
func WithCORS(origins []string) Option {
	return func(h *Handler) { h.origins = append([]string(nil), origins...) }
}

// WithStreamInterval sets the default poll period of the task stream.
func WithStreamInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.pollEvery = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies. A nil log discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		services:    services,
		log:         log,
		metricsPath: "/metrics",
		pollEvery:   defaultInterval,
	}
	for _, opt := range opts {
		opt(h)
	}
	registerValidatorTagNames()
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(h.requestID, h.accessLog, gin.Recovery())
	if len(h.origins) > 0 {
		router.Use(h.cors)
	}

	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.GET("/ready", h.readiness)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if h.metrics != nil {
		router.GET(h.metricsPath, gin.WrapH(h.metrics.Handler()))
	}

	h.registerAuthRoutes(router)
	h.registerTaskRoutes(router)

	// Browsers cannot set headers on a websocket handshake, hence the query token.
	router.GET("/api/ws/tasks", h.userIdentity(true), h.streamTasks)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.GET("/me", h.userIdentity(false), h.me)
	}
}

func (h *Handler) registerTaskRoutes(r *gin.Engine) {
	tasks := r.Group("/api/tasks", h.userIdentity(false))
	{
		tasks.GET("/", h.listTasks)
		tasks.POST("/", h.createTask)
		tasks.GET("/:id", h.getTask)
		tasks.PUT("/:id", h.updateTask)
		tasks.DELETE("/:id", h.deleteTask)
	}
}

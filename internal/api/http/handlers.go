package http

import (
	"context"
	"net/http"

	"github.com/bewlybewly/bewly/backend/internal/api/gateway"
	"github.com/bewlybewly/bewly/backend/internal/api/middleware"
	"github.com/bewlybewly/bewly/backend/internal/bootstrap"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/monitoring"
	"github.com/bewlybewly/bewly/backend/internal/infrastructure/resilience"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Version is reported by the root endpoint.
const Version = "0.1.0"

// PageFetcher loads the upstream page the bootstrap rewrites.
type PageFetcher interface {
	GetHTML(ctx context.Context, pageURL, cookie string) ([]byte, string, error)
}

// BreakerReporter exposes the upstream breaker state for health checks.
type BreakerReporter interface {
	BreakerState() resilience.State
}

// Handlers contains all HTTP handlers
type Handlers struct {
	gateway   *gateway.Gateway
	bootstrap *bootstrap.Bootstrap
	mounter   bootstrap.Mounter
	pages     PageFetcher
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

// Options carries the handler dependencies. Only Gateway is required.
type Options struct {
	Gateway   *gateway.Gateway
	Bootstrap *bootstrap.Bootstrap
	Mounter   bootstrap.Mounter
	Pages     PageFetcher
	Metrics   *monitoring.Metrics
	Logger    *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(opts Options) *Handlers {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Bootstrap == nil {
		opts.Bootstrap = bootstrap.New(bootstrap.DefaultHost, "")
	}
	return &Handlers{
		gateway:   opts.Gateway,
		bootstrap: opts.Bootstrap,
		mounter:   opts.Mounter,
		pages:     opts.Pages,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}
}

// Register mounts every route on router
func (h *Handlers) Register(router gin.IRouter) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)

	relay := router.Group("/relay")
	relay.POST("/connect", h.Connect)
	relay.POST("/message", h.Message)
	relay.GET("/domains", h.Domains)

	router.GET("/page", h.Page)

	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}
}

// Root reports the service identity
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "bewly-relay",
		"version": Version,
	})
}

// Health reports relay and upstream state
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status": "healthy",
		"relay":  h.gateway.Registry().Stats(),
	}
	if br, ok := h.pages.(BreakerReporter); ok {
		body["upstream"] = gin.H{"breaker": br.BreakerState().String()}
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// surfaceCookie returns the site cookies the surface wants forwarded.
func surfaceCookie(c *gin.Context) string {
	if v := c.GetHeader(middleware.CookieHeader); v != "" {
		return v
	}
	return c.GetHeader("Cookie")
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/pipeline-demo/internal/infrastructure/tracing"
)

const (
	helloMessage = "hello"
	httpMessage  = "HTTP request received"
)

// SessionCounter reports how many websocket sessions are open.
type SessionCounter interface {
	ActiveSessions() int64
}

// Handlers contains the HTTP handlers
type Handlers struct {
	logger   *zap.Logger
	now      func() time.Time
	sessions []SessionCounter
}

// Option configures Handlers.
type Option func(*Handlers)

// WithClock overrides the time source used for response timestamps.
func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		h.now = now
	}
}

// WithSessionCounters feeds open websocket session counts into Health.
func WithSessionCounters(counters ...SessionCounter) Option {
	return func(h *Handlers) {
		h.sessions = append(h.sessions, counters...)
	}
}

// NewHandlers creates a new handler set
func NewHandlers(logger *zap.Logger, opts ...Option) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handlers{
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register binds every handler to its path.
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/api/hello", h.Hello)
	r.GET("/api/http", h.HTTP)
}

// Root handles the service banner
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "pipeline-demo",
	})
}

// Health reports liveness and the number of open websocket sessions
func (h *Handlers) Health(c *gin.Context) {
	var open int64
	for _, s := range h.sessions {
		open += s.ActiveSessions()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"ws_sessions": open,
	})
}

// Hello handles GET /api/hello
func (h *Handlers) Hello(c *gin.Context) {
	h.greet(c, gin.H{
		"message": helloMessage,
		"ts":      h.timestamp(),
	})
}

// HTTP handles GET /api/http
func (h *Handlers) HTTP(c *gin.Context) {
	h.greet(c, gin.H{
		"message":   httpMessage,
		"timestamp": h.timestamp(),
	})
}

func (h *Handlers) greet(c *gin.Context, body gin.H) {
	h.logger.Debug("greeting",
		zap.String("request_id", tracing.GetRequestID(c.Request.Context()).String()),
		zap.String("path", c.FullPath()),
	)
	c.JSON(http.StatusOK, body)
}

// timestamp renders the current instant as ISO-8601 in UTC.
func (h *Handlers) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

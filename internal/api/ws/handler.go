package ws

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/example/pipeline-demo/internal/infrastructure/monitoring"
	"github.com/example/pipeline-demo/internal/infrastructure/tracing"
	"github.com/example/pipeline-demo/internal/shared/id"
)

const defaultWriteWait = 10 * time.Second

// Handler accepts websocket connections on one endpoint and drives each
// session's lifecycle through a Listener.
type Handler struct {
	endpoint  string
	listener  Listener
	logger    *zap.Logger
	metrics   *monitoring.Metrics
	upgrader  websocket.Upgrader
	writeWait time.Duration
	newID     func() id.SessionID
	active    atomic.Int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithMetrics records session and message metrics.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// WithSessionIDGenerator replaces the session id source.
func WithSessionIDGenerator(fn func() id.SessionID) Option {
	return func(h *Handler) {
		h.newID = fn
	}
}

// WithWriteWait bounds each outbound frame write. Zero disables the deadline.
func WithWriteWait(d time.Duration) Option {
	return func(h *Handler) {
		h.writeWait = d
	}
}

// NewHandler creates a new WebSocket handler for endpoint.
func NewHandler(endpoint string, listener Listener, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		endpoint: endpoint,
		listener: listener,
		logger:   logger,
		upgrader: websocket.Upgrader{
			// Origin policy is enforced by the CORS middleware in front
			// of this handler, in every mode.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		writeWait: defaultWriteWait,
		newID:     id.NewSessionID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the endpoint name used in logs and metrics.
func (h *Handler) Endpoint() string { return h.endpoint }

// ActiveSessions returns the number of sessions currently open.
func (h *Handler) ActiveSessions() int64 { return h.active.Load() }

// HandleConnection handles WebSocket upgrade and then serves the session
// until the peer goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	// Recorded for the request tracer; the hijacked connection never
	// flushes it through gin.
	c.Writer.WriteHeader(http.StatusSwitchingProtocols)

	// Headers set upstream (X-Request-Id, CORS) go out with the handshake.
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, c.Writer.Header().Clone())
	if err != nil {
		// The upgrader has already replied with an HTTP error.
		h.logger.Warn("websocket upgrade failed",
			zap.String("request_id", tracing.RequestIDFromGin(c).String()),
			zap.String("endpoint", h.endpoint),
			zap.Error(err),
		)
		return
	}

	h.serve(newConnSession(h.newID(), conn, h.writeWait))
}

func (h *Handler) serve(sess *connSession) {
	h.active.Add(1)
	h.metrics.SessionOpened(h.endpoint)

	defer func() {
		sess.close()
		h.active.Add(-1)
		h.metrics.SessionClosed(h.endpoint)
		h.listener.OnClose(sess)
	}()

	h.listener.OnOpen(sess)

	for {
		messageType, data, err := sess.conn.ReadMessage()
		if err != nil {
			if !isNormalClose(err) {
				h.fail(sess, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		h.metrics.MessageReceived(h.endpoint)
		if err := h.listener.OnMessage(sess, string(data)); err != nil {
			h.fail(sess, err)
			return
		}
		h.metrics.MessageSent(h.endpoint)
	}
}

func (h *Handler) fail(sess *connSession, err error) {
	h.metrics.SessionError(h.endpoint)
	h.listener.OnError(sess, err)
}

// isNormalClose reports whether err is an orderly close from the peer.
func isNormalClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}

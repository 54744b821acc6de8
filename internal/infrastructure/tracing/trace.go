package tracing

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/pipeline-demo/internal/shared/id"
)

// HeaderRequestID carries the correlation id back to the client.
const HeaderRequestID = "X-Request-Id"

// Record is the per-request state kept between BEGIN and END. It never
// outlives the request it describes.
type Record struct {
	RequestID id.RequestID
	Method    string
	Path      string
	Start     time.Time
	Status    int
	Elapsed   time.Duration
	Err       error
}

// Tracer emits a BEGIN/END log pair for every request it wraps.
type Tracer struct {
	logger *zap.Logger
	newID  func() id.RequestID
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithIDGenerator replaces the correlation id source.
func WithIDGenerator(fn func() id.RequestID) Option {
	return func(t *Tracer) {
		t.newID = fn
	}
}

// New creates a tracer that logs to logger.
func New(logger *zap.Logger, opts ...Option) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		logger: logger,
		newID:  id.NewRequestID,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Begin starts a record for the request and logs BEGIN.
func (t *Tracer) Begin(method, path string) *Record {
	rec := &Record{
		RequestID: t.newID(),
		Method:    method,
		Path:      path,
		Start:     time.Now(),
	}

	t.logger.Info("BEGIN",
		zap.String("request_id", rec.RequestID.String()),
		zap.String("method", rec.Method),
		zap.String("path", rec.Path),
	)
	return rec
}

// End completes the record with the final status and logs END.
func (t *Tracer) End(rec *Record, status int, err error) {
	rec.Status = status
	rec.Elapsed = time.Since(rec.Start)
	rec.Err = err

	fields := []zap.Field{
		zap.String("request_id", rec.RequestID.String()),
		zap.Int("status", rec.Status),
		zap.Int64("took_ms", rec.Elapsed.Milliseconds()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	t.logger.Info("END", fields...)
}

// Context keys for request id propagation
type contextKey string

const requestIDKey contextKey = "request_id"

// ginRequestIDKey is the gin.Context key holding the correlation id.
const ginRequestIDKey = "request_id"

// WithRequestID stores the correlation id in ctx.
func WithRequestID(ctx context.Context, rid id.RequestID) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// GetRequestID retrieves the correlation id from context.
func GetRequestID(ctx context.Context) id.RequestID {
	if rid, ok := ctx.Value(requestIDKey).(id.RequestID); ok {
		return rid
	}
	return ""
}

// RequestIDFromGin returns the correlation id stored by HTTPMiddleware.
func RequestIDFromGin(c *gin.Context) id.RequestID {
	if v, ok := c.Get(ginRequestIDKey); ok {
		if rid, ok := v.(id.RequestID); ok {
			return rid
		}
	}
	return ""
}

package tracing

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/example/pipeline-demo/internal/shared/id"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.InfoLevel)
	tracer := New(zap.New(core))

	router := gin.New()
	router.Use(gin.RecoveryWithWriter(io.Discard))
	router.Use(HTTPMiddleware(tracer))
	return router, logs
}

func entriesFor(logs *observer.ObservedLogs, rid string) []observer.LoggedEntry {
	var out []observer.LoggedEntry
	for _, e := range logs.All() {
		if e.ContextMap()["request_id"] == rid {
			out = append(out, e)
		}
	}
	return out
}

func TestHTTPMiddlewareSetsRequestID(t *testing.T) {
	router, _ := setupTestRouter(t)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	rid := w.Header().Get(HeaderRequestID)
	assert.True(t, id.IsValidRequestID(rid), "header should carry a UUID, got %q", rid)
	assert.JSONEq(t, `{"message":"success"}`, w.Body.String())
}

func TestHTTPMiddlewareIgnoresInboundRequestID(t *testing.T) {
	router, _ := setupTestRouter(t)
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "client-chosen")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.NotEqual(t, "client-chosen", w.Header().Get(HeaderRequestID))
}

func TestHTTPMiddlewareUniqueAcrossConcurrentRequests(t *testing.T) {
	router, logs := setupTestRouter(t)
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	const n = 1000
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			ids <- w.Header().Get(HeaderRequestID)
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for rid := range ids {
		require.True(t, id.IsValidRequestID(rid))
		_, dup := seen[rid]
		require.False(t, dup, "duplicate request id %s", rid)
		seen[rid] = struct{}{}
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n, logs.FilterMessage("BEGIN").Len())
	assert.Equal(t, n, logs.FilterMessage("END").Len())
}

func TestHTTPMiddlewareBeginThenEnd(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantErr    string
	}{
		{
			name:       "ok",
			handler:    func(c *gin.Context) { c.String(http.StatusOK, "ok") },
			wantStatus: http.StatusOK,
		},
		{
			name: "handler error",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("upstream unavailable"))
				c.Status(http.StatusBadGateway)
			},
			wantStatus: http.StatusBadGateway,
			wantErr:    "upstream unavailable",
		},
		{
			name:       "handler panic",
			handler:    func(c *gin.Context) { panic("boom") },
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "handler panic after write",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "partial")
				panic("boom")
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, logs := setupTestRouter(t)
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, tt.wantStatus, w.Code)

			rid := w.Header().Get(HeaderRequestID)
			require.NotEmpty(t, rid)

			entries := entriesFor(logs, rid)
			require.Len(t, entries, 2)
			assert.Equal(t, "BEGIN", entries[0].Message)
			assert.Equal(t, "END", entries[1].Message)

			begin := entries[0].ContextMap()
			assert.Equal(t, http.MethodGet, begin["method"])
			assert.Equal(t, "/test", begin["path"])

			end := entries[1].ContextMap()
			assert.EqualValues(t, tt.wantStatus, end["status"])
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, end["error"])
			} else {
				assert.NotContains(t, end, "error")
			}
		})
	}
}

func TestHTTPMiddlewareElapsed(t *testing.T) {
	router, logs := setupTestRouter(t)
	router.GET("/slow", func(c *gin.Context) {
		time.Sleep(25 * time.Millisecond)
		c.Status(http.StatusOK)
	})

	start := time.Now()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	wall := time.Since(start)

	ends := logs.FilterMessage("END").All()
	require.Len(t, ends, 1)

	took, ok := ends[0].ContextMap()["took_ms"].(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, took, int64(25))
	assert.LessOrEqual(t, took, wall.Milliseconds())
}

func TestHTTPMiddlewareTracesUnmatchedRoutes(t *testing.T) {
	router, logs := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	ends := logs.FilterMessage("END").All()
	require.Len(t, ends, 1)
	assert.EqualValues(t, http.StatusNotFound, ends[0].ContextMap()["status"])
}

func TestHTTPMiddlewarePropagatesRequestID(t *testing.T) {
	router, _ := setupTestRouter(t)

	var fromCtx, fromGin id.RequestID
	router.GET("/test", func(c *gin.Context) {
		fromCtx = GetRequestID(c.Request.Context())
		fromGin = RequestIDFromGin(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

	rid := w.Header().Get(HeaderRequestID)
	assert.Equal(t, rid, fromCtx.String())
	assert.Equal(t, rid, fromGin.String())
}

func TestTracerWithIDGenerator(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	tracer := New(zap.New(core), WithIDGenerator(func() id.RequestID { return "fixed" }))

	rec := tracer.Begin(http.MethodPost, "/x")
	tracer.End(rec, http.StatusCreated, nil)

	assert.Equal(t, id.RequestID("fixed"), rec.RequestID)
	assert.Equal(t, http.StatusCreated, rec.Status)
	assert.GreaterOrEqual(t, rec.Elapsed, time.Duration(0))
	assert.Len(t, entriesFor(logs, "fixed"), 2)
}

func TestNewWithNilLogger(t *testing.T) {
	tracer := New(nil)
	rec := tracer.Begin(http.MethodGet, "/")
	assert.NotPanics(t, func() { tracer.End(rec, http.StatusOK, nil) })
}

func BenchmarkHTTPMiddleware(b *testing.B) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(HTTPMiddleware(New(zap.NewNop())))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

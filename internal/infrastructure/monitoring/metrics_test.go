package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Two collectors must not collide on registration.
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.SessionOpened("ws")
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.WSSessions.WithLabelValues("ws")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.WSSessions.WithLabelValues("ws")))
}

func TestSessionLifecycleMetrics(t *testing.T) {
	m := NewMetrics()

	m.SessionOpened("ws-old")
	m.MessageReceived("ws-old")
	m.MessageSent("ws-old")
	m.MessageSent("ws-old")
	m.SessionError("ws-old")
	m.SessionClosed("ws-old")

	assert.Equal(t, 0.0, testutil.ToFloat64(m.WSSessions.WithLabelValues("ws-old")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSMessages.WithLabelValues("ws-old", "in")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WSMessages.WithLabelValues("ws-old", "out")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WSErrors.WithLabelValues("ws-old")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", "200", time.Millisecond, 10)
		m.SessionOpened("ws")
		m.MessageReceived("ws")
		m.MessageSent("ws")
		m.SessionError("ws")
		m.SessionClosed("ws")
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/hello", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "hello"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/hello", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/hello", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedPath, "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewMetrics()
	m.SessionOpened("ws")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `demo_ws_sessions_active{endpoint="ws"} 1`)
	assert.Contains(t, body, "demo_uptime_seconds")
	assert.Contains(t, body, "go_goroutines")
}

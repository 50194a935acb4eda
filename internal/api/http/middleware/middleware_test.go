package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	r := gin.New()
	r.Use(RequestIDMiddleware(zap.New(core)))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})

	t.Run("echoes a supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-Id", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
		assert.Equal(t, "abc-123", w.Body.String())
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		rid := w.Header().Get("X-Request-Id")
		assert.Len(t, rid, 36)
		assert.Equal(t, rid, w.Body.String())
	})

	entries := logs.FilterMessage("request").All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth", NewRateLimiter(1, 2).Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(60, 2)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	assert.True(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.clients, 2)

	clock = clock.Add(30 * time.Second)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.clients, 2)

	clock = clock.Add(45 * time.Second)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Len(t, l.clients, 2)
	assert.NotContains(t, l.clients, "10.0.0.1")
	assert.Contains(t, l.clients, "10.0.0.2")
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	r := gin.New()
	r.Use(m.Handler())
	r.GET("/api/records", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/records", nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	expected := `
# HELP godscruiseline_http_requests_total HTTP requests by route, method and status.
# TYPE godscruiseline_http_requests_total counter
godscruiseline_http_requests_total{method="GET",route="/api/records",status="200"} 2
godscruiseline_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "godscruiseline_http_requests_total"))
}

package http

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
)

func TestStreamRelaysChangeEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := repository.NewRedisStore(client, repository.ProjectTable)

	r := gin.New()
	NewStreamHandler(store).Register(r.Group("/api/projects"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/projects/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if l := lines.Text(); l != "" {
				return l
			}
		}
		return ""
	}
	require.Equal(t, "event: ready", next())
	require.Equal(t, "data: {}", next())

	_, err = store.Insert(ctx, domain.Project{ID: "terminal-ops", Name: "Terminal Ops", Status: "public"})
	require.NoError(t, err)

	assert.Equal(t, "event: insert", next())
	data := next()
	assert.True(t, strings.HasPrefix(data, "data: "))
	assert.JSONEq(t, `{"op":"insert","id":"terminal-ops"}`, strings.TrimPrefix(data, "data: "))
}

type downSubscriber struct{}

func (downSubscriber) Subscribe(context.Context) (<-chan repository.ChangeEvent, func() error, error) {
	return nil, nil, errors.New("redis: connection refused")
}

func TestStreamSubscribeFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewStreamHandler(downSubscriber{}).Register(r.Group("/api/records"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/records/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Event stream unavailable"}`, w.Body.String())
}

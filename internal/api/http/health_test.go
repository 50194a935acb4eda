package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name  string
		store Pinger
		want  string
	}{
		{"no store", nil, "disabled"},
		{"store up", pingFunc(func(context.Context) error { return nil }), "up"},
		{"store down", pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }), "down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler("godscruiseline-api", "test", "sqlite", tc.store).RegisterRoutes(r)

			for _, path := range []string{"/health", "/healthz"} {
				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				require.Equal(t, http.StatusOK, w.Code)

				var resp HealthResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "healthy", resp.Status)
				assert.Equal(t, "godscruiseline-api", resp.Service)
				assert.Equal(t, tc.want, resp.Store)
			}
		})
	}
}

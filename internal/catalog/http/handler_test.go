package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
	"github.com/tearaglass/godscruiseline/internal/catalog/service"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repository.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := service.New(repository.NewSQLiteStore(db, repository.RecordTable), service.Records, nil)
	projects := service.New(repository.NewSQLiteStore(db, repository.ProjectTable), service.Projects, nil)

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(MethodNotAllowed)
	NewHandler[domain.Record](records).Register(r.Group("/api/records"))
	NewHandler[domain.Project](projects).Register(r.Group("/api/projects"))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func do(t *testing.T, r http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

const validRecord = `{"id":"GC-R-100","title":"T","division":"access","medium":"text","year":2026,"status":"public"}`

func TestRecordLifecycle(t *testing.T) {
	r := setupRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/records", validRecord)
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	var created domain.Record
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "GC-R-100", created.ID)
	assert.Equal(t, 2026, created.Year)

	code, env = do(t, r, http.MethodGet, "/api/records?id=GC-R-100", "")
	require.Equal(t, http.StatusOK, code)
	var fetched domain.Record
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created, fetched)

	code, env = do(t, r, http.MethodPost, "/api/records", validRecord)
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)
	assert.Equal(t, "Record with this ID already exists", env.Error)

	code, env = do(t, r, http.MethodPut, "/api/records", `{"id":"GC-R-100","status":"archived"}`)
	require.Equal(t, http.StatusOK, code)
	var updated domain.Record
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "archived", updated.Status)
	assert.Equal(t, "T", updated.Title)

	code, env = do(t, r, http.MethodDelete, "/api/records?id=GC-R-100", "")
	require.Equal(t, http.StatusOK, code)
	var deleted domain.Record
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, "GC-R-100", deleted.ID)

	for i := 0; i < 2; i++ {
		code, env = do(t, r, http.MethodDelete, "/api/records?id=GC-R-100", "")
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Record not found", env.Error)
	}
}

func TestRecordErrors(t *testing.T) {
	r := setupRouter(t)

	cases := []struct {
		name, method, target, body string
		status                     int
		msg                        string
	}{
		{"missing fields", http.MethodPost, "/api/records", `{"id":"GC-R-100","medium":"text"}`,
			http.StatusBadRequest, "Missing required fields: title, division, year, status"},
		{"malformed body", http.MethodPost, "/api/records", `{"id":`, http.StatusBadRequest, "Invalid JSON body"},
		{"get unknown", http.MethodGet, "/api/records?id=nope", "", http.StatusNotFound, "Record not found"},
		{"update unknown", http.MethodPut, "/api/records", `{"id":"missing-id","title":"x"}`, http.StatusNotFound, "Record not found"},
		{"update without id", http.MethodPut, "/api/records", `{"title":"x"}`, http.StatusBadRequest, "Record ID is required"},
		{"update empty body", http.MethodPut, "/api/records", "", http.StatusBadRequest, "Invalid JSON body"},
		{"delete without id", http.MethodDelete, "/api/records", "", http.StatusBadRequest, "Record ID is required"},
		{"unsupported method", http.MethodPatch, "/api/records", `{}`, http.StatusMethodNotAllowed, "Method not allowed"},
		{"project not found", http.MethodGet, "/api/projects?id=nope", "", http.StatusNotFound, "Project not found"},
		{"project missing fields", http.MethodPost, "/api/projects", `{"name":"N"}`, http.StatusBadRequest, "Missing required fields: id, status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := do(t, r, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.status, code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Error)
		})
	}
}

func TestUpdateOnUnknownKeyLeavesStoreUnchanged(t *testing.T) {
	r := setupRouter(t)
	code, _ := do(t, r, http.MethodPost, "/api/records", validRecord)
	require.Equal(t, http.StatusCreated, code)

	code, _ = do(t, r, http.MethodPut, "/api/records", `{"id":"missing-id","title":"x"}`)
	require.Equal(t, http.StatusNotFound, code)

	_, env := do(t, r, http.MethodGet, "/api/records", "")
	var all []domain.Record
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 1)
	assert.Equal(t, "T", all[0].Title)
}

func TestListOrderedAndEmptyIsArray(t *testing.T) {
	r := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())

	for _, id := range []string{"terminal-ops", "continuity-ledger", "signal-architecture"} {
		code, _ := do(t, r, http.MethodPost, "/api/projects", `{"id":"`+id+`","name":"N","status":"public"}`)
		require.Equal(t, http.StatusCreated, code)
	}
	_, env := do(t, r, http.MethodGet, "/api/projects", "")
	var all []domain.Project
	require.NoError(t, json.Unmarshal(env.Data, &all))
	ids := []string{all[0].ID, all[1].ID, all[2].ID}
	assert.Equal(t, []string{"continuity-ledger", "signal-architecture", "terminal-ops"}, ids)
}

func TestPreflightWithoutOrigin(t *testing.T) {
	r := setupRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/records", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type failingBackend struct{}

func (failingBackend) Noun() string { return "Record" }
func (failingBackend) List(context.Context) ([]domain.Record, error) {
	return nil, errors.New("connection refused")
}
func (failingBackend) Get(context.Context, string) (domain.Record, error) {
	return domain.Record{}, errors.New("connection refused")
}
func (failingBackend) Create(context.Context, domain.Record) (domain.Record, error) {
	return domain.Record{}, errors.New("connection refused")
}
func (failingBackend) Update(context.Context, []byte) (domain.Record, error) {
	return domain.Record{}, errors.New("connection refused")
}
func (failingBackend) Delete(context.Context, string) (domain.Record, error) {
	return domain.Record{}, errors.New("connection refused")
}

func TestUnhandledFailurePassesMessageThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler[domain.Record](failingBackend{}).Register(r.Group("/api/records"))

	code, env := do(t, r, http.MethodGet, "/api/records", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.False(t, env.Success)
	assert.Equal(t, "connection refused", env.Error)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/internal/models"
	"taskmanager/internal/service"
	"taskmanager/internal/storage"
	"taskmanager/internal/storage/memory"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type testServer struct {
	t   *testing.T
	srv *Server
	now time.Time
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	ts := &testServer{t: t, now: time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)}
	svc := service.New(memory.New(), quiet, service.WithClock(func() time.Time { return ts.now }))
	ts.srv = New(svc, quiet, opts)
	return ts
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(ts.t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Task Management API is running"}`, rec.Body.String())
}

type downRepo struct {
	storage.TaskRepository
}

func (downRepo) Ping(context.Context) error { return errors.New("connection refused") }

func (downRepo) Count(context.Context, storage.CountFilter) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestHealthDegradedAndStoreFailure(t *testing.T) {
	srv := New(service.New(downRepo{TaskRepository: memory.New()}, quiet), quiet, Options{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "DEGRADED")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/stats/overview", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch task statistics"}`, rec.Body.String(), "store detail is not exposed")
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	milk := decode[models.Task](t, rec)
	assert.Equal(t, "Buy milk", milk.Title)
	assert.Equal(t, models.StatusPending, milk.Status)
	assert.Equal(t, models.PriorityMedium, milk.Priority)
	assert.Nil(t, milk.Description)
	assert.Nil(t, milk.DueDate)
	assert.True(t, milk.CreatedAt.Equal(milk.UpdatedAt))

	rec = ts.do(http.MethodGet, "/api/tasks/stats/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.Stats{Total: 1, Pending: 1}, decode[models.Stats](t, rec))

	ts.now = ts.now.Add(time.Minute)
	rec = ts.do(http.MethodPatch, "/api/tasks/"+milk.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	toggled := decode[models.Task](t, rec)
	assert.Equal(t, models.StatusCompleted, toggled.Status)
	assert.True(t, toggled.UpdatedAt.After(milk.UpdatedAt))

	rec = ts.do(http.MethodGet, "/api/tasks/stats/overview", nil)
	assert.Equal(t, models.Stats{Total: 1, Completed: 1}, decode[models.Stats](t, rec))

	rec = ts.do(http.MethodDelete, "/api/tasks/"+milk.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = ts.do(http.MethodGet, "/api/tasks/"+milk.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", errorMessage(t, rec))

	rec = ts.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestOverdueRent(t *testing.T) {
	ts := newTestServer(t, Options{})

	rec := ts.do(http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Pay rent",
		"priority": "HIGH",
		"dueDate":  "2026-04-14T00:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rent := decode[models.Task](t, rec)

	rec = ts.do(http.MethodGet, "/api/tasks/stats/overview", nil)
	assert.EqualValues(t, 1, decode[models.Stats](t, rec).Overdue)

	rec = ts.do(http.MethodPut, "/api/tasks/"+rent.ID, map[string]any{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Task](t, rec)
	assert.Equal(t, "Pay rent", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)

	rec = ts.do(http.MethodGet, "/api/tasks/stats/overview", nil)
	assert.Equal(t, models.Stats{Total: 1, Completed: 1}, decode[models.Stats](t, rec))
}

func TestUpdateClearsDueDateWithNull(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "Plan trip", "dueDate": "2026-05-01", "description": "Lisbon"})
	require.Equal(t, http.StatusCreated, rec.Code)
	trip := decode[models.Task](t, rec)

	rec = ts.do(http.MethodPut, "/api/tasks/"+trip.ID, `{"dueDate":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[models.Task](t, rec)
	assert.Nil(t, updated.DueDate)
	require.NotNil(t, updated.Description, "absent fields are untouched")
	assert.Equal(t, "Lisbon", *updated.Description)
}

func TestUpdateWithoutBodyKeepsTask(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "Plan trip", "priority": "HIGH"})
	require.Equal(t, http.StatusCreated, rec.Code)
	trip := decode[models.Task](t, rec)

	ts.now = ts.now.Add(time.Hour)
	rec = ts.do(http.MethodPut, "/api/tasks/"+trip.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	same := decode[models.Task](t, rec)
	assert.Equal(t, "Plan trip", same.Title)
	assert.Equal(t, models.PriorityHigh, same.Priority)
	assert.True(t, same.UpdatedAt.Equal(trip.UpdatedAt))

	rec = ts.do(http.MethodPut, "/api/tasks/"+trip.ID, "{")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorMessage(t, rec))
}

func TestListFilters(t *testing.T) {
	ts := newTestServer(t, Options{})
	for _, body := range []map[string]any{
		{"title": "Buy milk"},
		{"title": "Pay rent", "priority": "HIGH"},
		{"title": "Water plants", "priority": "LOW"},
	} {
		require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/tasks", body).Code)
		ts.now = ts.now.Add(time.Second)
	}

	titles := func(path string) []string {
		rec := ts.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []string
		for _, task := range decode[[]models.Task](t, rec) {
			out = append(out, task.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Water plants", "Pay rent", "Buy milk"}, titles("/api/tasks"))
	assert.Equal(t, []string{"Pay rent", "Buy milk", "Water plants"}, titles("/api/tasks?sortBy=priority&order=desc"))
	assert.Equal(t, []string{"Buy milk"}, titles("/api/tasks?status=PENDING&priority=MEDIUM"))
	assert.Empty(t, titles("/api/tasks?status=COMPLETED&priority=HIGH"))
}

func TestBadRequests(t *testing.T) {
	ts := newTestServer(t, Options{})
	rec := ts.do(http.MethodPost, "/api/tasks", map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	milk := decode[models.Task](t, rec)

	tests := []struct {
		name    string
		method  string
		path    string
		body    any
		code    int
		message string
	}{
		{"blank title", http.MethodPost, "/api/tasks", map[string]any{"title": "   "}, http.StatusBadRequest, "Title is required"},
		{"missing title", http.MethodPost, "/api/tasks", map[string]any{"description": "x"}, http.StatusBadRequest, "Title is required"},
		{"malformed json", http.MethodPost, "/api/tasks", `{"title":`, http.StatusBadRequest, "Invalid request body"},
		{"bad priority", http.MethodPost, "/api/tasks", map[string]any{"title": "x", "priority": "URGENT"}, http.StatusBadRequest, `Invalid priority "URGENT"`},
		{"null title on update", http.MethodPut, "/api/tasks/" + milk.ID, `{"title":null}`, http.StatusBadRequest, "Title cannot be empty"},
		{"bad sort field", http.MethodGet, "/api/tasks?sortBy=color", nil, http.StatusBadRequest, `Invalid sort field "color"`},
		{"malformed id", http.MethodGet, "/api/tasks/42", nil, http.StatusBadRequest, "Invalid task id"},
		{"unknown id", http.MethodDelete, "/api/tasks/6f1c1d2e-3b4a-4c5d-8e9f-0a1b2c3d4e5f", nil, http.StatusNotFound, "Task not found"},
		{"unknown api path", http.MethodGet, "/api/projects", nil, http.StatusNotFound, "endpoint not found"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := ts.do(tc.method, tc.path, tc.body)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.message, errorMessage(t, rec))
		})
	}
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, Options{AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticFrontend(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>tasks</html>"), 0o644))

	ts := newTestServer(t, Options{StaticDir: dir})

	rec := ts.do(http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasks")

	rec = ts.do(http.MethodGet, "/tasks/some/client/route", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tasks")

	rec = ts.do(http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "endpoint not found", errorMessage(t, rec))
}

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
)

func newTestServer(t *testing.T) (*db.Store, http.Handler) {
	t.Helper()

	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := db.NewStore(sqlDB, time.UTC)
	return store, NewServer(store).Handler()
}

func TestTasksEndpoint(t *testing.T) {
	store, handler := newTestServer(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, db.AddTaskParams{Title: "from api"})
	require.NoError(t, err)
	_, err = store.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	_, err = store.AddTask(ctx, db.AddTaskParams{Title: "still open"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?scope=done", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "from api", tasks[0].Title)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks?scope=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskByIDEndpoint(t *testing.T) {
	store, handler := newTestServer(t)

	task, err := store.AddTask(context.Background(), db.AddTaskParams{Title: "lookup"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, task.ID, got.ID)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tasks/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemindersEndpoint(t *testing.T) {
	store, handler := newTestServer(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, db.AddTaskParams{Title: "with reminder"})
	require.NoError(t, err)
	_, err = store.SetReminder(ctx, task.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reminders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var reminders []model.Reminder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reminders))
	require.Len(t, reminders, 1)
	assert.Equal(t, "with reminder", reminders[0].TaskTitle)
}

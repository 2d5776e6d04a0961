package reminder

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
)

var testNow = time.Date(2025, time.October, 20, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *db.Store {
	t.Helper()

	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := db.NewStore(sqlDB, time.UTC)
	store.Now = func() time.Time { return testNow }
	return store
}

func TestTickFiresDueRemindersOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, db.AddTaskParams{Title: "due now"})
	require.NoError(t, err)
	_, err = store.SetReminder(ctx, task.ID, testNow.Add(-time.Minute))
	require.NoError(t, err)
	_, err = store.SetReminder(ctx, task.ID, testNow.Add(time.Hour))
	require.NoError(t, err)

	var fired []model.FiredReminder
	p := NewPoller(store, time.Minute, func(f model.FiredReminder) {
		fired = append(fired, f)
	}, slog.Default())
	p.now = func() time.Time { return testNow }

	p.Tick(ctx)
	require.Len(t, fired, 1)
	assert.Equal(t, task.ID, fired[0].TaskID)
	assert.Equal(t, "due now", fired[0].TaskTitle)

	// Nothing new to claim on the next tick.
	p.Tick(ctx)
	assert.Len(t, fired, 1)

	// The later reminder fires once its time passes.
	p.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	p.Tick(ctx)
	assert.Len(t, fired, 2)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newTestStore(t)

	p := NewPoller(store, 10*time.Millisecond, func(model.FiredReminder) {}, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

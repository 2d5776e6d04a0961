package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetReminderRequiresTask(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SetReminder(context.Background(), 999, testNow.Add(time.Hour))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClaimDueRemindersOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, AddTaskParams{Title: "claim me"})
	require.NoError(t, err)

	past, err := store.SetReminder(ctx, task.ID, testNow.Add(-time.Minute))
	require.NoError(t, err)
	// Boundary: due exactly at now fires now.
	exact, err := store.SetReminder(ctx, task.ID, testNow)
	require.NoError(t, err)
	future, err := store.SetReminder(ctx, task.ID, testNow.Add(time.Hour))
	require.NoError(t, err)

	fired, err := store.ClaimDueReminders(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, fired, 2)
	assert.Equal(t, past.ID, fired[0].ID)
	assert.Equal(t, exact.ID, fired[1].ID)
	assert.Equal(t, "claim me", fired[0].TaskTitle)

	// A second claim at the same instant finds nothing.
	fired, err = store.ClaimDueReminders(ctx, testNow)
	require.NoError(t, err)
	assert.Empty(t, fired)

	// The future reminder fires when its time arrives.
	fired, err = store.ClaimDueReminders(ctx, testNow.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, fired, 1)
	assert.Equal(t, future.ID, fired[0].ID)
}

func TestSnoozeReminder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, AddTaskParams{Title: "snooze me"})
	require.NoError(t, err)
	reminder, err := store.SetReminder(ctx, task.ID, testNow.Add(time.Hour))
	require.NoError(t, err)

	snoozed, err := store.SnoozeReminder(ctx, reminder.ID, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, snoozed.RemindAt.Equal(testNow.Add(75*time.Minute)))

	_, err = store.SnoozeReminder(ctx, reminder.ID, 0)
	require.ErrorIs(t, err, ErrValidation)
	_, err = store.SnoozeReminder(ctx, reminder.ID, -time.Minute)
	require.ErrorIs(t, err, ErrValidation)
	_, err = store.SnoozeReminder(ctx, 999, time.Minute)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSnoozeSentReminderFails(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, AddTaskParams{Title: "already fired"})
	require.NoError(t, err)
	reminder, err := store.SetReminder(ctx, task.ID, testNow.Add(-time.Minute))
	require.NoError(t, err)

	fired, err := store.ClaimDueReminders(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, fired, 1)

	_, err = store.SnoozeReminder(ctx, reminder.ID, 5*time.Minute)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelReminder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, AddTaskParams{Title: "cancel me"})
	require.NoError(t, err)
	reminder, err := store.SetReminder(ctx, task.ID, testNow.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, store.CancelReminder(ctx, reminder.ID))
	require.ErrorIs(t, store.CancelReminder(ctx, reminder.ID), ErrNotFound)

	// A canceled reminder never fires.
	fired, err := store.ClaimDueReminders(ctx, testNow.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, fired)
}

func TestListReminders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	task, err := store.AddTask(ctx, AddTaskParams{Title: "listed"})
	require.NoError(t, err)
	_, err = store.SetReminder(ctx, task.ID, testNow.Add(-time.Minute))
	require.NoError(t, err)
	pending, err := store.SetReminder(ctx, task.ID, testNow.Add(time.Hour))
	require.NoError(t, err)

	_, err = store.ClaimDueReminders(ctx, testNow)
	require.NoError(t, err)

	onlyPending, err := store.ListReminders(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, pending.ID, onlyPending[0].ID)
	assert.Equal(t, "listed", onlyPending[0].TaskTitle)

	all, err := store.ListReminders(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Pending sorts before sent.
	assert.False(t, all[0].Sent)
	assert.True(t, all[1].Sent)
}

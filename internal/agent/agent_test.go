package agent

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/todoagent/internal/dispatch"
	"github.com/Joseda-hg/todoagent/internal/model"
)

func TestResultPayloadShapes(t *testing.T) {
	task := model.Task{ID: 7, Title: "buy milk"}
	out := resultPayload(dispatch.Result{Task: &task, Warning: dispatch.WarnDueIsPast})

	var got map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "task")
	assert.JSONEq(t, `"due_is_past"`, string(got["warning"]))

	resolved := time.Date(2025, time.October, 21, 17, 0, 0, 0, time.UTC)
	out = resultPayload(dispatch.Result{Resolved: &resolved})
	got = nil
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "resolved")
	assert.NotContains(t, got, "warning")

	out = resultPayload(dispatch.Result{})
	assert.JSONEq(t, `{"ok":true}`, out)
}

func TestErrorPayload(t *testing.T) {
	out := errorPayload(errors.New("task 9: not found"))
	assert.JSONEq(t, `{"error":"task 9: not found"}`, out)
}

func TestToolDefsCoverDecodableOps(t *testing.T) {
	names := []string{
		"add_task", "list_tasks", "complete_task", "update_task",
		"delete_task", "set_reminder", "cancel_reminder",
		"snooze_reminder", "list_reminders", "parse_when", "plan_goal",
		"list_reflections",
	}
	defs := toolDefs()
	require.Len(t, defs, len(names))

	// Every advertised tool must decode; a schema for an op the
	// dispatcher rejects would strand the model.
	for _, name := range names {
		_, err := dispatch.Decode(name, []byte("{}"))
		assert.NoError(t, err, name)
	}
}

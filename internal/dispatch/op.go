package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
)

// Op is one member of the closed set of operations both front ends
// produce. The zero value of each struct is a valid "no extras" form.
type Op interface {
	opName() string
}

type AddTaskOp struct {
	Title   string  `json:"title"`
	DueText *string `json:"due"`
}

type ListTasksOp struct {
	Scope model.Scope `json:"scope"`
}

type CompleteTaskOp struct {
	TaskID int64 `json:"task_id"`
}

type UpdateTaskOp struct {
	TaskID  int64   `json:"task_id"`
	Title   *string `json:"title"`
	DueText *string `json:"due"`
}

type DeleteTaskOp struct {
	TaskID int64 `json:"task_id"`
}

type SetReminderOp struct {
	TaskID   int64  `json:"task_id"`
	RemindAt string `json:"remind_at"`
}

type CancelReminderOp struct {
	ReminderID int64 `json:"reminder_id"`
}

type SnoozeReminderOp struct {
	ReminderID int64 `json:"reminder_id"`
	Minutes    int64 `json:"minutes"`
}

type ListRemindersOp struct {
	OnlyPending *bool `json:"only_pending"`
}

type ParseWhenOp struct {
	Text string `json:"text"`
}

type PlanOp struct {
	Goal string `json:"goal"`
}

type ReflectOp struct{}

func (AddTaskOp) opName() string        { return "add_task" }
func (ListTasksOp) opName() string      { return "list_tasks" }
func (CompleteTaskOp) opName() string   { return "complete_task" }
func (UpdateTaskOp) opName() string     { return "update_task" }
func (DeleteTaskOp) opName() string     { return "delete_task" }
func (SetReminderOp) opName() string    { return "set_reminder" }
func (CancelReminderOp) opName() string { return "cancel_reminder" }
func (SnoozeReminderOp) opName() string { return "snooze_reminder" }
func (ListRemindersOp) opName() string  { return "list_reminders" }
func (ParseWhenOp) opName() string      { return "parse_when" }
func (PlanOp) opName() string           { return "plan_goal" }
func (ReflectOp) opName() string        { return "list_reflections" }

// Decode validates a tool-call payload at the boundary and produces a
// typed Op. Unknown operation names are a validation error, never a
// silent no-op.
func Decode(name string, args []byte) (Op, error) {
	if len(args) == 0 {
		args = []byte("{}")
	}

	switch name {
	case "add_task":
		return decodeArgs[AddTaskOp](name, args)
	case "list_tasks", "list_tasks_filtered":
		return decodeArgs[ListTasksOp](name, args)
	case "complete_task":
		return decodeArgs[CompleteTaskOp](name, args)
	case "update_task":
		return decodeArgs[UpdateTaskOp](name, args)
	case "delete_task":
		return decodeArgs[DeleteTaskOp](name, args)
	case "set_reminder":
		return decodeArgs[SetReminderOp](name, args)
	case "cancel_reminder":
		return decodeArgs[CancelReminderOp](name, args)
	case "snooze_reminder":
		return decodeArgs[SnoozeReminderOp](name, args)
	case "list_reminders":
		return decodeArgs[ListRemindersOp](name, args)
	case "parse_when":
		return decodeArgs[ParseWhenOp](name, args)
	case "plan_goal":
		return decodeArgs[PlanOp](name, args)
	case "list_reflections":
		return decodeArgs[ReflectOp](name, args)
	}
	return nil, fmt.Errorf("%w: unknown operation %q", db.ErrValidation, name)
}

func decodeArgs[T Op](name string, args []byte) (Op, error) {
	var op T
	if err := json.Unmarshal(args, &op); err != nil {
		return nil, fmt.Errorf("%w: bad arguments for %s: %v", db.ErrValidation, name, err)
	}
	return op, nil
}

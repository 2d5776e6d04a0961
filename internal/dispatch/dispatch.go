// Package dispatch maps decoded operations, whether typed by the user
// or produced by an LLM tool call, onto the task and reminder stores.
// Both front ends go through Dispatcher.Execute, so store behavior
// never depends on which one was active.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Joseda-hg/todoagent/internal/dateparse"
	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
	"github.com/Joseda-hg/todoagent/internal/planner"
)

// Warning values attached to results that succeeded with a caveat.
const (
	WarnDueIsPast      = "due_is_past"
	WarnDueParseFailed = "due_parse_failed"
)

// Result is the plain data outcome of one operation. Front ends turn
// it into user-visible text.
type Result struct {
	Task        *model.Task
	Reminder    *model.Reminder
	Tasks       []model.Task
	Reminders   []model.Reminder
	Reflections []model.Reflection
	Resolved    *time.Time
	Planned     []string
	Warning     string
}

type Dispatcher struct {
	Store  *db.Store
	Loc    *time.Location
	Logger *slog.Logger

	// Now is swappable for tests.
	Now func() time.Time
}

func New(store *db.Store, loc *time.Location, logger *slog.Logger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{Store: store, Loc: loc, Logger: logger, Now: time.Now}
}

func (d *Dispatcher) Execute(ctx context.Context, op Op) (Result, error) {
	switch op := op.(type) {
	case AddTaskOp:
		return d.addTask(ctx, op)
	case ListTasksOp:
		return d.listTasks(ctx, op)
	case CompleteTaskOp:
		task, err := d.Store.CompleteTask(ctx, op.TaskID)
		if err != nil {
			return Result{}, err
		}
		return Result{Task: &task}, nil
	case UpdateTaskOp:
		return d.updateTask(ctx, op)
	case DeleteTaskOp:
		return Result{}, d.Store.DeleteTask(ctx, op.TaskID)
	case SetReminderOp:
		return d.setReminder(ctx, op)
	case CancelReminderOp:
		return Result{}, d.Store.CancelReminder(ctx, op.ReminderID)
	case SnoozeReminderOp:
		return d.snoozeReminder(ctx, op)
	case ListRemindersOp:
		onlyPending := op.OnlyPending == nil || *op.OnlyPending
		reminders, err := d.Store.ListReminders(ctx, onlyPending)
		if err != nil {
			return Result{}, err
		}
		return Result{Reminders: reminders}, nil
	case ParseWhenOp:
		resolved, err := d.resolve(op.Text)
		if err != nil {
			return Result{}, err
		}
		return Result{Resolved: &resolved}, nil
	case PlanOp:
		return d.plan(ctx, op)
	case ReflectOp:
		reflections, err := d.Store.ListReflections(ctx)
		if err != nil {
			return Result{}, err
		}
		return Result{Reflections: reflections}, nil
	}
	return Result{}, fmt.Errorf("%w: unsupported operation %T", db.ErrValidation, op)
}

func (d *Dispatcher) addTask(ctx context.Context, op AddTaskOp) (Result, error) {
	params := db.AddTaskParams{Title: op.Title}
	var warning string

	if op.DueText != nil && *op.DueText != "" {
		params.DueText = op.DueText
		resolved, err := d.resolve(*op.DueText)
		switch {
		case errors.Is(err, dateparse.ErrUnparseable):
			// Keep the raw phrase; the task is still worth saving.
			d.Logger.Debug("due phrase not parseable", "phrase", *op.DueText)
			warning = WarnDueParseFailed
		case err != nil:
			return Result{}, err
		default:
			params.DueAt = &resolved
			if resolved.Before(d.Now()) {
				warning = WarnDueIsPast
			}
		}
	}

	task, err := d.Store.AddTask(ctx, params)
	if err != nil {
		return Result{}, err
	}
	return Result{Task: &task, Warning: warning}, nil
}

func (d *Dispatcher) listTasks(ctx context.Context, op ListTasksOp) (Result, error) {
	scope := op.Scope
	if scope == "" {
		scope = model.ScopeOpen
	}
	if _, ok := model.ParseScope(string(scope)); !ok {
		return Result{}, fmt.Errorf("%w: unknown scope %q", db.ErrValidation, scope)
	}
	tasks, err := d.Store.ListTasks(ctx, scope)
	if err != nil {
		return Result{}, err
	}
	return Result{Tasks: tasks}, nil
}

func (d *Dispatcher) updateTask(ctx context.Context, op UpdateTaskOp) (Result, error) {
	params := db.UpdateTaskParams{Title: op.Title}
	var warning string

	if op.DueText != nil && *op.DueText != "" {
		params.DueText = op.DueText
		resolved, err := d.resolve(*op.DueText)
		switch {
		case errors.Is(err, dateparse.ErrUnparseable):
			warning = WarnDueParseFailed
		case err != nil:
			return Result{}, err
		default:
			params.DueAt = &resolved
			if resolved.Before(d.Now()) {
				warning = WarnDueIsPast
			}
		}
	}

	task, err := d.Store.UpdateTask(ctx, op.TaskID, params)
	if err != nil {
		return Result{}, err
	}
	return Result{Task: &task, Warning: warning}, nil
}

func (d *Dispatcher) setReminder(ctx context.Context, op SetReminderOp) (Result, error) {
	remindAt, err := d.resolve(op.RemindAt)
	if err != nil {
		return Result{}, fmt.Errorf("%w: remind_at %q is not a datetime", db.ErrValidation, op.RemindAt)
	}

	var warning string
	if remindAt.Before(d.Now()) {
		warning = WarnDueIsPast
	}

	reminder, err := d.Store.SetReminder(ctx, op.TaskID, remindAt)
	if err != nil {
		return Result{}, err
	}
	return Result{Reminder: &reminder, Warning: warning}, nil
}

func (d *Dispatcher) snoozeReminder(ctx context.Context, op SnoozeReminderOp) (Result, error) {
	reminder, err := d.Store.SnoozeReminder(ctx, op.ReminderID, time.Duration(op.Minutes)*time.Minute)
	if err != nil {
		return Result{}, err
	}
	return Result{Reminder: &reminder}, nil
}

func (d *Dispatcher) plan(ctx context.Context, op PlanOp) (Result, error) {
	if op.Goal == "" {
		return Result{}, fmt.Errorf("%w: plan needs a goal", db.ErrValidation)
	}

	subtasks := planner.Decompose(op.Goal)
	for _, title := range subtasks {
		if _, err := d.Store.AddTask(ctx, db.AddTaskParams{Title: title}); err != nil {
			return Result{}, err
		}
	}

	note := fmt.Sprintf("Planned %d tasks for goal: %s", len(subtasks), op.Goal)
	if err := d.Store.AddReflection(ctx, "planner", note); err != nil {
		return Result{}, err
	}
	return Result{Planned: subtasks}, nil
}

// resolve accepts either an already-absolute timestamp (the remote
// model is instructed to pass ISO 8601) or a natural-language phrase.
func (d *Dispatcher) resolve(text string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}
	return dateparse.Resolve(text, d.Now(), d.Loc)
}

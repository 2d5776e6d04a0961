package dispatch

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Joseda-hg/todoagent/internal/dateparse"
	"github.com/Joseda-hg/todoagent/internal/db"
	"github.com/Joseda-hg/todoagent/internal/model"
	"github.com/Joseda-hg/todoagent/internal/render"
)

// Frontend turns one line of user input into store effects and a
// reply. The local and LLM-backed implementations are interchangeable;
// both funnel through Dispatcher.Execute.
type Frontend interface {
	Handle(ctx context.Context, input string) (string, error)
}

// LocalFrontend is the deterministic text-command parser used when no
// model credential is configured, and as the degradation path when the
// remote call fails.
type LocalFrontend struct {
	Dispatcher *Dispatcher
}

var (
	completeRe   = regexp.MustCompile(`^(?:complete|finish|done)\s+task\s+(\d+)$`)
	deleteRe     = regexp.MustCompile(`^(?:delete|remove)\s+task\s+(\d+)(\s+--yes)?$`)
	updTitleRe   = regexp.MustCompile(`^(?i)update\s+task\s+(\d+)\s+title\s+(.+)$`)
	updDueRe     = regexp.MustCompile(`^(?i)update\s+task\s+(\d+)\s+due\s+(.+)$`)
	setRemRe     = regexp.MustCompile(`^(?i)set\s+reminder\s+for\s+task\s+(\d+)\s+at\s+(.+)$`)
	cancelRemRe  = regexp.MustCompile(`^(?i)(?:cancel|delete|remove)\s+reminder\s+(\d+)$`)
	snoozeRemRe  = regexp.MustCompile(`^(?i)snooze\s+reminder\s+(\d+)\s+by\s+(\d+)\s+minutes?$`)
	listScopeMap = map[string]model.Scope{
		"list":               model.ScopeOpen,
		"list tasks":         model.ScopeOpen,
		"list my tasks":      model.ScopeOpen,
		"list open":          model.ScopeOpen,
		"list pending":       model.ScopeOpen,
		"list all":           model.ScopeAll,
		"list today":         model.ScopeToday,
		"list todays tasks":  model.ScopeToday,
		"list today tasks":   model.ScopeToday,
		"list this week":     model.ScopeThisWeek,
		"list week":          model.ScopeThisWeek,
		"list overdue":       model.ScopeOverdue,
		"overdue":            model.ScopeOverdue,
		"list done":          model.ScopeDone,
		"list completed":     model.ScopeDone,
		"ls":                 model.ScopeOpen,
		"ls -p":              model.ScopeOpen,
		"ls --open":          model.ScopeOpen,
		"ls -a":              model.ScopeAll,
		"ls --all":           model.ScopeAll,
		"ls -t":              model.ScopeToday,
		"ls --today":         model.ScopeToday,
		"ls -w":              model.ScopeThisWeek,
		"ls --week":          model.ScopeThisWeek,
		"ls -o":              model.ScopeOverdue,
		"ls --overdue":       model.ScopeOverdue,
		"ls -d":              model.ScopeDone,
		"ls --done":          model.ScopeDone,
	}
)

func (f *LocalFrontend) Handle(ctx context.Context, input string) (string, error) {
	raw := strings.TrimSpace(input)
	s := strings.ToLower(raw)

	switch {
	case s == "help" || s == "?" || s == "h":
		return HelpText(), nil

	case s == "list reminders":
		return f.run(ctx, ListRemindersOp{})

	case s == "reflect" || s == "reflection" || s == "show reflections":
		return f.run(ctx, ReflectOp{})
	}

	if scope, ok := listScopeMap[s]; ok {
		return f.run(ctx, ListTasksOp{Scope: scope})
	}

	if m := completeRe.FindStringSubmatch(s); m != nil {
		return f.run(ctx, CompleteTaskOp{TaskID: mustID(m[1])})
	}

	if m := deleteRe.FindStringSubmatch(s); m != nil {
		id := mustID(m[1])
		if m[2] == "" {
			return fmt.Sprintf("Confirm delete task %d? Re-run: delete task %d --yes", id, id), nil
		}
		return f.run(ctx, DeleteTaskOp{TaskID: id})
	}

	if m := updTitleRe.FindStringSubmatch(raw); m != nil {
		title := strings.TrimSpace(m[2])
		return f.run(ctx, UpdateTaskOp{TaskID: mustID(m[1]), Title: &title})
	}

	if m := updDueRe.FindStringSubmatch(raw); m != nil {
		due := strings.TrimSpace(m[2])
		return f.run(ctx, UpdateTaskOp{TaskID: mustID(m[1]), DueText: &due})
	}

	if m := setRemRe.FindStringSubmatch(raw); m != nil {
		return f.run(ctx, SetReminderOp{TaskID: mustID(m[1]), RemindAt: strings.TrimSpace(m[2])})
	}

	if m := cancelRemRe.FindStringSubmatch(s); m != nil {
		return f.run(ctx, CancelReminderOp{ReminderID: mustID(m[1])})
	}

	if m := snoozeRemRe.FindStringSubmatch(s); m != nil {
		return f.run(ctx, SnoozeReminderOp{ReminderID: mustID(m[1]), Minutes: mustID(m[2])})
	}

	if rest, ok := strings.CutPrefix(raw, "add "); ok {
		title, phrase := dateparse.ExtractDuePhrase(rest)
		op := AddTaskOp{Title: title}
		if phrase != "" {
			op.DueText = &phrase
		}
		return f.run(ctx, op)
	}

	if goal, ok := strings.CutPrefix(raw, "plan "); ok {
		return f.run(ctx, PlanOp{Goal: strings.TrimSpace(goal)})
	}

	return "(no action — type 'help' for commands)", nil
}

// run executes op and converts the outcome, including the error
// taxonomy, into a short reply.
func (f *LocalFrontend) run(ctx context.Context, op Op) (string, error) {
	d := f.Dispatcher
	res, err := d.Execute(ctx, op)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrNotFound):
			return "Nothing with that id.", nil
		case errors.Is(err, db.ErrValidation):
			return err.Error(), nil
		case errors.Is(err, dateparse.ErrUnparseable):
			return "Couldn't parse that date/time phrase.", nil
		}
		return "", err
	}

	return Reply(d, op, res), nil
}

// Reply renders the canonical short reply for an executed op. Both
// front ends use it, so the user sees the same confirmations whichever
// path handled the command.
func Reply(d *Dispatcher, op Op, res Result) string {
	warn := render.Warning(res.Warning)

	switch op.(type) {
	case AddTaskOp:
		return "Task added." + warn
	case ListTasksOp:
		return render.Tasks(res.Tasks, d.Now(), d.Loc)
	case CompleteTaskOp:
		return "Task completed."
	case UpdateTaskOp:
		return "Task updated." + warn
	case DeleteTaskOp:
		return "Task deleted."
	case SetReminderOp:
		return "Reminder set." + warn
	case CancelReminderOp:
		return "Reminder canceled."
	case SnoozeReminderOp:
		return fmt.Sprintf("Reminder snoozed until %s.",
			res.Reminder.RemindAt.In(d.Loc).Format("Mon 15:04"))
	case ListRemindersOp:
		return render.Reminders(res.Reminders, d.Loc)
	case ParseWhenOp:
		return res.Resolved.In(d.Loc).Format("Mon, Jan 2 at 15:04 MST")
	case PlanOp:
		lines := make([]string, 0, len(res.Planned))
		for _, t := range res.Planned {
			lines = append(lines, " - "+t)
		}
		return "Planned tasks:\n" + strings.Join(lines, "\n")
	case ReflectOp:
		return render.Reflections(res.Reflections)
	}
	return ""
}

func mustID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func HelpText() string {
	return strings.TrimSpace(`
Commands:
  add <title> [when...]                     add task (e.g. 'add buy milk tomorrow 5pm')
  list | list today | list this week | list overdue | list done | list open
  ls [-a|--all|-t|--today|-w|--week|-o|--overdue|-d|--done|-p|--open]
  complete task <id>                        mark complete
  update task <id> title <new title>
  update task <id> due <when...>
  delete task <id> [--yes]                  confirm delete unless --yes
  set reminder for task <id> at <when...>
  list reminders | cancel reminder <id> | snooze reminder <id> by <N> minutes
  plan <goal>                               break a goal into subtasks
  reflect                                   show recent reflections
  help                                      this screen
  exit | quit

Scopes:
  today      = today (local day)
  this week  = current Monday-Sunday window
  overdue    = due date passed and not done
`)
}

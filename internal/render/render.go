// Package render formats tasks and reminders for the terminal.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Joseda-hg/todoagent/internal/model"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

// Tasks renders a task listing, open before done, with due hints
// relative to now and local-time display in loc.
func Tasks(tasks []model.Task, now time.Time, loc *time.Location) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}

	var lines []string
	for _, t := range tasks {
		status := "[ ]"
		if t.Done {
			status = doneStyle.Render("[x]")
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s%s", status, t.ID, t.Title, dueHint(t, now, loc)))
	}
	return strings.Join(lines, "\n")
}

func dueHint(t model.Task, now time.Time, loc *time.Location) string {
	if t.DueAt == nil {
		if t.DueText != nil {
			return dimStyle.Render(fmt.Sprintf(" — due %q (unparsed)", *t.DueText))
		}
		return ""
	}

	local := t.DueAt.In(loc).Format("Mon 15:04")
	if t.Done {
		return dimStyle.Render(" — due " + local)
	}
	if t.DueAt.Before(now) {
		days := int(now.Sub(*t.DueAt).Hours() / 24)
		return " — " + overdueStyle.Render(fmt.Sprintf("overdue (%dd)", days)) + " • " + local
	}
	return fmt.Sprintf(" — due in %s • %s", untilText(now, *t.DueAt), local)
}

func untilText(now, due time.Time) string {
	d := due.Sub(now)
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%dd %dh", int(d.Hours())/24, int(d.Hours())%24)
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		mins := int(d.Minutes())
		if mins < 1 {
			mins = 1
		}
		return fmt.Sprintf("%dm", mins)
	}
}

func Reminders(reminders []model.Reminder, loc *time.Location) string {
	if len(reminders) == 0 {
		return "No reminders."
	}

	var lines []string
	for _, r := range reminders {
		marker := "(pending)"
		if r.Sent {
			marker = doneStyle.Render("(sent)")
		}
		lines = append(lines, fmt.Sprintf("%s %d. task #%d — at %s — %s",
			marker, r.ID, r.TaskID, r.RemindAt.In(loc).Format("2006-01-02 15:04"), r.TaskTitle))
	}
	return strings.Join(lines, "\n")
}

func Reflections(reflections []model.Reflection) string {
	if len(reflections) == 0 {
		return "No reflections yet."
	}

	var lines []string
	for _, r := range reflections {
		if r.Source != "" {
			lines = append(lines, fmt.Sprintf("- [%s] %s", r.Source, r.Note))
		} else {
			lines = append(lines, "- "+r.Note)
		}
	}
	return strings.Join(lines, "\n")
}

// Notification is the line the poller prints when a reminder fires.
func Notification(f model.FiredReminder, loc *time.Location) string {
	return fmt.Sprintf("REMINDER: Task #%d — %s (at %s)",
		f.TaskID, f.TaskTitle, f.RemindAt.In(loc).Format("Mon 15:04"))
}

// Warning turns a dispatch warning code into a short user note.
func Warning(code string) string {
	switch code {
	case "due_is_past":
		return " (note: due is in the past)"
	case "due_parse_failed":
		return " (note: couldn't parse the date; saved with raw text)"
	}
	return ""
}

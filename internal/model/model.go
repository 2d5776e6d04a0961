package model

import "time"

type Task struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	DueText   *string    `json:"due_text,omitempty"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	Done      bool       `json:"done"`
	CreatedAt time.Time  `json:"created_at"`
}

type Reminder struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	TaskTitle string    `json:"task_title,omitempty"`
	RemindAt  time.Time `json:"remind_at"`
	Sent      bool      `json:"sent"`
	CreatedAt time.Time `json:"created_at"`
}

// FiredReminder is what the poller hands to its notify callback after
// a reminder has been claimed (sent flipped 0 -> 1).
type FiredReminder struct {
	ID        int64
	TaskID    int64
	TaskTitle string
	RemindAt  time.Time
}

type Reflection struct {
	ID        int64     `json:"id"`
	Source    string    `json:"source"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// Scope is a named predicate over tasks used by list.
type Scope string

const (
	ScopeOpen     Scope = "open"
	ScopeDone     Scope = "done"
	ScopeAll      Scope = "all"
	ScopeToday    Scope = "today"
	ScopeThisWeek Scope = "this_week"
	ScopeOverdue  Scope = "overdue"
)

func ParseScope(s string) (Scope, bool) {
	switch Scope(s) {
	case ScopeOpen, ScopeDone, ScopeAll, ScopeToday, ScopeThisWeek, ScopeOverdue:
		return Scope(s), true
	}
	return "", false
}

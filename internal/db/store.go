package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/todoagent/internal/model"
)

const maxTitleLen = 200

type Store struct {
	DB  *sql.DB
	Loc *time.Location

	// Now is swappable so filter windows can be tested against a fixed
	// reference time.
	Now func() time.Time
}

func NewStore(db *sql.DB, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{DB: db, Loc: loc, Now: time.Now}
}

type AddTaskParams struct {
	Title   string
	DueText *string
	DueAt   *time.Time
}

type UpdateTaskParams struct {
	Title   *string
	DueText *string
	DueAt   *time.Time
}

// SanitizeTitle collapses runs of whitespace. The result may still be
// empty; AddTask rejects that.
func SanitizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

func validateTitle(title string) (string, error) {
	clean := SanitizeTitle(title)
	if clean == "" {
		return "", fmt.Errorf("%w: title is empty", ErrValidation)
	}
	if len(clean) > maxTitleLen {
		return "", fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLen)
	}
	return clean, nil
}

func (s *Store) AddTask(ctx context.Context, params AddTaskParams) (model.Task, error) {
	title, err := validateTitle(params.Title)
	if err != nil {
		return model.Task{}, err
	}

	dueAt := normalizeTime(params.DueAt)
	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO tasks(title, due_text, due_at) VALUES (?, ?, ?)",
		title, params.DueText, dueAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Task{}, err
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, taskID int64) (model.Task, error) {
	row := s.DB.QueryRowContext(ctx,
		"SELECT id, title, due_text, due_at, done, created_at FROM tasks WHERE id = ?", taskID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return task, err
}

func (s *Store) ListTasks(ctx context.Context, scope model.Scope) ([]model.Task, error) {
	now := s.Now().UTC()

	var where []string
	var params []any
	switch scope {
	case model.ScopeOpen, "":
		where = append(where, "done = 0")
	case model.ScopeDone:
		where = append(where, "done = 1")
	case model.ScopeAll:
	case model.ScopeToday:
		start, end := s.todayBounds(now)
		where = append(where, "due_at IS NOT NULL AND due_at >= ? AND due_at < ?")
		params = append(params, start, end)
	case model.ScopeThisWeek:
		start, end := s.weekBounds(now)
		where = append(where, "due_at IS NOT NULL AND due_at >= ? AND due_at < ?")
		params = append(params, start, end)
	case model.ScopeOverdue:
		where = append(where, "due_at IS NOT NULL AND done = 0 AND due_at < ?")
		params = append(params, now)
	default:
		return nil, fmt.Errorf("%w: unknown scope %q", ErrValidation, scope)
	}

	query := "SELECT id, title, due_text, due_at, done, created_at FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY done, due_at IS NULL, due_at, id DESC"

	rows, err := s.DB.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, taskID int64, params UpdateTaskParams) (model.Task, error) {
	var sets []string
	var args []any
	if params.Title != nil {
		title, err := validateTitle(*params.Title)
		if err != nil {
			return model.Task{}, err
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if params.DueText != nil {
		sets = append(sets, "due_text = ?, due_at = ?")
		args = append(args, *params.DueText, normalizeTime(params.DueAt))
	}

	if len(sets) == 0 {
		return s.GetTask(ctx, taskID)
	}

	args = append(args, taskID)
	res, err := s.DB.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Task{}, err
	} else if n == 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}

	return s.GetTask(ctx, taskID)
}

// CompleteTask marks a task done. Completing an already-done task is a
// no-op and succeeds.
func (s *Store) CompleteTask(ctx context.Context, taskID int64) (model.Task, error) {
	res, err := s.DB.ExecContext(ctx, "UPDATE tasks SET done = 1 WHERE id = ?", taskID)
	if err != nil {
		return model.Task{}, fmt.Errorf("complete task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return model.Task{}, err
	} else if n == 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}

	task, err := s.GetTask(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}

	if err := s.AddReflection(ctx, "task", fmt.Sprintf("Completed task %d: %s", task.ID, task.Title)); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// DeleteTask removes a task; its reminders go with it via the
// foreign-key cascade.
func (s *Store) DeleteTask(ctx context.Context, taskID int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", taskID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	return nil
}

// todayBounds returns the local calendar day containing now as a UTC
// half-open interval.
func (s *Store) todayBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(s.Loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// weekBounds returns the local Monday-to-Sunday week containing now as
// a UTC half-open interval.
func (s *Store) weekBounds(now time.Time) (time.Time, time.Time) {
	local := now.In(s.Loc)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	monday := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.Loc).
		AddDate(0, 0, -daysSinceMonday)
	return monday.UTC(), monday.AddDate(0, 0, 7).UTC()
}

func normalizeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var task model.Task
	var dueText sql.NullString
	var dueAt sql.NullTime
	if err := row.Scan(&task.ID, &task.Title, &dueText, &dueAt, &task.Done, &task.CreatedAt); err != nil {
		return model.Task{}, err
	}
	if dueText.Valid {
		task.DueText = &dueText.String
	}
	if dueAt.Valid {
		t := dueAt.Time.UTC()
		task.DueAt = &t
	}
	return task, nil
}

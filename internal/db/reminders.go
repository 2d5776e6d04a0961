package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Joseda-hg/todoagent/internal/model"
)

// SetReminder schedules a reminder for an existing task.
func (s *Store) SetReminder(ctx context.Context, taskID int64, remindAt time.Time) (model.Reminder, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return model.Reminder{}, err
	}

	res, err := s.DB.ExecContext(ctx,
		"INSERT INTO reminders(task_id, remind_at) VALUES (?, ?)",
		taskID, remindAt.UTC())
	if err != nil {
		return model.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Reminder{}, err
	}
	return s.GetReminder(ctx, id)
}

func (s *Store) GetReminder(ctx context.Context, reminderID int64) (model.Reminder, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT r.id, r.task_id, t.title, r.remind_at, r.sent, r.created_at
		 FROM reminders r JOIN tasks t ON r.task_id = t.id
		 WHERE r.id = ?`, reminderID)

	reminder, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reminder{}, fmt.Errorf("reminder %d: %w", reminderID, ErrNotFound)
	}
	return reminder, err
}

func (s *Store) CancelReminder(ctx context.Context, reminderID int64) error {
	res, err := s.DB.ExecContext(ctx, "DELETE FROM reminders WHERE id = ?", reminderID)
	if err != nil {
		return fmt.Errorf("cancel reminder: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return fmt.Errorf("reminder %d: %w", reminderID, ErrNotFound)
	}
	return nil
}

// SnoozeReminder shifts a pending reminder forward by delta. A reminder
// that was already sent (or does not exist) reports ErrNotFound.
func (s *Store) SnoozeReminder(ctx context.Context, reminderID int64, delta time.Duration) (model.Reminder, error) {
	if delta <= 0 {
		return model.Reminder{}, fmt.Errorf("%w: snooze duration must be positive", ErrValidation)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.Reminder{}, err
	}
	defer tx.Rollback()

	var remindAt time.Time
	err = tx.QueryRowContext(ctx,
		"SELECT remind_at FROM reminders WHERE id = ? AND sent = 0", reminderID).Scan(&remindAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reminder{}, fmt.Errorf("pending reminder %d: %w", reminderID, ErrNotFound)
	}
	if err != nil {
		return model.Reminder{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE reminders SET remind_at = ? WHERE id = ? AND sent = 0",
		remindAt.UTC().Add(delta), reminderID); err != nil {
		return model.Reminder{}, fmt.Errorf("snooze reminder: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Reminder{}, err
	}
	return s.GetReminder(ctx, reminderID)
}

func (s *Store) ListReminders(ctx context.Context, onlyPending bool) ([]model.Reminder, error) {
	query := `SELECT r.id, r.task_id, t.title, r.remind_at, r.sent, r.created_at
		 FROM reminders r JOIN tasks t ON r.task_id = t.id`
	if onlyPending {
		query += " WHERE r.sent = 0"
	}
	query += " ORDER BY r.sent, r.remind_at, r.id"

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	reminders := make([]model.Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

// ClaimDueReminders marks every pending reminder with remind_at <= now
// as sent and returns them. The select and update run in a single
// transaction, so a reminder is claimed exactly once even when a
// cancel or snooze races the poller.
func (s *Store) ClaimDueReminders(ctx context.Context, now time.Time) ([]model.FiredReminder, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT r.id, r.task_id, t.title, r.remind_at
		 FROM reminders r JOIN tasks t ON r.task_id = t.id
		 WHERE r.sent = 0 AND r.remind_at <= ?
		 ORDER BY r.remind_at, r.id`, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("fetch due reminders: %w", err)
	}

	var fired []model.FiredReminder
	for rows.Next() {
		var f model.FiredReminder
		if err := rows.Scan(&f.ID, &f.TaskID, &f.TaskTitle, &f.RemindAt); err != nil {
			rows.Close()
			return nil, err
		}
		f.RemindAt = f.RemindAt.UTC()
		fired = append(fired, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, f := range fired {
		if _, err := tx.ExecContext(ctx, "UPDATE reminders SET sent = 1 WHERE id = ?", f.ID); err != nil {
			return nil, fmt.Errorf("mark reminder sent: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return fired, nil
}

func scanReminder(row rowScanner) (model.Reminder, error) {
	var r model.Reminder
	if err := row.Scan(&r.ID, &r.TaskID, &r.TaskTitle, &r.RemindAt, &r.Sent, &r.CreatedAt); err != nil {
		return model.Reminder{}, err
	}
	r.RemindAt = r.RemindAt.UTC()
	return r, nil
}

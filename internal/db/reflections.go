package db

import (
	"context"
	"fmt"

	"github.com/Joseda-hg/todoagent/internal/model"
)

const recentReflections = 20

// AddReflection appends a short note to the agent's memory log.
func (s *Store) AddReflection(ctx context.Context, source, note string) error {
	if note == "" {
		return fmt.Errorf("%w: reflection note is empty", ErrValidation)
	}
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO reflections(source, note) VALUES (?, ?)", source, note)
	if err != nil {
		return fmt.Errorf("insert reflection: %w", err)
	}
	return nil
}

// ListReflections returns the most recent reflections, oldest first.
func (s *Store) ListReflections(ctx context.Context) ([]model.Reflection, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, source, note, created_at FROM (
			SELECT id, source, note, created_at FROM reflections ORDER BY id DESC LIMIT ?
		 ) ORDER BY id`, recentReflections)
	if err != nil {
		return nil, fmt.Errorf("list reflections: %w", err)
	}
	defer rows.Close()

	reflections := make([]model.Reflection, 0)
	for rows.Next() {
		var r model.Reflection
		if err := rows.Scan(&r.ID, &r.Source, &r.Note, &r.CreatedAt); err != nil {
			return nil, err
		}
		reflections = append(reflections, r)
	}
	return reflections, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agenciahub/agenciahub/internal/models"
)

// CreateTask inserts a new task record.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) error {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tasks (id, user_uid, client_id, title, description,
			      status, priority, due_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		task.ID, task.UserUID, task.ClientID, task.Title, task.Description,
		task.Status, task.Priority, task.DueDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanTask(rows *sql.Rows) (*models.Task, error) {
	var t models.Task
	var clientID sql.NullString
	var dueDate sql.NullTime
	if err := rows.Scan(&t.ID, &t.UserUID, &clientID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &dueDate, &t.CreatedAt); err != nil {
		return nil, err
	}
	if clientID.Valid {
		t.ClientID = &clientID.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return &t, nil
}

// ListTasks returns the tasks of a user, optionally filtered by client
// and status.
func (s *Storage) ListTasks(ctx context.Context, userUID string, clientID, status *string, limit, offset int) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, title, description, status,
			      priority, due_date, created_at
			  FROM tasks
			  WHERE user_uid = $1
			    AND ($2::uuid IS NULL OR client_id = $2)
			    AND ($3::text IS NULL OR status = $3)
			  ORDER BY created_at DESC
			  LIMIT $4 OFFSET $5`
	rows, err := s.DB.QueryContext(ctx, query, userUID, clientID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadTask returns the task with the given ID owned by userUID.
func (s *Storage) ReadTask(ctx context.Context, id, userUID string) (*models.Task, error) {
	const op = "storage.ReadTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, title, description, status,
			      priority, due_date, created_at
			  FROM tasks
			  WHERE id = $1 AND user_uid = $2`
	var t models.Task
	var clientID sql.NullString
	var dueDate sql.NullTime
	if err := s.DB.QueryRowContext(ctx, query, id, userUID).Scan(
		&t.ID, &t.UserUID, &clientID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &dueDate, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if clientID.Valid {
		t.ClientID = &clientID.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	return &t, nil
}

// UpdateTask updates a task's mutable fields and returns the number of
// affected rows.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task) (int, error) {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tasks
			  SET title = $1, description = $2, status = $3, priority = $4,
			      due_date = $5, client_id = $6
			  WHERE id = $7 AND user_uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.Priority,
		task.DueDate, task.ClientID, task.ID, task.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveTask hard-deletes a task and returns the number of deleted rows.
func (s *Storage) RemoveTask(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveTask"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM tasks WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

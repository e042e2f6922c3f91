package repository

import (
	"context"
	"fmt"

	"github.com/agenciahub/agenciahub/internal/models"
)

// CreateClient inserts a new client record.
func (s *Storage) CreateClient(ctx context.Context, client models.Client) error {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (id, user_uid, name, company, email, phone,
			      monthly_budget, status, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.DB.ExecContext(ctx, query,
		client.ID, client.UserUID, client.Name, client.Company, client.Email,
		client.Phone, client.MonthlyBudget, client.Status, client.Notes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReadClient returns the client with the given ID owned by userUID.
func (s *Storage) ReadClient(ctx context.Context, id, userUID string) (*models.Client, error) {
	const op = "storage.ReadClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, company, email, phone, monthly_budget,
			      status, notes, created_at
			  FROM clients
			  WHERE id = $1 AND user_uid = $2`
	var c models.Client
	if err := s.DB.QueryRowContext(ctx, query, id, userUID).Scan(
		&c.ID, &c.UserUID, &c.Name, &c.Company, &c.Email, &c.Phone,
		&c.MonthlyBudget, &c.Status, &c.Notes, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// ListClients returns the clients of a user with pagination.
func (s *Storage) ListClients(ctx context.Context, userUID string, limit, offset int) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, name, company, email, phone, monthly_budget,
			      status, notes, created_at
			  FROM clients
			  WHERE user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.UserUID, &c.Name, &c.Company, &c.Email,
			&c.Phone, &c.MonthlyBudget, &c.Status, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateClient updates a client's mutable fields and returns the number
// of affected rows.
func (s *Storage) UpdateClient(ctx context.Context, client models.Client) (int, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET name = $1, company = $2, email = $3, phone = $4,
			      monthly_budget = $5, status = $6, notes = $7
			  WHERE id = $8 AND user_uid = $9`
	result, err := s.DB.ExecContext(ctx, query,
		client.Name, client.Company, client.Email, client.Phone,
		client.MonthlyBudget, client.Status, client.Notes, client.ID, client.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveClient hard-deletes a client and returns the number of deleted
// rows.
func (s *Storage) RemoveClient(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM clients WHERE id = $1 AND user_uid = $2`
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

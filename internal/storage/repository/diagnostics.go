package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/agenciahub/agenciahub/internal/models"
)

// CreateDiagnostic inserts a new diagnostic record. Answers and scores
// are stored as JSONB.
func (s *Storage) CreateDiagnostic(ctx context.Context, d models.Diagnostic) error {
	const op = "storage.CreateDiagnostic"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	answers, err := json.Marshal(d.Answers)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	scores, err := json.Marshal(d.Scores)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO diagnostics (id, user_uid, client_id, answers, summary, scores)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = s.DB.ExecContext(ctx, query,
		d.ID, d.UserUID, d.ClientID, answers, d.Summary, scores)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanDiagnostic(scan func(dest ...any) error) (*models.Diagnostic, error) {
	var d models.Diagnostic
	var clientID sql.NullString
	var answers, scores []byte
	if err := scan(&d.ID, &d.UserUID, &clientID, &answers, &d.Summary, &scores, &d.CreatedAt); err != nil {
		return nil, err
	}
	if clientID.Valid {
		d.ClientID = &clientID.String
	}
	if err := json.Unmarshal(answers, &d.Answers); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(scores, &d.Scores); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadDiagnostic returns the diagnostic with the given ID owned by
// userUID.
func (s *Storage) ReadDiagnostic(ctx context.Context, id, userUID string) (*models.Diagnostic, error) {
	const op = "storage.ReadDiagnostic"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, answers, summary, scores, created_at
			  FROM diagnostics
			  WHERE id = $1 AND user_uid = $2`
	row := s.DB.QueryRowContext(ctx, query, id, userUID)
	d, err := scanDiagnostic(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return d, nil
}

// ListDiagnostics returns the diagnostics of a user with pagination,
// newest first.
func (s *Storage) ListDiagnostics(ctx context.Context, userUID string, limit, offset int) ([]*models.Diagnostic, error) {
	const op = "storage.ListDiagnostics"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, answers, summary, scores, created_at
			  FROM diagnostics
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

	var result []*models.Diagnostic
	for rows.Next() {
		d, err := scanDiagnostic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

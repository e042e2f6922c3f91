package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agenciahub/agenciahub/internal/models"
)

// AppendEvent stores a timeline event.
func (s *Storage) AppendEvent(ctx context.Context, event models.TimelineEvent) error {
	const op = "storage.AppendEvent"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO timeline_events (user_uid, client_id, kind, description, occurred_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query,
		event.UserUID, event.ClientID, event.Kind, event.Description, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListEvents returns the timeline of a user, optionally narrowed to one
// client, newest first.
func (s *Storage) ListEvents(ctx context.Context, userUID string, clientID *string, limit, offset int) ([]*models.TimelineEvent, error) {
	const op = "storage.ListEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, kind, description, occurred_at
			  FROM timeline_events
			  WHERE user_uid = $1
			    AND ($2::uuid IS NULL OR client_id = $2)
			  ORDER BY occurred_at DESC
			  LIMIT $3 OFFSET $4`
	rows, err := s.DB.QueryContext(ctx, query, userUID, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TimelineEvent
	for rows.Next() {
		var e models.TimelineEvent
		var cid sql.NullString
		if err := rows.Scan(&e.ID, &e.UserUID, &cid, &e.Kind, &e.Description, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cid.Valid {
			e.ClientID = &cid.String
		}
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

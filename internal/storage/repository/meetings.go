package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/agenciahub/agenciahub/internal/models"
)

// CreateMeeting inserts a new meeting record.
func (s *Storage) CreateMeeting(ctx context.Context, meeting models.Meeting) error {
	const op = "storage.CreateMeeting"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO meetings (id, user_uid, client_id, title, description,
			      date_time, duration_minutes, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		meeting.ID, meeting.UserUID, meeting.ClientID, meeting.Title,
		meeting.Description, meeting.DateTime, meeting.DurationMinutes, meeting.Status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func scanMeeting(rows *sql.Rows) (*models.Meeting, error) {
	var m models.Meeting
	var clientID sql.NullString
	if err := rows.Scan(&m.ID, &m.UserUID, &clientID, &m.Title, &m.Description,
		&m.DateTime, &m.DurationMinutes, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	if clientID.Valid {
		m.ClientID = &clientID.String
	}
	return &m, nil
}

// ReadMeeting returns the meeting with the given ID owned by userUID.
func (s *Storage) ReadMeeting(ctx context.Context, id, userUID string) (*models.Meeting, error) {
	const op = "storage.ReadMeeting"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, title, description, date_time,
			      duration_minutes, status, created_at
			  FROM meetings
			  WHERE id = $1 AND user_uid = $2`
	var m models.Meeting
	var clientID sql.NullString
	if err := s.DB.QueryRowContext(ctx, query, id, userUID).Scan(
		&m.ID, &m.UserUID, &clientID, &m.Title, &m.Description,
		&m.DateTime, &m.DurationMinutes, &m.Status, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if clientID.Valid {
		m.ClientID = &clientID.String
	}
	return &m, nil
}

// ListMeetings returns the meetings of a user with pagination, soonest
// first.
func (s *Storage) ListMeetings(ctx context.Context, userUID string, limit, offset int) ([]*models.Meeting, error) {
	const op = "storage.ListMeetings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, title, description, date_time,
			      duration_minutes, status, created_at
			  FROM meetings
			  WHERE user_uid = $1
			  ORDER BY date_time
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActiveMeetings returns every meeting of a user that is neither
// cancelled nor completed. This is the comparison set for conflict
// detection.
func (s *Storage) ListActiveMeetings(ctx context.Context, userUID string) ([]models.Meeting, error) {
	const op = "storage.ListActiveMeetings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, client_id, title, description, date_time,
			      duration_minutes, status, created_at
			  FROM meetings
			  WHERE user_uid = $1 AND status NOT IN ('cancelled', 'completed')
			  ORDER BY date_time`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Meeting
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMeeting updates a meeting's mutable fields and returns the
// number of affected rows.
func (s *Storage) UpdateMeeting(ctx context.Context, meeting models.Meeting) (int, error) {
	const op = "storage.UpdateMeeting"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE meetings
			  SET title = $1, description = $2, date_time = $3,
			      duration_minutes = $4, status = $5, client_id = $6
			  WHERE id = $7 AND user_uid = $8`
	result, err := s.DB.ExecContext(ctx, query,
		meeting.Title, meeting.Description, meeting.DateTime,
		meeting.DurationMinutes, meeting.Status, meeting.ClientID,
		meeting.ID, meeting.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpdateMeetingStatus changes only the status of a meeting and returns
// the number of affected rows.
func (s *Storage) UpdateMeetingStatus(ctx context.Context, id, userUID, status string) (int, error) {
	const op = "storage.UpdateMeetingStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE meetings SET status = $1 WHERE id = $2 AND user_uid = $3`
	result, err := s.DB.ExecContext(ctx, query, status, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveMeeting hard-deletes a meeting and returns the number of
// deleted rows.
func (s *Storage) RemoveMeeting(ctx context.Context, id, userUID string) (int, error) {
	const op = "storage.RemoveMeeting"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM meetings WHERE id = $1 AND user_uid = $2`
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

// FindMeetingsStartingBetween returns scheduled and confirmed meetings
// whose start instant falls inside [from, to), joined with the owner's
// email for reminder delivery.
func (s *Storage) FindMeetingsStartingBetween(ctx context.Context, from, to time.Time) ([]*models.MeetingReminder, error) {
	const op = "storage.FindMeetingsStartingBetween"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, m.title, m.date_time, m.duration_minutes
			  FROM meetings m
			  JOIN users u ON m.user_uid = u.uid
			  WHERE m.status IN ('scheduled', 'confirmed')
			    AND m.date_time >= $1 AND m.date_time < $2`
	rows, err := s.DB.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MeetingReminder
	for rows.Next() {
		var r models.MeetingReminder
		if err := rows.Scan(&r.Email, &r.Username, &r.Title, &r.DateTime, &r.DurationMinutes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

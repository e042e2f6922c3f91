package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agenciahub/agenciahub/internal/models"
)

// RegisterUser stores a new user and returns the generated UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role, plan,
			      payment_status, trial_expires_at, premium_expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role, user.Plan,
		user.PaymentStatus, user.TrialExpiresAt, user.PremiumExpiresAt).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	var trialExpiresAt, premiumExpiresAt sql.NullTime
	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.Plan, &u.PaymentStatus, &trialExpiresAt, &premiumExpiresAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	if trialExpiresAt.Valid {
		u.TrialExpiresAt = &trialExpiresAt.Time
	}
	if premiumExpiresAt.Valid {
		u.PremiumExpiresAt = &premiumExpiresAt.Time
	}
	return u, nil
}

// GetUserByUsername returns the user with the given username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, plan,
			      payment_status, trial_expires_at, premium_expires_at, created_at
			  FROM users
			  WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser returns the user with the given UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, plan,
			      payment_status, trial_expires_at, premium_expires_at, created_at
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UsageCounts returns the live resource counts owned by a user. The
// counters are computed from the rows themselves, so they always match
// the stored state.
func (s *Storage) UsageCounts(ctx context.Context, userUID string) (models.Usage, error) {
	const op = "storage.UsageCounts"
	select {
	case <-ctx.Done():
		return models.Usage{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM clients WHERE user_uid = $1),
			      (SELECT COUNT(*) FROM diagnostics WHERE user_uid = $1),
			      (SELECT COUNT(*) FROM tasks WHERE user_uid = $1),
			      (SELECT COUNT(*) FROM meetings WHERE user_uid = $1)`
	var usage models.Usage
	if err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&usage.Clients, &usage.Diagnostics, &usage.Tasks, &usage.Meetings); err != nil {
		return models.Usage{}, fmt.Errorf("%s: %w", op, err)
	}
	return usage, nil
}

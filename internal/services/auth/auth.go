// Package auth contains the business logic for registration, login and
// token validation.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/jwt"
	"github.com/agenciahub/agenciahub/internal/lib/password"
	"github.com/agenciahub/agenciahub/internal/models"
)

// UserRepository is the storage contract for user accounts.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Service handles registration, login and JWT validation.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// New creates an auth Service.
func New(users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register creates a new user on the trial plan. The trial window is
// the plan's configured number of days from now.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	trialExpiresAt := time.Now().UTC().AddDate(0, 0, entitlement.LimitsFor(models.PlanTrial).TrialDays)
	user := models.User{
		Email:          email,
		Username:       username,
		PasswordHash:   hashed,
		Role:           "user",
		Plan:           models.PlanTrial,
		PaymentStatus:  models.PaymentPending,
		TrialExpiresAt: &trialExpiresAt,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login verifies the password and issues a JWT carrying the user's
// identity claims.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", errors.New("invalid credentials")
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken parses a JWT and returns the identity claims it holds.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Package client contains the business logic for managing agency
// clients, including the plan quota gate on creation.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/lib/userlock"
	"github.com/agenciahub/agenciahub/internal/metrics"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Repository is the storage contract for clients.
type Repository interface {
	CreateClient(ctx context.Context, client models.Client) error
	ReadClient(ctx context.Context, id, userUID string) (*models.Client, error)
	ListClients(ctx context.Context, userUID string, limit, offset int) ([]*models.Client, error)
	UpdateClient(ctx context.Context, client models.Client) (int, error)
	RemoveClient(ctx context.Context, id, userUID string) (int, error)
}

// UserProvider supplies the entitlement snapshot for quota checks.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	UsageCounts(ctx context.Context, userUID string) (models.Usage, error)
}

// TimelineAppender records lifecycle events on the client timeline.
type TimelineAppender interface {
	AppendEvent(ctx context.Context, event models.TimelineEvent) error
}

// Cache describes the caching methods the service uses.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service implements client management.
type Service struct {
	repo     Repository
	users    UserProvider
	timeline TimelineAppender
	cache    Cache
	engine   *entitlement.Engine
	locker   *userlock.Locker
	log      *slog.Logger
}

// New creates a client Service.
func New(repo Repository, users UserProvider, timeline TimelineAppender, cache Cache, engine *entitlement.Engine, locker *userlock.Locker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		timeline: timeline,
		cache:    cache,
		engine:   engine,
		locker:   locker,
		log:      log,
	}
}

func listKey(userUID string) string {
	return fmt.Sprintf("clients:%s", userUID)
}

// Create checks the plan quota and stores a new client. The whole
// check-then-write sequence runs under the owner's lock.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyClient) (string, error) {
	unlock := s.locker.Lock(userUID)
	defer unlock()

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return "", err
	}
	usage, err := s.users.UsageCounts(ctx, userUID)
	if err != nil {
		return "", err
	}
	if d := s.engine.CanCreate(entitlement.ResourceClients, *user, usage); !d.Allowed {
		metrics.PolicyDenials.WithLabelValues(metrics.ReasonQuotaExceeded).Inc()
		s.log.Warn("client creation denied", slog.String("user_uid", userUID), slog.String("reason", d.Message))
		return "", &errs.QuotaError{Message: d.Message}
	}

	client := models.Client{
		ID:            uuid.New().String(),
		UserUID:       userUID,
		Name:          req.Name,
		Company:       req.Company,
		Email:         req.Email,
		Phone:         req.Phone,
		MonthlyBudget: req.MonthlyBudget,
		Status:        models.ClientActive,
		Notes:         req.Notes,
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return "", err
	}
	s.log.Info("created new client", slog.String("id", client.ID))

	s.appendEvent(ctx, userUID, &client.ID, models.EventClientCreated, fmt.Sprintf("client %q created", client.Name))
	s.invalidate(userUID)
	return client.ID, nil
}

// Read returns one client, served from the cache when possible.
func (s *Service) Read(ctx context.Context, id, userUID string) (*models.Client, error) {
	var result *models.Client
	cacheKey := fmt.Sprintf("client:%s", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && result != nil && result.UserUID == userUID {
		return result, nil
	}

	result, err = s.repo.ReadClient(ctx, id, userUID)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to cache client", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// List returns the clients of a user with pagination.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, userUID, limit, offset)
}

// Update replaces a client's mutable fields.
func (s *Service) Update(ctx context.Context, id, userUID string, req models.DummyClient) (int, error) {
	client := models.Client{
		ID:            id,
		UserUID:       userUID,
		Name:          req.Name,
		Company:       req.Company,
		Email:         req.Email,
		Phone:         req.Phone,
		MonthlyBudget: req.MonthlyBudget,
		Status:        models.ClientActive,
		Notes:         req.Notes,
	}
	count, err := s.repo.UpdateClient(ctx, client)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errs.ErrNotFound
	}

	s.appendEvent(ctx, userUID, &id, models.EventClientUpdated, fmt.Sprintf("client %q updated", req.Name))
	if err := s.cache.Invalidate(fmt.Sprintf("client:%s", id)); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
	s.invalidate(userUID)
	return count, nil
}

// Remove hard-deletes a client. The usage counter shrinks with the row.
func (s *Service) Remove(ctx context.Context, id, userUID string) (int, error) {
	count, err := s.repo.RemoveClient(ctx, id, userUID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errs.ErrNotFound
	}

	s.appendEvent(ctx, userUID, nil, models.EventClientRemoved, "client removed")
	if err := s.cache.Invalidate(fmt.Sprintf("client:%s", id)); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
	s.invalidate(userUID)
	return count, nil
}

func (s *Service) appendEvent(ctx context.Context, userUID string, clientID *string, kind, description string) {
	event := models.TimelineEvent{
		UserUID:     userUID,
		ClientID:    clientID,
		Kind:        kind,
		Description: description,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.timeline.AppendEvent(ctx, event); err != nil {
		s.log.Warn("failed to append timeline event", slog.String("kind", kind), sl.Err(err))
	}
}

func (s *Service) invalidate(userUID string) {
	if err := s.cache.Invalidate(listKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", listKey(userUID)), sl.Err(err))
	}
	if err := s.cache.Invalidate(fmt.Sprintf("usage:%s", userUID)); err != nil {
		s.log.Warn("failed to invalidate cache", sl.Err(err))
	}
}

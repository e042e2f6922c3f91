// Package timeline exposes the append-only client activity feed.
package timeline

import (
	"context"

	"github.com/agenciahub/agenciahub/internal/models"
)

// Repository is the storage contract for timeline events.
type Repository interface {
	AppendEvent(ctx context.Context, event models.TimelineEvent) error
	ListEvents(ctx context.Context, userUID string, clientID *string, limit, offset int) ([]*models.TimelineEvent, error)
}

// Service reads the activity feed. Writes go through the resource
// services, which append events as a side effect of their operations.
type Service struct {
	repo Repository
}

// New creates a timeline Service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the events of a user newest first, optionally filtered
// by client.
func (s *Service) List(ctx context.Context, userUID string, clientID *string, limit, offset int) ([]*models.TimelineEvent, error) {
	return s.repo.ListEvents(ctx, userUID, clientID, limit, offset)
}

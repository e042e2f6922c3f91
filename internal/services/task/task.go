// Package task contains the business logic for task tracking, including
// the plan quota gate on creation.
package task

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

// Repository is the storage contract for tasks.
type Repository interface {
	CreateTask(ctx context.Context, task models.Task) error
	ReadTask(ctx context.Context, id, userUID string) (*models.Task, error)
	ListTasks(ctx context.Context, userUID string, clientID, status *string, limit, offset int) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (int, error)
	RemoveTask(ctx context.Context, id, userUID string) (int, error)
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

// Service implements task management.
type Service struct {
	repo     Repository
	users    UserProvider
	timeline TimelineAppender
	engine   *entitlement.Engine
	locker   *userlock.Locker
	log      *slog.Logger
}

// New creates a task Service.
func New(repo Repository, users UserProvider, timeline TimelineAppender, engine *entitlement.Engine, locker *userlock.Locker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		timeline: timeline,
		engine:   engine,
		locker:   locker,
		log:      log,
	}
}

// Create checks the plan quota and stores a new task. The due date, if
// present, arrives in the 02-01-2006 format.
func (s *Service) Create(ctx context.Context, userUID string, req models.DummyTask) (string, error) {
	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("02-01-2006", req.DueDate)
		if err != nil {
			return "", fmt.Errorf("%w: %v", errs.ErrInvalidDate, err)
		}
		dueDate = &parsed
	}

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
	if d := s.engine.CanCreate(entitlement.ResourceTasks, *user, usage); !d.Allowed {
		metrics.PolicyDenials.WithLabelValues(metrics.ReasonQuotaExceeded).Inc()
		s.log.Warn("task creation denied", slog.String("user_uid", userUID), slog.String("reason", d.Message))
		return "", &errs.QuotaError{Message: d.Message}
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	task := models.Task{
		ID:          uuid.New().String(),
		UserUID:     userUID,
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskPending,
		Priority:    priority,
		DueDate:     dueDate,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return "", err
	}
	s.log.Info("created new task", slog.String("id", task.ID))

	s.appendEvent(ctx, userUID, clientID, models.EventTaskCreated, fmt.Sprintf("task %q created", task.Title))
	return task.ID, nil
}

// List returns the tasks of a user, optionally filtered by client and
// status.
func (s *Service) List(ctx context.Context, userUID string, clientID, status *string, limit, offset int) ([]*models.Task, error) {
	return s.repo.ListTasks(ctx, userUID, clientID, status, limit, offset)
}

// Update replaces a task's mutable fields, keeping its current status.
func (s *Service) Update(ctx context.Context, id, userUID string, req models.DummyTask) (int, error) {
	current, err := s.repo.ReadTask(ctx, id, userUID)
	if err != nil {
		return 0, errs.ErrNotFound
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("02-01-2006", req.DueDate)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", errs.ErrInvalidDate, err)
		}
		dueDate = &parsed
	}
	priority := req.Priority
	if priority == "" {
		priority = current.Priority
	}
	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	} else {
		clientID = current.ClientID
	}

	task := models.Task{
		ID:          id,
		UserUID:     userUID,
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Status:      current.Status,
		Priority:    priority,
		DueDate:     dueDate,
	}
	return s.repo.UpdateTask(ctx, task)
}

// Complete marks a task as done and records the timeline event.
func (s *Service) Complete(ctx context.Context, id, userUID string) error {
	current, err := s.repo.ReadTask(ctx, id, userUID)
	if err != nil {
		return errs.ErrNotFound
	}
	current.Status = models.TaskDone
	count, err := s.repo.UpdateTask(ctx, *current)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrNotFound
	}
	s.appendEvent(ctx, userUID, current.ClientID, models.EventTaskCompleted, fmt.Sprintf("task %q completed", current.Title))
	return nil
}

// Remove hard-deletes a task.
func (s *Service) Remove(ctx context.Context, id, userUID string) (int, error) {
	count, err := s.repo.RemoveTask(ctx, id, userUID)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, errs.ErrNotFound
	}
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

// Package meeting contains the booking logic: plan quota, future-date
// validation and conflict detection against the user's active meetings,
// all serialized per user so concurrent bookings cannot slip past the
// checks.
package meeting

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
	"github.com/agenciahub/agenciahub/internal/scheduling"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Repository is the storage contract for meetings.
type Repository interface {
	CreateMeeting(ctx context.Context, meeting models.Meeting) error
	ReadMeeting(ctx context.Context, id, userUID string) (*models.Meeting, error)
	ListMeetings(ctx context.Context, userUID string, limit, offset int) ([]*models.Meeting, error)
	ListActiveMeetings(ctx context.Context, userUID string) ([]models.Meeting, error)
	UpdateMeeting(ctx context.Context, meeting models.Meeting) (int, error)
	UpdateMeetingStatus(ctx context.Context, id, userUID, status string) (int, error)
	RemoveMeeting(ctx context.Context, id, userUID string) (int, error)
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

// Service implements meeting booking and lifecycle management.
type Service struct {
	repo     Repository
	users    UserProvider
	timeline TimelineAppender
	engine   *entitlement.Engine
	locker   *userlock.Locker
	log      *slog.Logger
	now      func() time.Time
}

// New creates a meeting Service.
func New(repo Repository, users UserProvider, timeline TimelineAppender, engine *entitlement.Engine, locker *userlock.Locker, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		timeline: timeline,
		engine:   engine,
		locker:   locker,
		log:      log,
		now:      time.Now,
	}
}

// Book validates and stores a new meeting. The date must be strictly in
// the future and the interval must not overlap any active meeting of
// the same user; quota, future-date and conflict checks run under the
// owner's lock.
func (s *Service) Book(ctx context.Context, userUID string, req models.DummyMeeting) (string, error) {
	start, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrInvalidDate, err)
	}
	if !start.After(s.now()) {
		return "", errs.ErrPastDate
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
	if d := s.engine.CanCreate(entitlement.ResourceMeetings, *user, usage); !d.Allowed {
		metrics.PolicyDenials.WithLabelValues(metrics.ReasonQuotaExceeded).Inc()
		s.log.Warn("meeting creation denied", slog.String("user_uid", userUID), slog.String("reason", d.Message))
		return "", &errs.QuotaError{Message: d.Message}
	}

	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	}
	candidate := models.Meeting{
		ID:              uuid.New().String(),
		UserUID:         userUID,
		ClientID:        clientID,
		Title:           req.Title,
		Description:     req.Description,
		DateTime:        start,
		DurationMinutes: req.DurationMinutes,
		Status:          models.MeetingScheduled,
	}

	existing, err := s.repo.ListActiveMeetings(ctx, userUID)
	if err != nil {
		return "", err
	}
	if conflict := scheduling.FindConflict(candidate, existing); conflict != nil {
		metrics.PolicyDenials.WithLabelValues(metrics.ReasonScheduleConflict).Inc()
		s.log.Warn("meeting conflict",
			slog.String("user_uid", userUID),
			slog.String("conflicting_id", conflict.ID),
			slog.Time("start", candidate.DateTime))
		return "", errs.ErrScheduleConflict
	}

	if err := s.repo.CreateMeeting(ctx, candidate); err != nil {
		return "", err
	}
	s.log.Info("booked new meeting", slog.String("id", candidate.ID))

	s.appendEvent(ctx, userUID, clientID, models.EventMeetingBooked, fmt.Sprintf("meeting %q booked", candidate.Title))
	return candidate.ID, nil
}

// Read returns one meeting of the user.
func (s *Service) Read(ctx context.Context, id, userUID string) (*models.Meeting, error) {
	m, err := s.repo.ReadMeeting(ctx, id, userUID)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	return m, nil
}

// List returns the meetings of a user with pagination.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Meeting, error) {
	return s.repo.ListMeetings(ctx, userUID, limit, offset)
}

// Update reschedules or edits a meeting. When the interval changes, the
// new candidate interval is validated as future-dated and re-checked
// for conflicts against all other meetings, excluding the meeting
// itself.
func (s *Service) Update(ctx context.Context, id, userUID string, req models.DummyMeeting) (int, error) {
	start, err := time.Parse(time.RFC3339, req.DateTime)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidDate, err)
	}

	unlock := s.locker.Lock(userUID)
	defer unlock()

	current, err := s.repo.ReadMeeting(ctx, id, userUID)
	if err != nil {
		return 0, errs.ErrNotFound
	}

	intervalChanged := !start.Equal(current.DateTime) || req.DurationMinutes != current.DurationMinutes
	if intervalChanged {
		if !start.After(s.now()) {
			return 0, errs.ErrPastDate
		}
		candidate := *current
		candidate.DateTime = start
		candidate.DurationMinutes = req.DurationMinutes

		existing, err := s.repo.ListActiveMeetings(ctx, userUID)
		if err != nil {
			return 0, err
		}
		if conflict := scheduling.FindConflict(candidate, existing); conflict != nil {
			metrics.PolicyDenials.WithLabelValues(metrics.ReasonScheduleConflict).Inc()
			return 0, errs.ErrScheduleConflict
		}
	}

	var clientID *string
	if req.ClientID != "" {
		clientID = &req.ClientID
	} else {
		clientID = current.ClientID
	}
	updated := models.Meeting{
		ID:              id,
		UserUID:         userUID,
		ClientID:        clientID,
		Title:           req.Title,
		Description:     req.Description,
		DateTime:        start,
		DurationMinutes: req.DurationMinutes,
		Status:          current.Status,
	}
	return s.repo.UpdateMeeting(ctx, updated)
}

// UpdateStatus applies a quick status transition.
func (s *Service) UpdateStatus(ctx context.Context, id, userUID, status string) error {
	if !models.ValidMeetingStatus(status) {
		return errs.ErrInvalidStatus
	}
	count, err := s.repo.UpdateMeetingStatus(ctx, id, userUID, status)
	if err != nil {
		return err
	}
	if count == 0 {
		return errs.ErrNotFound
	}
	s.appendEvent(ctx, userUID, nil, models.EventMeetingStatus, fmt.Sprintf("meeting status changed to %s", status))
	return nil
}

// Remove hard-deletes a meeting.
func (s *Service) Remove(ctx context.Context, id, userUID string) (int, error) {
	count, err := s.repo.RemoveMeeting(ctx, id, userUID)
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

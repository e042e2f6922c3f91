package meeting

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/lib/userlock"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateMeeting(ctx context.Context, meeting models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockRepository) ReadMeeting(ctx context.Context, id, userUID string) (*models.Meeting, error) {
	args := m.Called(ctx, id, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockRepository) ListMeetings(ctx context.Context, userUID string, limit, offset int) ([]*models.Meeting, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockRepository) ListActiveMeetings(ctx context.Context, userUID string) ([]models.Meeting, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Meeting), args.Error(1)
}

func (m *MockRepository) UpdateMeeting(ctx context.Context, meeting models.Meeting) (int, error) {
	args := m.Called(ctx, meeting)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) UpdateMeetingStatus(ctx context.Context, id, userUID, status string) (int, error) {
	args := m.Called(ctx, id, userUID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) RemoveMeeting(ctx context.Context, id, userUID string) (int, error) {
	args := m.Called(ctx, id, userUID)
	return args.Int(0), args.Error(1)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserProvider) UsageCounts(ctx context.Context, userUID string) (models.Usage, error) {
	args := m.Called(ctx, userUID)
	return args.Get(0).(models.Usage), args.Error(1)
}

type MockTimeline struct {
	mock.Mock
}

func (m *MockTimeline) AppendEvent(ctx context.Context, event models.TimelineEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestService(repo *MockRepository, users *MockUserProvider, timeline *MockTimeline) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := New(repo, users, timeline, entitlement.NewWithClock(func() time.Time { return testNow }), userlock.New(), logger)
	s.now = func() time.Time { return testNow }
	return s
}

func premiumUser() *models.User {
	return &models.User{UID: "uid-1", Plan: models.PlanPremium, PaymentStatus: models.PaymentActive}
}

func TestBook(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1)

	t.Run("successful booking", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		users.On("GetUser", mock.Anything, "uid-1").Return(premiumUser(), nil)
		users.On("UsageCounts", mock.Anything, "uid-1").Return(models.Usage{}, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{}, nil)
		repo.On("CreateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting")).Return(nil)
		timeline.On("AppendEvent", mock.Anything, mock.AnythingOfType("models.TimelineEvent")).Return(nil)

		id, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "kickoff",
			DateTime:        tomorrow.Format(time.RFC3339),
			DurationMinutes: 60,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		repo.AssertExpectations(t)
	})

	t.Run("overlapping slot is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		users.On("GetUser", mock.Anything, "uid-1").Return(premiumUser(), nil)
		users.On("UsageCounts", mock.Anything, "uid-1").Return(models.Usage{}, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{
			{ID: "m1", DateTime: tomorrow, DurationMinutes: 60, Status: models.MeetingScheduled},
		}, nil)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "overlap",
			DateTime:        tomorrow.Add(30 * time.Minute).Format(time.RFC3339),
			DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, errs.ErrScheduleConflict)
		repo.AssertNotCalled(t, "CreateMeeting", mock.Anything, mock.Anything)
	})

	t.Run("back to back slot is accepted", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		users.On("GetUser", mock.Anything, "uid-1").Return(premiumUser(), nil)
		users.On("UsageCounts", mock.Anything, "uid-1").Return(models.Usage{}, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{
			{ID: "m1", DateTime: tomorrow, DurationMinutes: 60, Status: models.MeetingScheduled},
		}, nil)
		repo.On("CreateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting")).Return(nil)
		timeline.On("AppendEvent", mock.Anything, mock.AnythingOfType("models.TimelineEvent")).Return(nil)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "followup",
			DateTime:        tomorrow.Add(60 * time.Minute).Format(time.RFC3339),
			DurationMinutes: 30,
		})
		assert.NoError(t, err)
	})

	t.Run("slot taken by cancelled meeting is free", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		users.On("GetUser", mock.Anything, "uid-1").Return(premiumUser(), nil)
		users.On("UsageCounts", mock.Anything, "uid-1").Return(models.Usage{}, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{}, nil)
		repo.On("CreateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting")).Return(nil)
		timeline.On("AppendEvent", mock.Anything, mock.AnythingOfType("models.TimelineEvent")).Return(nil)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "retry",
			DateTime:        tomorrow.Format(time.RFC3339),
			DurationMinutes: 60,
		})
		assert.NoError(t, err)
	})

	t.Run("past date is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "yesterday",
			DateTime:        testNow.Add(-time.Hour).Format(time.RFC3339),
			DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, errs.ErrPastDate)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("malformed date is rejected", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "bad date",
			DateTime:        "02-06-2025 10:00",
			DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, errs.ErrInvalidDate)
	})

	t.Run("free plan quota exhausted", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{UID: "uid-1", Plan: models.PlanFree}, nil)
		users.On("UsageCounts", mock.Anything, "uid-1").Return(models.Usage{Meetings: 5}, nil)

		_, err := svc.Book(context.Background(), "uid-1", models.DummyMeeting{
			Title:           "sixth",
			DateTime:        tomorrow.Format(time.RFC3339),
			DurationMinutes: 60,
		})
		var quotaErr *errs.QuotaError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, "meetings limit of 5 reached for the free plan", quotaErr.Message)
		repo.AssertNotCalled(t, "ListActiveMeetings", mock.Anything, mock.Anything)
	})
}

func TestUpdate(t *testing.T) {
	tomorrow := testNow.AddDate(0, 0, 1)

	t.Run("reschedule does not conflict with itself", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		current := &models.Meeting{
			ID: "m1", UserUID: "uid-1", Title: "kickoff",
			DateTime: tomorrow, DurationMinutes: 60, Status: models.MeetingScheduled,
		}
		repo.On("ReadMeeting", mock.Anything, "m1", "uid-1").Return(current, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{*current}, nil)
		repo.On("UpdateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting")).Return(1, nil)

		count, err := svc.Update(context.Background(), "m1", "uid-1", models.DummyMeeting{
			Title:           "kickoff",
			DateTime:        tomorrow.Add(30 * time.Minute).Format(time.RFC3339),
			DurationMinutes: 60,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("reschedule into another meeting conflicts", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		current := &models.Meeting{
			ID: "m1", UserUID: "uid-1", Title: "kickoff",
			DateTime: tomorrow, DurationMinutes: 60, Status: models.MeetingScheduled,
		}
		other := models.Meeting{
			ID: "m2", UserUID: "uid-1",
			DateTime: tomorrow.Add(2 * time.Hour), DurationMinutes: 60, Status: models.MeetingConfirmed,
		}
		repo.On("ReadMeeting", mock.Anything, "m1", "uid-1").Return(current, nil)
		repo.On("ListActiveMeetings", mock.Anything, "uid-1").Return([]models.Meeting{*current, other}, nil)

		_, err := svc.Update(context.Background(), "m1", "uid-1", models.DummyMeeting{
			Title:           "kickoff",
			DateTime:        tomorrow.Add(2 * time.Hour).Format(time.RFC3339),
			DurationMinutes: 60,
		})
		assert.ErrorIs(t, err, errs.ErrScheduleConflict)
	})

	t.Run("unchanged interval skips conflict check", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		current := &models.Meeting{
			ID: "m1", UserUID: "uid-1", Title: "kickoff",
			DateTime: tomorrow, DurationMinutes: 60, Status: models.MeetingConfirmed,
		}
		repo.On("ReadMeeting", mock.Anything, "m1", "uid-1").Return(current, nil)
		repo.On("UpdateMeeting", mock.Anything, mock.AnythingOfType("models.Meeting")).Return(1, nil)

		_, err := svc.Update(context.Background(), "m1", "uid-1", models.DummyMeeting{
			Title:           "kickoff renamed",
			DateTime:        tomorrow.Format(time.RFC3339),
			DurationMinutes: 60,
		})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ListActiveMeetings", mock.Anything, mock.Anything)
	})

	t.Run("missing meeting", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		repo.On("ReadMeeting", mock.Anything, "missing", "uid-1").Return(nil, errors.New("sql: no rows"))

		_, err := svc.Update(context.Background(), "missing", "uid-1", models.DummyMeeting{
			Title:           "x",
			DateTime:        tomorrow.Format(time.RFC3339),
			DurationMinutes: 30,
		})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		repo.On("UpdateMeetingStatus", mock.Anything, "m1", "uid-1", models.MeetingCancelled).Return(1, nil)
		timeline.On("AppendEvent", mock.Anything, mock.AnythingOfType("models.TimelineEvent")).Return(nil)

		assert.NoError(t, svc.UpdateStatus(context.Background(), "m1", "uid-1", models.MeetingCancelled))
	})

	t.Run("unknown status", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		err := svc.UpdateStatus(context.Background(), "m1", "uid-1", "postponed")
		assert.ErrorIs(t, err, errs.ErrInvalidStatus)
		repo.AssertNotCalled(t, "UpdateMeetingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing meeting", func(t *testing.T) {
		repo := new(MockRepository)
		users := new(MockUserProvider)
		timeline := new(MockTimeline)
		svc := newTestService(repo, users, timeline)

		repo.On("UpdateMeetingStatus", mock.Anything, "missing", "uid-1", models.MeetingConfirmed).Return(0, nil)

		err := svc.UpdateStatus(context.Background(), "missing", "uid-1", models.MeetingConfirmed)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

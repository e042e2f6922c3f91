package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestPlanGateMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	engine := entitlement.NewWithClock(func() time.Time { return now })

	runGate := func(users UserService, withUID bool) *httptest.ResponseRecorder {
		mw := PlanGateMiddleware(logger, users, engine)
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		if withUID {
			req = req.WithContext(context.WithValue(req.Context(), UserUID, "uid-1"))
		}
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)
		return rr
	}

	t.Run("active trial passes", func(t *testing.T) {
		expires := now.Add(48 * time.Hour)
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Plan: models.PlanTrial, TrialExpiresAt: &expires,
		}, nil)

		rr := runGate(users, true)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("lapsed trial is denied", func(t *testing.T) {
		expires := now.Add(-time.Hour)
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Plan: models.PlanTrial, TrialExpiresAt: &expires,
		}, nil)

		rr := runGate(users, true)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), errs.ErrTrialExpired.Error())
	})

	t.Run("trial without expiry date is denied", func(t *testing.T) {
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Plan: models.PlanTrial,
		}, nil)

		rr := runGate(users, true)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("lapsed premium is denied", func(t *testing.T) {
		expires := now.Add(-24 * time.Hour)
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Plan: models.PlanPremium, PaymentStatus: models.PaymentActive, PremiumExpiresAt: &expires,
		}, nil)

		rr := runGate(users, true)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Contains(t, rr.Body.String(), errs.ErrPremiumExpired.Error())
	})

	t.Run("free plan never expires", func(t *testing.T) {
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(&models.User{
			UID: "uid-1", Plan: models.PlanFree,
		}, nil)

		rr := runGate(users, true)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("missing user uid", func(t *testing.T) {
		users := new(MockUserService)

		rr := runGate(users, false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		users.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
	})

	t.Run("user lookup failure", func(t *testing.T) {
		users := new(MockUserService)
		users.On("GetUser", mock.Anything, "uid-1").Return(nil, errors.New("connection refused"))

		rr := runGate(users, true)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

package middlewarectx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agenciahub/agenciahub/internal/lib/jwt"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*jwt.CustomClaims), args.Error(1)
}

func TestJWTMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing header", func(t *testing.T) {
		service := new(MockAuthService)
		mw := JWTMiddleware(service, logger)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "missing or invalid authorization header")
	})

	t.Run("not a bearer token", func(t *testing.T) {
		service := new(MockAuthService)
		mw := JWTMiddleware(service, logger)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		service := new(MockAuthService)
		service.On("ValidateToken", mock.Anything, "bad-token").Return(nil, errors.New("token is malformed"))
		mw := JWTMiddleware(service, logger)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler must not run")
		})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid or expired token")
	})

	t.Run("valid token populates context", func(t *testing.T) {
		service := new(MockAuthService)
		service.On("ValidateToken", mock.Anything, "good-token").Return(&jwt.CustomClaims{
			Username: "alice",
			Role:     "user",
			UserUID:  "uid-123",
		}, nil)
		mw := JWTMiddleware(service, logger)

		var called bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, "alice", r.Context().Value(User))
			assert.Equal(t, "user", r.Context().Value(Role))
			assert.Equal(t, "uid-123", r.Context().Value(UserUID))
		})

		req := httptest.NewRequest(http.MethodGet, "/clients", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		mw(next).ServeHTTP(rr, req)

		require.True(t, called)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Book(ctx context.Context, userUID string, req models.DummyMeeting) (string, error) {
	args := m.Called(ctx, userUID, req)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	validBody := `{"title":"kickoff","date_time":"2030-06-02T10:00:00Z","duration_minutes":60}`

	tests := []struct {
		name       string
		body       string
		userUID    string
		mockReturn []any
		wantStatus int
		wantInBody string
	}{
		{
			name:       "success",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"meeting-id-1", nil},
			wantStatus: http.StatusOK,
			wantInBody: "meeting-id-1",
		},
		{
			name:       "quota exceeded",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"", &errs.QuotaError{Message: "meetings limit of 5 reached for the free plan"}},
			wantStatus: http.StatusForbidden,
			wantInBody: "meetings limit of 5 reached for the free plan",
		},
		{
			name:       "schedule conflict",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"", errs.ErrScheduleConflict},
			wantStatus: http.StatusConflict,
			wantInBody: errs.ErrScheduleConflict.Error(),
		},
		{
			name:       "past date",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"", errs.ErrPastDate},
			wantStatus: http.StatusBadRequest,
			wantInBody: errs.ErrPastDate.Error(),
		},
		{
			name:       "malformed date",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"", errs.ErrInvalidDate},
			wantStatus: http.StatusBadRequest,
			wantInBody: "RFC 3339",
		},
		{
			name:       "service failure",
			body:       validBody,
			userUID:    "uid-1",
			mockReturn: []any{"", errors.New("connection refused")},
			wantStatus: http.StatusInternalServerError,
			wantInBody: "could not book meeting",
		},
		{
			name:       "broken json",
			body:       `{"title": "kickoff"`,
			userUID:    "uid-1",
			wantStatus: http.StatusBadRequest,
			wantInBody: "invalid request body",
		},
		{
			name:       "missing required fields",
			body:       `{"title":"kickoff"}`,
			userUID:    "uid-1",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "duration below minimum",
			body:       `{"title":"kickoff","date_time":"2030-06-02T10:00:00Z","duration_minutes":5}`,
			userUID:    "uid-1",
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no user in context",
			body:       validBody,
			wantStatus: http.StatusUnauthorized,
			wantInBody: "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(MockService)
			if tt.mockReturn != nil {
				service.On("Book", mock.Anything, tt.userUID, mock.AnythingOfType("models.DummyMeeting")).
					Return(tt.mockReturn...).Once()
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			handler := New(logger, service)

			req := httptest.NewRequest(http.MethodPost, "/meetings", bytes.NewBufferString(tt.body))
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "test-request-id")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantInBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantInBody)
			}
			service.AssertExpectations(t)
		})
	}
}

func TestCreateHandlerResponseShape(t *testing.T) {
	service := new(MockService)
	service.On("Book", mock.Anything, "uid-1", mock.AnythingOfType("models.DummyMeeting")).
		Return("meeting-id-1", nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := New(logger, service)

	body := `{"title":"kickoff","date_time":"2030-06-02T10:00:00Z","duration_minutes":60}`
	req := httptest.NewRequest(http.MethodPost, "/meetings", bytes.NewBufferString(body))
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "meeting-id-1", resp.Data.ID)
}

// Package create implements the HTTP handler booking meetings.
//
// A booking can be rejected three ways: 403 when the plan quota is
// exhausted, 409 when the requested interval overlaps an active meeting
// of the same user, and 400 when the date is malformed or not in the
// future.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	"github.com/agenciahub/agenciahub/internal/http/response"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Service is the meeting booking business logic contract.
type Service interface {
	Book(ctx context.Context, userUID string, req models.DummyMeeting) (string, error)
}

// Handler handles HTTP requests booking meetings.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Book a meeting
// @Description Books a meeting for the current user. The slot must be in the future and free of overlaps with the user's active meetings.
// @Tags Meetings
// @Accept json
// @Produce json
// @Param request body models.DummyMeeting true "Meeting data"
// @Success 200 {object} map[string]any "Meeting booked"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON, malformed or past date"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 403 {object} response.ErrorResponse "Plan quota exceeded"
// @Failure 409 {object} response.ErrorResponse "Time slot already taken"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /meetings [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyMeeting
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.Book(r.Context(), userUID, req)
	if err != nil {
		var quotaErr *errs.QuotaError
		switch {
		case errors.As(err, &quotaErr):
			log.Warn("meeting booking denied", slog.String("reason", quotaErr.Message))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(quotaErr.Message))
		case errors.Is(err, errs.ErrScheduleConflict):
			log.Warn("meeting conflict", slog.String("date_time", req.DateTime))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(errs.ErrScheduleConflict.Error()))
		case errors.Is(err, errs.ErrPastDate):
			log.Warn("meeting in the past", slog.String("date_time", req.DateTime))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(errs.ErrPastDate.Error()))
		case errors.Is(err, errs.ErrInvalidDate):
			log.Error("invalid date_time", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid date_time, expected RFC 3339"))
		default:
			log.Error("failed to book meeting", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not book meeting"))
		}
		return
	}

	log.Info("meeting booked", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}

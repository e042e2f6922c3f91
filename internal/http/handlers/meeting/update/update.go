// Package update implements the HTTP handler rescheduling or editing a
// meeting. A changed interval is re-validated against the user's other
// active meetings, so a reschedule can fail with 409 just like a new
// booking.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	"github.com/agenciahub/agenciahub/internal/http/response"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Service is the meeting update business logic contract.
type Service interface {
	Update(ctx context.Context, id, userUID string, req models.DummyMeeting) (int, error)
}

// Handler handles HTTP requests updating meetings.
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
// @Summary Update a meeting
// @Description Reschedules or edits a meeting of the current user. A changed interval is re-checked for conflicts, excluding the meeting itself.
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body models.DummyMeeting true "Meeting data"
// @Success 200 {object} map[string]any "Meeting updated"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON, malformed or past date"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Meeting not found"
// @Failure 409 {object} response.ErrorResponse "Time slot already taken"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /meetings/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyMeeting
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

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

	count, err := h.service.Update(r.Context(), id, userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			log.Warn("meeting not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("meeting not found"))
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
			log.Error("failed to update meeting", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update meeting"))
		}
		return
	}

	log.Info("meeting updated", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"updated_count": count,
	}))
}

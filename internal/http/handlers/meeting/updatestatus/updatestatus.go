// Package updatestatus implements the HTTP handler applying a quick
// meeting status transition. Cancelling or completing a meeting frees
// its slot for future bookings.
package updatestatus

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

// Service is the meeting status update business logic contract.
type Service interface {
	UpdateStatus(ctx context.Context, id, userUID, status string) error
}

// Handler handles HTTP requests changing a meeting status.
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
// @Summary Change meeting status
// @Description Applies a status transition to a meeting of the current user.
// @Tags Meetings
// @Accept json
// @Produce json
// @Param id path string true "Meeting ID"
// @Param request body models.DummyMeetingStatus true "New status"
// @Success 200 {object} map[string]any "Status changed"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON or status"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Meeting not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /meetings/{id}/status [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.updatestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	var req models.DummyMeetingStatus
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
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

	if err := h.service.UpdateStatus(r.Context(), id, userUID, req.Status); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			log.Warn("meeting not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("meeting not found"))
		case errors.Is(err, errs.ErrInvalidStatus):
			log.Warn("invalid meeting status", slog.String("status", req.Status))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(errs.ErrInvalidStatus.Error()))
		default:
			log.Error("failed to update meeting status", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not update meeting status"))
		}
		return
	}

	log.Info("meeting status updated", slog.String("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id":     id,
		"status": req.Status,
	}))
}

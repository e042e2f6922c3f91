// Package read implements the HTTP handler returning one meeting by ID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	"github.com/agenciahub/agenciahub/internal/http/response"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// Service is the meeting reading business logic contract.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.Meeting, error)
}

// Handler handles HTTP requests reading one meeting.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New creates a Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Read a meeting
// @Description Returns one meeting owned by the current user.
// @Tags Meetings
// @Produce json
// @Param id path string true "Meeting ID"
// @Success 200 {object} map[string]any "Meeting data"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Meeting not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /meetings/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.meeting.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.Read(r.Context(), id, userUID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			log.Warn("meeting not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("meeting not found"))
			return
		}
		log.Error("failed to read meeting", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read meeting"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"meeting": res,
	}))
}

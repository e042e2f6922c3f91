// Package read implements the HTTP handler returning one client by ID.
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

// Service is the client reading business logic contract.
type Service interface {
	Read(ctx context.Context, id, userUID string) (*models.Client, error)
}

// Handler handles HTTP requests reading one client.
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
// @Summary Read a client
// @Description Returns one client owned by the current user.
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} map[string]any "Client data"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "Client not found"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.client.read"

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
			log.Warn("client not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("client not found"))
			return
		}
		log.Error("failed to read client", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read client"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"client": res,
	}))
}

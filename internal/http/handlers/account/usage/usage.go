// Package usage implements the HTTP handler returning the subscription
// summary of the current user: plan, limits, live usage counters and
// usage percentages.
package usage

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agenciahub/agenciahub/internal/http/middlewarectx"
	"github.com/agenciahub/agenciahub/internal/http/response"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/services/account"
)

// Service is the usage summary business logic contract.
type Service interface {
	Usage(ctx context.Context, userUID string) (*account.UsageSummary, error)
}

// Handler handles HTTP requests for the usage summary.
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
// @Summary Account usage summary
// @Description Returns the plan, limits, current usage and usage percentages of the current user.
// @Tags Account
// @Produce json
// @Success 200 {object} map[string]any "Usage summary"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /account/usage [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.usage"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	summary, err := h.service.Usage(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build usage summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build usage summary"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"summary": summary,
	}))
}

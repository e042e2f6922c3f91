// Package create implements the HTTP handler generating business
// diagnostics from debriefing answers. Subject to the plan quota: the
// free tier allows a single diagnostic.
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

// Service is the diagnostic creation business logic contract.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyDiagnostic) (string, error)
}

// Handler handles HTTP requests creating diagnostics.
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
// @Summary Create a diagnostic
// @Description Scores the debriefing answers and stores the diagnostic. Subject to the plan quota.
// @Tags Diagnostics
// @Accept json
// @Produce json
// @Param request body models.DummyDiagnostic true "Debriefing answers"
// @Success 200 {object} map[string]any "Diagnostic created"
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 403 {object} response.ErrorResponse "Plan quota exceeded"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Failure 500 {object} response.ErrorResponse "Server error"
// @Security BearerAuth
// @Router /diagnostics [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.diagnostic.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyDiagnostic
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

	id, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		var quotaErr *errs.QuotaError
		if errors.As(err, &quotaErr) {
			log.Warn("diagnostic creation denied", slog.String("reason", quotaErr.Message))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(quotaErr.Message))
			return
		}
		log.Error("failed to create diagnostic", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create diagnostic"))
		return
	}

	log.Info("diagnostic created", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}

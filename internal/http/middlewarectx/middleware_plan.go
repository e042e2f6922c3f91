package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/agenciahub/agenciahub/internal/entitlement"
	"github.com/agenciahub/agenciahub/internal/http/response"
	"github.com/agenciahub/agenciahub/internal/lib/sl"
	"github.com/agenciahub/agenciahub/internal/metrics"
	"github.com/agenciahub/agenciahub/internal/models"
	"github.com/agenciahub/agenciahub/internal/services/errs"
)

// UserService loads the user snapshot the plan gate evaluates.
type UserService interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// PlanGateMiddleware creates middleware denying access to users whose
// trial or premium window has lapsed. It runs after JWTMiddleware and
// before any quota check, so an expired account receives 403 regardless
// of what it is trying to do.
func PlanGateMiddleware(log *slog.Logger, users UserService, engine *entitlement.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if engine.IsTrialExpired(*user) {
				metrics.PolicyDenials.WithLabelValues(metrics.ReasonTrialExpired).Inc()
				log.Warn("trial expired, access denied", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(errs.ErrTrialExpired.Error()))
				return
			}
			if engine.IsPremiumExpired(*user) {
				metrics.PolicyDenials.WithLabelValues(metrics.ReasonPremiumExpired).Inc()
				log.Warn("premium expired, access denied", slog.String("user_uid", userUID))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error(errs.ErrPremiumExpired.Error()))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

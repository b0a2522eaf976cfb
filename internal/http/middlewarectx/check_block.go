package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
	"github.com/magabrotheeeer/portainfo/internal/services/moderation"
)

// UserProvider загружает пользователя по идентификатору.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ModerationService возвращает действующий статус блокировки пользователя.
type ModerationService interface {
	Status(ctx context.Context, userUID string) (*moderation.BlockStatus, error)
}

// SanctionMiddleware загружает текущего пользователя в контекст и
// отклоняет запросы с действующей блокировкой учётной записи.
func SanctionMiddleware(log *slog.Logger, users UserProvider, mod ModerationService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			status, err := mod.Status(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get block status", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}
			if status.Status.Blocked {
				log.Info("blocked account rejected",
					slog.String("user_uid", userUID),
					slog.String("countdown", status.Countdown))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Response{
					Status: response.StatusError,
					Error:  "account is blocked",
					Data: map[string]any{
						"reason":    status.Status.Reason,
						"forever":   status.Status.Forever,
						"countdown": status.Countdown,
					},
				})
				return
			}

			user, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to load current user", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unknown user"))
				return
			}
			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BlockedOnlyMiddleware загружает текущего пользователя без проверки
// блокировки. Используется на маршрутах, доступных заблокированным
// пользователям (подача апелляции, просмотр собственного статуса).
func BlockedOnlyMiddleware(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUser(r.Context(), userUID)
			if err != nil {
				log.Error("failed to load current user", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unknown user"))
				return
			}
			ctx := context.WithValue(r.Context(), CurrentUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCreatorMiddleware пропускает только учётные записи с ролью creator.
func RequireCreatorMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != models.RoleCreator {
				log.Error("creator role required")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("creator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package control реализует HTTP-обработчик административных действий
// над учётной записью: снятие блока, прекращение аккаунта, верификация
// и переключение роли.
package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Handler управляет HTTP-запросами на административные действия.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	Unblock(ctx context.Context, actor *models.User, targetUID string) error
	Terminate(ctx context.Context, actor *models.User, targetUID string) error
	ToggleVerify(ctx context.Context, actor *models.User, targetUID string) (bool, error)
	ToggleAdminRole(ctx context.Context, actor *models.User, targetUID string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Административное действие
// @Description Выполняет действие над пользователем: unblock, terminate, verify или role.
// @Tags Moderation
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Param action path string true "Действие: unblock, terminate, verify, role"
// @Success 200 {object} response.Response "Результат действия"
// @Failure 400 {object} response.ErrorResponse "Неизвестное действие"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /moderation/users/{id}/{action} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderation.control"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	actor, ok := middlewarectx.GetCurrentUser(r.Context())
	if !ok {
		log.Error("current user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetUID := chi.URLParam(r, "id")
	action := chi.URLParam(r, "action")

	var (
		data map[string]any
		err  error
	)
	switch action {
	case "unblock":
		err = h.service.Unblock(r.Context(), actor, targetUID)
	case "terminate":
		err = h.service.Terminate(r.Context(), actor, targetUID)
	case "verify":
		var verified bool
		verified, err = h.service.ToggleVerify(r.Context(), actor, targetUID)
		data = map[string]any{"verified": verified}
	case "role":
		var role string
		role, err = h.service.ToggleAdminRole(r.Context(), actor, targetUID)
		data = map[string]any{"role": role}
	default:
		log.Error("unknown moderation action", slog.String("action", action))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown action"))
		return
	}

	switch {
	case errors.Is(err, apperr.ErrPermissionDenied):
		log.Error("moderation action forbidden", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("action forbidden"))
		return
	case errors.Is(err, apperr.ErrNotFound):
		log.Error("target user not found", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to apply moderation action", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not apply action"))
		return
	}

	log.Info("moderation action applied",
		slog.String("target", targetUID),
		slog.String("action", action))
	if data == nil {
		render.JSON(w, r, response.OK())
		return
	}
	render.JSON(w, r, response.StatusOKWithData(data))
}

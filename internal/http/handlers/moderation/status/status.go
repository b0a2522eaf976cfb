// Package status реализует HTTP-обработчик статуса блокировки.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/services/moderation"
)

// Handler управляет HTTP-запросами на статус блокировки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	Status(ctx context.Context, userUID string) (*moderation.BlockStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус блокировки
// @Description Возвращает текущий статус блокировки пользователя и обратный отсчёт.
// @Tags Moderation
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Статус блокировки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /moderation/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderation.status"
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

	status, err := h.service.Status(r.Context(), actor.UID)
	if err != nil {
		log.Error("failed to read block status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read block status"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"blocked":    status.Status.Blocked,
		"terminated": status.Status.Terminated,
		"forever":    status.Status.Forever,
		"reason":     status.Status.Reason,
		"countdown":  status.Countdown,
	}))
}

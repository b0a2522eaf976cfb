// Package appeals реализует HTTP-обработчик списка апелляций для модерации.
package appeals

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/apperr"
	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Handler управляет HTTP-запросами на чтение апелляций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	ListAppeals(ctx context.Context, actor *models.User) ([]*models.Appeal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список апелляций
// @Description Возвращает все апелляции для рассмотрения модерацией.
// @Tags Moderation
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список апелляций"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /moderation/appeals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.moderation.appeals"
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

	appeals, err := h.service.ListAppeals(r.Context(), actor)
	if err != nil {
		if errors.Is(err, apperr.ErrPermissionDenied) {
			log.Error("appeal listing forbidden", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("listing forbidden"))
			return
		}
		log.Error("failed to list appeals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list appeals"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"appeals": appeals,
		"count":   len(appeals),
	}))
}

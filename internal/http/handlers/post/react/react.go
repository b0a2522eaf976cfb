// Package react реализует HTTP-обработчик реакций на публикацию.
//
// Лайк и дизлайк — взаимоисключающие переключатели, репост — независимый.
// Повторное применение реакции снимает её.
package react

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
	"github.com/magabrotheeeer/portainfo/internal/storage/repository"
)

// Handler управляет HTTP-запросами на реакции.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики реакций.
type Service interface {
	React(ctx context.Context, actor *models.User, postID, kind string) (*repository.ReactResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Применить реакцию
// @Description Переключает реакцию текущего пользователя на публикацию.
// @Tags Posts
// @Produce  json
// @Security BearerAuth
// @Param id path string true "ID публикации"
// @Param kind path string true "Вид реакции: like, dislike или republish"
// @Success 200 {object} map[string]any "Состояние реакций после применения"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Публикация не найдена"
// @Failure 422 {object} response.ErrorResponse "Неизвестный вид реакции"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/{id}/react/{kind} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.react"
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

	postID := chi.URLParam(r, "id")
	kind := chi.URLParam(r, "kind")

	result, err := h.service.React(r.Context(), actor, postID, kind)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.Error("unknown reaction kind", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown reaction kind"))
		return
	case errors.Is(err, apperr.ErrNotFound):
		log.Error("post not found", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("post not found"))
		return
	case err != nil:
		log.Error("failed to apply reaction", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not apply reaction"))
		return
	}

	log.Info("reaction applied",
		slog.String("post_id", postID),
		slog.String("kind", kind))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"liked":       result.State.Liked,
		"disliked":    result.State.Disliked,
		"republished": result.State.Republished,
	}))
}

// Package list реализует HTTP-обработчик ленты публикаций.
//
// Лента поддерживает фильтры: только подписки, категория, поисковая
// строка, пагинация. Публикации авторов с действующей блокировкой
// в выдачу не попадают.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/http/middlewarectx"
	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Handler управляет HTTP-запросами на получение ленты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ленты.
type Service interface {
	List(ctx context.Context, filter models.FeedFilter) ([]*models.Post, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Лента публикаций
// @Description Возвращает ленту с фильтрами по подпискам, категории и поисковой строке.
// @Tags Posts
// @Produce  json
// @Param feed query string false "following — только авторы, на которых подписан читатель"
// @Param category query string false "Категория"
// @Param q query string false "Поисковая строка"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Список публикаций"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /posts/list [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.post.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	viewerUID, _ := r.Context().Value(middlewarectx.UID).(string)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := models.FeedFilter{
		ViewerUID:     viewerUID,
		FollowingOnly: r.URL.Query().Get("feed") == "following" && viewerUID != "",
		Category:      r.URL.Query().Get("category"),
		Query:         r.URL.Query().Get("q"),
		Limit:         limit,
		Offset:        offset,
	}

	posts, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list posts", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list posts"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"posts": posts,
		"count": len(posts),
	}))
}

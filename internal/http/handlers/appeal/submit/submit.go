// Package submit реализует HTTP-обработчик подачи апелляции.
package submit

import (
	"context"
	"encoding/json"
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

// Handler управляет HTTP-запросами на подачу апелляций.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики модерации.
type Service interface {
	SubmitAppeal(ctx context.Context, actor *models.User, text string) (string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подать апелляцию
// @Description Создает апелляцию на действующий блок. Пустой текст игнорируется.
// @Tags Appeals
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyAppeal true "Текст апелляции"
// @Success 200 {object} map[string]any "Апелляция принята"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Аккаунт прекращён"
// @Failure 422 {object} response.ErrorResponse "Аккаунт не заблокирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /appeals [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.appeal.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyAppeal
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	actor, ok := middlewarectx.GetCurrentUser(r.Context())
	if !ok {
		log.Error("current user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	id, err := h.service.SubmitAppeal(r.Context(), actor, req.Text)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		log.Error("account is not blocked", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("account is not blocked"))
		return
	case errors.Is(err, apperr.ErrPermissionDenied):
		log.Error("terminated account cannot appeal", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("terminated account cannot appeal"))
		return
	case err != nil:
		log.Error("failed to submit appeal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not submit appeal"))
		return
	}

	log.Info("appeal submitted", slog.String("appeal_id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"appeal_id": id,
	}))
}

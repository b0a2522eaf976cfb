// Package image реализует HTTP-обработчик генерации изображений.
package image

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/portainfo/internal/gemini"
	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
	"github.com/magabrotheeeer/portainfo/internal/models"
)

// Handler управляет HTTP-запросами на генерацию изображений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс генерации медиа.
type Service interface {
	GenerateImage(ctx context.Context, prompt string) (*gemini.GeneratedMedia, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать изображение
// @Description Генерирует изображение по текстовому описанию.
// @Tags Media
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPrompt true "Текстовое описание"
// @Success 200 {object} map[string]any "Изображение в base64"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка генерации"
// @Router /media/image [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.image"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPrompt
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
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

	media, err := h.service.GenerateImage(r.Context(), req.Text)
	if err != nil {
		log.Error("failed to generate image", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate image"))
		return
	}

	log.Info("image generated", slog.String("mime_type", media.MimeType))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"mime_type": media.MimeType,
		"data":      media.Data,
	}))
}

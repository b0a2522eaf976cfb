// Package health реализует HTTP-обработчик проверки готовности сервиса.
package health

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/portainfo/internal/http/response"
	"github.com/magabrotheeeer/portainfo/internal/lib/sl"
)

// Handler управляет HTTP-запросами на проверку готовности.
type Handler struct {
	log *slog.Logger
	db  *sql.DB
}

// New создает новый Handler с переданными логгером и базой данных.
func New(log *slog.Logger, db *sql.DB) *Handler {
	return &Handler{log: log, db: db}
}

// ServeHTTP godoc
// @Summary Проверка готовности
// @Description Проверяет доступность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис готов"
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.db.PingContext(r.Context()); err != nil {
		log.Error("database is not ready", sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("database is not ready"))
		return
	}

	render.JSON(w, r, response.OK())
}

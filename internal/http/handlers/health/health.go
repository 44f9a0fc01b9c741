// Package health реализует проверку доступности сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Проверка доступности
// @Description Возвращает OK, если сервис работает.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response "Сервис доступен"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OK())
}

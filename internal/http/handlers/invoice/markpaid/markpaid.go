// Package markpaid реализует HTTP-обработчик отметки счёта оплаченным.
package markpaid

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
)

// Handler управляет HTTP-запросами на отметку счетов оплаченными.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики оплаты счёта.
type Service interface {
	MarkPaid(ctx context.Context, id int, username string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отметить счёт оплаченным
// @Description Переводит неоплаченный или просроченный счёт в статус оплаченного.
// @Tags Invoices
// @Produce  json
// @Param id path int true "ID счёта"
// @Success 200 {object} response.Response "Счёт оплачен"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Недопустимый переход статуса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /invoices/{id}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invoice.markpaid"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.MarkPaid(r.Context(), id, username); err != nil {
		log.Error("failed to mark invoice paid", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("could not mark invoice paid"))
		return
	}

	log.Info("success to mark invoice paid", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}

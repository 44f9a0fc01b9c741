// Package checkout реализует HTTP-обработчик создания сессии оплаты
// подписки.
package checkout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики биллинга.
type Service interface {
	CreateCheckout(ctx context.Context, userUID string) (string, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать сессию оплаты подписки
// @Description Создает сессию у платежного провайдера и возвращает ссылку на оплату.
// @Tags Billing
// @Produce  json
// @Success 200 {object} map[string]any "Ссылка на страницу оплаты"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 502 {object} response.ErrorResponse "Ошибка платежного провайдера"
// @Router /billing/checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.checkout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	url, err := h.service.CreateCheckout(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create checkout", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to create checkout"))
		return
	}

	log.Info("checkout session created", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"confirmation_url": url,
	}))
}

// Package webhook реализует HTTP-обработчик уведомлений платежного
// провайдера. Вызывается самим провайдером, без авторизации пользователя;
// подлинность запроса подтверждается подписью в заголовке X-Api-Signature.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	"github.com/eazeeinvoice/eazee-invoice/internal/paymentprovider"
)

type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// Service описывает интерфейс обработки событий провайдера.
type Service interface {
	ProcessWebhookEvent(ctx context.Context, payload paymentprovider.WebhookPayload) error
}

func New(log *slog.Logger, service Service, webhookSecret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: webhookSecret,
	}
}

// verifySignature проверяет HMAC-SHA256 подпись тела запроса.
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ServeHTTP godoc
// @Summary Webhook платежного провайдера
// @Description Принимает события оплаты и отмены подписки от провайдера. Запрос должен быть подписан заголовком X-Api-Signature.
// @Tags Billing
// @Accept  json
// @Produce  json
// @Param request body paymentprovider.WebhookPayload true "Событие провайдера"
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Некорректное событие"
// @Failure 401 {object} response.ErrorResponse "Неверная подпись"
// @Router /billing/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}
	defer func() { _ = r.Body.Close() }()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	var payload paymentprovider.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to decode webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	if err := h.service.ProcessWebhookEvent(r.Context(), payload); err != nil {
		log.Error("failed to process webhook event", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to process event"))
		return
	}

	log.Info("webhook event processed", slog.String("event", payload.Event))
	render.JSON(w, r, response.OK())
}

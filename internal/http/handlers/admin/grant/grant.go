// Package grant реализует административную выдачу подписки пользователю
// без участия биллинга.
package grant

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс административного управления подписками.
type Service interface {
	Grant(ctx context.Context, userUID string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выдать подписку пользователю
// @Description Выдает пользователю подписку административно, без оплаты. Только для администратора.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Подписка выдана"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{uid}/grant [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.grant"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	if userUID == "" {
		log.Error("empty user uid in path")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid uid"))
		return
	}

	if err := h.service.Grant(r.Context(), userUID); err != nil {
		log.Error("failed to grant subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to grant subscription"))
		return
	}

	log.Info("subscription granted", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OK())
}

// Package restore реализует HTTP-обработчик возврата записи из корзины.
package restore

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/middlewarectx"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	services "github.com/eazeeinvoice/eazee-invoice/internal/services/recyclebin"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики возврата из корзины.
type Service interface {
	Restore(ctx context.Context, id int, username string, now time.Time) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Вернуть запись из корзины
// @Description Возвращает удаленную запись в рабочие данные. Доступно в течение срока хранения.
// @Tags RecycleBin
// @Produce  json
// @Param id path int true "ID записи корзины"
// @Success 200 {object} response.Response "Запись восстановлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 410 {object} response.ErrorResponse "Срок хранения истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /recycle-bin/{id}/restore [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.recyclebin.restore"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("invalid bin entry id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Restore(r.Context(), id, username, time.Now().UTC()); err != nil {
		if errors.Is(err, services.ErrRestoreExpired) {
			log.Error("restore window expired", slog.Int("id", id))
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("restore window expired"))
			return
		}
		log.Error("failed to restore entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to restore"))
		return
	}

	log.Info("entry restored", slog.Int("id", id))
	render.JSON(w, r, response.OK())
}

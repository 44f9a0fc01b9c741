// Package suspend реализует административную блокировку и разблокировку
// учётной записи.
package suspend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс административного управления блокировкой.
type Service interface {
	Suspend(ctx context.Context, userUID string, suspended bool) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Заблокировать или разблокировать пользователя
// @Description Ставит или снимает блокировку учётной записи. Только для администратора.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param request body models.DummySuspend true "Флаг блокировки"
// @Success 200 {object} response.Response "Блокировка изменена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/users/{uid}/suspend [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.suspend"
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

	var req models.DummySuspend
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	if err := h.service.Suspend(r.Context(), userUID, *req.Suspended); err != nil {
		log.Error("failed to change suspension", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to change suspension"))
		return
	}

	log.Info("suspension changed",
		slog.String("user_uid", userUID),
		slog.Bool("suspended", *req.Suspended))
	render.JSON(w, r, response.OK())
}

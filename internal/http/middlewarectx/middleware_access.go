package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/eazeeinvoice/eazee-invoice/internal/access"
	"github.com/eazeeinvoice/eazee-invoice/internal/http/response"
	"github.com/eazeeinvoice/eazee-invoice/internal/lib/sl"
	"github.com/eazeeinvoice/eazee-invoice/internal/models"
)

// UserProvider загружает актуальный снимок учётной записи. Снимок из
// JWT не годится: блокировка или окончание подписки должны действовать
// сразу, а не после истечения токена.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AccessMiddleware создает middleware для проверки уровня доступа аккаунта:
// блокировка администратора и истёкший пробный период без подписки
// закрывают все операции с данными.
func AccessMiddleware(log *slog.Logger, users UserProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, ok := r.Context().Value(User).(string)
			if !ok || username == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			user, err := users.GetUserByUsername(r.Context(), username)
			if err != nil {
				log.Error("failed to load user", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			result := access.Evaluate(user.AccessAccount(), time.Now().UTC())
			if !result.Allowed {
				log.Warn("access denied",
					slog.String("username", username),
					slog.String("reason", string(result.Reason)))
				if result.Reason == access.ReasonSuspended {
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("account suspended"))
					return
				}
				w.WriteHeader(http.StatusPaymentRequired)
				render.JSON(w, r, response.Error("trial expired, subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnlyMiddleware пропускает только пользователей с ролью admin.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Warn("admin-only endpoint denied", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

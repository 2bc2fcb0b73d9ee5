// Package middlewarectx содержит HTTP middleware консоли.
//
// SessionGate пропускает к защищённым маршрутам только при активной сессии
// администратора и кладёт администратора в контекст запроса. Состояние
// сессии проверяется на каждом запросе.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// Admin — ключ администратора в контексте.
const Admin Key = "admin"

// SessionState описывает источник текущего состояния сессии.
type SessionState interface {
	Status() session.Status
}

// SessionGate возвращает middleware доступа к защищённым маршрутам.
//
// Пока сессия инициализируется, отвечает 503 с Retry-After. Без сессии
// отвечает 401 и указывает entryPoint в Location.
func SessionGate(log *slog.Logger, sess SessionState, entryPoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionGate"

			st := sess.Status()
			switch {
			case st.State == session.StateInitializing:
				w.Header().Set("Retry-After", "1")
				render.Status(r, http.StatusServiceUnavailable)
				render.JSON(w, r, response.Error("session initializing"))
				return
			case st.State != session.StateAuthenticated || st.Identity == nil:
				log.Debug("anonymous request to protected route",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				w.Header().Set("Location", entryPoint)
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("not authenticated"))
				return
			}

			ctx := WithAdmin(r.Context(), *st.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithAdmin кладёт администратора в контекст.
func WithAdmin(ctx context.Context, admin models.Identity) context.Context {
	return context.WithValue(ctx, Admin, admin)
}

// AdminFromContext достаёт администратора из контекста.
func AdminFromContext(ctx context.Context) (models.Identity, bool) {
	admin, ok := ctx.Value(Admin).(models.Identity)
	return admin, ok
}

// ActorFromContext возвращает email администратора или пустую строку.
func ActorFromContext(ctx context.Context) string {
	admin, _ := AdminFromContext(ctx)
	return admin.Email
}

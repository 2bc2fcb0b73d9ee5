// Package remove удаляет пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

const FailedMessage = "Failed to delete user"

type Service interface {
	Delete(ctx context.Context, id string) <-chan error
	View() userlist.View
}

type Handler struct {
	log   *slog.Logger
	users Service
}

func New(log *slog.Logger, users Service) *Handler {
	return &Handler{log: log, users: users}
}

// ServeHTTP godoc
// @Summary Удаление пользователя
// @Description Запись сразу исчезает со страницы. При ошибке бэкенда возвращается на прежнее место.
// @Tags Users
// @Produce  json
// @Param id path string true "ID пользователя"
// @Param wait query bool false "Ждать ответа бэкенда"
// @Success 200 {object} response.Response{data=userlist.View}
// @Success 202 {object} response.Response{data=userlist.View}
// @Failure 404 {object} response.ErrorResponse "Записи нет на странице"
// @Failure 409 {object} response.ErrorResponse "Изменение записи уже идёт"
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.remove"

	id := chi.URLParam(r, "id")
	wait := r.URL.Query().Get("wait") == "true"
	settled, err := response.Settle(r.Context(), h.users.Delete(r.Context(), id), wait)
	switch {
	case !settled && err == nil:
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.OKWithData(h.users.View()))
	case err == nil:
		render.JSON(w, r, response.OKWithData(h.users.View()))
	default:
		h.log.Info("delete failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("user_id", id),
			sl.Err(err),
		)
		render.Status(r, response.ListStatus(err))
		render.JSON(w, r, response.Error(response.ListMessage(err, FailedMessage)))
	}
}

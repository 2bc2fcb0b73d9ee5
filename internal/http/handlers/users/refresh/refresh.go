// Package refresh перезагружает текущую страницу списка пользователей.
package refresh

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

const FailedMessage = "Failed to load users"

type Service interface {
	Refresh() <-chan error
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
// @Summary Обновление списка
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response{data=userlist.View}
// @Success 202 {object} response.Response{data=userlist.View}
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Security BearerAuth
// @Router /users/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.refresh"

	_, err := response.Settle(r.Context(), h.users.Refresh(), true)
	switch {
	case err == nil:
		render.JSON(w, r, response.OKWithData(h.users.View()))
	case errors.Is(err, userlist.ErrSuperseded):
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.OKWithData(h.users.View()))
	default:
		h.log.Info("refresh failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, response.ListStatus(err))
		render.JSON(w, r, response.Error(response.ListMessage(err, FailedMessage)))
	}
}

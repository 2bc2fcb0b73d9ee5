// Package search задаёт строку поиска списка пользователей.
//
// Выборка запускается после паузы ввода, поэтому обработчик отвечает 202
// сразу и не ждёт бэкенд.
package search

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type Request struct {
	Term string `json:"term"`
}

type Service interface {
	SetSearch(term string)
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
// @Summary Поиск пользователей
// @Description Задаёт строку поиска. Выборка первой страницы стартует после паузы ввода.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Строка поиска"
// @Success 202 {object} response.Response{data=userlist.View}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Security BearerAuth
// @Router /users/search [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.search"

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.log.Error("failed to decode request body",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	h.users.SetSearch(strings.TrimSpace(req.Term))
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, response.OKWithData(h.users.View()))
}

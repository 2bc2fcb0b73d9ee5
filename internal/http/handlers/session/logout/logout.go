// Package logout реализует HTTP-обработчик выхода администратора.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

// Service описывает выход из сессии.
type Service interface {
	Logout()
	Status() session.Status
}

type Handler struct {
	log  *slog.Logger
	sess Service
}

func New(log *slog.Logger, sess Service) *Handler {
	return &Handler{log: log, sess: sess}
}

// ServeHTTP godoc
// @Summary Выход администратора
// @Description Завершает сессию локально. Повторный вызов безопасен.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=session.Status}
// @Router /session/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.sess.Logout()
	h.log.Info("logout requested",
		slog.String("op", "handlers.session.logout"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	render.JSON(w, r, response.OKWithData(h.sess.Status()))
}

// Package list отдаёт текущую страницу списка пользователей.
package list

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type Service interface {
	View() userlist.View
}

type Handler struct {
	users Service
}

func New(users Service) *Handler {
	return &Handler{users: users}
}

// ServeHTTP godoc
// @Summary Текущая страница пользователей
// @Description Записи страницы, пагинация, строка поиска, признак загрузки и открытое окно.
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response{data=userlist.View}
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Security BearerAuth
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(h.users.View()))
}

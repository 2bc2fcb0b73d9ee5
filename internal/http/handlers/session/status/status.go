// Package status отдаёт текущее состояние сессии.
package status

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

type Service interface {
	Status() session.Status
}

// Response — состояние сессии и отображаемое имя администратора.
type Response struct {
	session.Status
	Name string `json:"name,omitempty"`
}

type Handler struct {
	sess Service
}

func New(sess Service) *Handler {
	return &Handler{sess: sess}
}

// ServeHTTP godoc
// @Summary Состояние сессии
// @Description initializing, authenticated или anonymous и администратор, если он есть.
// @Tags Session
// @Produce  json
// @Success 200 {object} response.Response{data=Response}
// @Router /session [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	st := h.sess.Status()
	resp := Response{Status: st}
	if st.Identity != nil {
		resp.Name = st.Identity.FullName()
	}
	render.JSON(w, r, response.OKWithData(resp))
}

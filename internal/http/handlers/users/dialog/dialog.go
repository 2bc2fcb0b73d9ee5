// Package dialog открывает и закрывает окно над записью списка.
package dialog

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type Request struct {
	Kind string `json:"kind" validate:"required,oneof=edit block delete"`
}

type Service interface {
	OpenDialog(kind userlist.DialogKind, id string) (userlist.Dialog, error)
	CloseDialog()
	View() userlist.View
}

type Handler struct {
	log      *slog.Logger
	users    Service
	validate *validator.Validate
}

func New(log *slog.Logger, users Service) *Handler {
	return &Handler{log: log, users: users, validate: validator.New()}
}

// Open godoc
// @Summary Открыть окно
// @Tags Users
// @Accept  json
// @Produce  json
// @Param id path string true "ID пользователя"
// @Param request body Request true "Вид окна"
// @Success 200 {object} response.Response{data=userlist.Dialog}
// @Failure 404 {object} response.ErrorResponse "Записи нет на странице"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /users/{id}/dialog [post]
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.dialog.Open"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	d, err := h.users.OpenDialog(userlist.DialogKind(req.Kind), chi.URLParam(r, "id"))
	if err != nil {
		log.Info("failed to open dialog", sl.Err(err))
		render.Status(r, response.ListStatus(err))
		render.JSON(w, r, response.Error(err.Error()))
		return
	}
	render.JSON(w, r, response.OKWithData(d))
}

// Close godoc
// @Summary Закрыть окно
// @Tags Users
// @Produce  json
// @Success 200 {object} response.Response{data=userlist.View}
// @Security BearerAuth
// @Router /users/dialog [delete]
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	h.users.CloseDialog()
	render.JSON(w, r, response.OKWithData(h.users.View()))
}

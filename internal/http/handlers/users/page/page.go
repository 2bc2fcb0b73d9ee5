// Package page переключает страницу списка пользователей.
package page

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

// FailedMessage — сообщение, если бэкенд не объяснил отказ.
const FailedMessage = "Failed to load users"

type Request struct {
	Page int `json:"page" validate:"gte=1"`
}

type Service interface {
	GoToPage(n int) <-chan error
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

// ServeHTTP godoc
// @Summary Переход на страницу
// @Description Загружает страницу с текущей строкой поиска и ждёт результат.
// @Description Если выборку обогнала более новая, возвращается 202 с актуальным состоянием.
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body Request true "Номер страницы"
// @Success 200 {object} response.Response{data=userlist.View}
// @Success 202 {object} response.Response{data=userlist.View}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Нет такой страницы"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Security BearerAuth
// @Router /users/page [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.page"

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
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	_, err := response.Settle(r.Context(), h.users.GoToPage(req.Page), true)
	switch {
	case err == nil:
		render.JSON(w, r, response.OKWithData(h.users.View()))
	case errors.Is(err, userlist.ErrSuperseded):
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.OKWithData(h.users.View()))
	default:
		log.Info("page change failed", slog.Int("page", req.Page), sl.Err(err))
		render.Status(r, response.ListStatus(err))
		render.JSON(w, r, response.Error(response.ListMessage(err, FailedMessage)))
	}
}

// Package login реализует HTTP-обработчик входа администратора.
//
// Учётные данные проверяются валидатором и передаются менеджеру сессии.
// Сообщение об ошибке бэкенда возвращается клиенту как есть, без него
// используется "Login failed".
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

// FailedMessage — сообщение, если бэкенд не объяснил отказ.
const FailedMessage = "Login failed"

// Request — учётные данные администратора.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает вход в сессию.
type Service interface {
	Login(ctx context.Context, email, password string) (models.Identity, error)
}

// Handler обрабатывает HTTP-запросы входа.
type Handler struct {
	log      *slog.Logger
	sess     Service
	validate *validator.Validate
}

func New(log *slog.Logger, sess Service) *Handler {
	return &Handler{
		log:      log,
		sess:     sess,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход администратора
// @Description Выполняет вход через бэкенд, сохраняет токен и открывает сессию.
// @Tags Session
// @Accept  json
// @Produce  json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.Response{data=models.Identity}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Router /session/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.login"

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

	admin, err := h.sess.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Info("login failed", slog.String("email", req.Email), sl.Err(err))
		status := response.BackendStatus(err)
		if errors.Is(err, session.ErrEmptyCredentials) {
			status = http.StatusUnprocessableEntity
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(adminapi.Message(err, FailedMessage)))
		return
	}

	log.Info("login success", slog.String("email", admin.Email))
	render.JSON(w, r, response.OKWithData(admin))
}

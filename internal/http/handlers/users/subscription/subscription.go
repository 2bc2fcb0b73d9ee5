// Package subscription меняет подписку пользователя.
//
// Подписка заменяется полностью: даты, не переданные в запросе, очищаются.
// Изменение применяется к странице сразу и отправляется на бэкенд в фоне.
// Ответ 202 означает, что итог ещё не известен; с ?wait=true обработчик
// ждёт ответа бэкенда.
package subscription

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

const FailedMessage = "Failed to update subscription"

// Request — новая подписка целиком. Отсутствующая дата очищает прежнюю.
type Request struct {
	Plan      string     `json:"plan" validate:"required,oneof=free weekly monthly quarterly"`
	StartDate *time.Time `json:"start_date,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type Service interface {
	EditSubscription(ctx context.Context, id string, sub models.Subscription) <-chan error
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
// @Summary Изменение подписки
// @Tags Users
// @Accept  json
// @Produce  json
// @Param id path string true "ID пользователя"
// @Param wait query bool false "Ждать ответа бэкенда"
// @Param request body Request true "Подписка"
// @Success 200 {object} response.Response{data=userlist.View}
// @Success 202 {object} response.Response{data=userlist.View}
// @Failure 404 {object} response.ErrorResponse "Записи нет на странице"
// @Failure 409 {object} response.ErrorResponse "Изменение записи уже идёт"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Security BearerAuth
// @Router /users/{id}/subscription [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.subscription"

	id := chi.URLParam(r, "id")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("user_id", id),
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
	if req.StartDate != nil && req.ExpiresAt != nil && req.ExpiresAt.Before(*req.StartDate) {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("field ExpiresAt must not be before StartDate"))
		return
	}

	sub := models.Subscription{
		Plan:      models.Plan(req.Plan),
		StartDate: req.StartDate,
		ExpiresAt: req.ExpiresAt,
	}
	wait := r.URL.Query().Get("wait") == "true"
	settled, err := response.Settle(r.Context(), h.users.EditSubscription(r.Context(), id, sub), wait)
	switch {
	case !settled && err == nil:
		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, response.OKWithData(h.users.View()))
	case err == nil:
		render.JSON(w, r, response.OKWithData(h.users.View()))
	default:
		log.Info("subscription change failed", sl.Err(err))
		render.Status(r, response.ListStatus(err))
		render.JSON(w, r, response.Error(response.ListMessage(err, FailedMessage)))
	}
}

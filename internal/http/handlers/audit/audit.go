// Package audit отдаёт последние события журнала изменений.
package audit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/audit"
	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

type Service interface {
	Recent(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

type Handler struct {
	log     *slog.Logger
	journal Service
}

func New(log *slog.Logger, journal Service) *Handler {
	return &Handler{log: log, journal: journal}
}

// ServeHTTP godoc
// @Summary Журнал изменений
// @Description Последние изменения пользователей, новые первыми.
// @Tags Audit
// @Produce  json
// @Param limit query int false "Сколько событий вернуть" default(50)
// @Success 200 {object} response.Response{data=[]models.AuditEvent}
// @Failure 400 {object} response.ErrorResponse "Некорректный limit"
// @Failure 501 {object} response.ErrorResponse "Хранилище журнала не настроено"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Security BearerAuth
// @Router /audit [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.audit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = n
	}

	events, err := h.journal.Recent(r.Context(), limit)
	switch {
	case errors.Is(err, audit.ErrNotConfigured):
		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, response.Error(err.Error()))
	case err != nil:
		log.Error("failed to list audit events", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list audit events"))
	default:
		if events == nil {
			events = []models.AuditEvent{}
		}
		render.JSON(w, r, response.OKWithData(events))
	}
}

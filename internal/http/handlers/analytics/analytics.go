// Package analytics отдаёт дашборд аналитики за выбранный период.
package analytics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-admin/internal/analytics"
	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
)

type Service interface {
	Load(ctx context.Context, days int) (*analytics.Dashboard, error)
	Reload(ctx context.Context, days int) (*analytics.Dashboard, error)
}

type Handler struct {
	log       *slog.Logger
	dashboard Service
}

func New(log *slog.Logger, dashboard Service) *Handler {
	return &Handler{log: log, dashboard: dashboard}
}

// ServeHTTP godoc
// @Summary Аналитика
// @Description Обзор, экзамены, активность, удержание и производные ряды для графиков.
// @Tags Analytics
// @Produce  json
// @Param days query int false "Период в днях: 7, 30 или 90" default(30)
// @Param refresh query bool false "Перечитать разделы мимо кэша"
// @Success 200 {object} response.Response{data=analytics.Dashboard}
// @Failure 422 {object} response.ErrorResponse "Недопустимый период"
// @Failure 502 {object} response.ErrorResponse "Бэкенд недоступен"
// @Security BearerAuth
// @Router /analytics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.analytics"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(analytics.ErrInvalidPeriod.Error()))
			return
		}
		days = n
	}

	load := h.dashboard.Load
	if r.URL.Query().Get("refresh") == "true" {
		load = h.dashboard.Reload
	}
	d, err := load(r.Context(), days)
	if err != nil {
		log.Error("failed to load analytics", slog.Int("days", days), sl.Err(err))
		status := response.BackendStatus(err)
		if errors.Is(err, analytics.ErrInvalidPeriod) {
			status = http.StatusUnprocessableEntity
		}
		render.Status(r, status)
		render.JSON(w, r, response.Error(analytics.Message(err)))
		return
	}
	render.JSON(w, r, response.OKWithData(d))
}

// Package server публикует готовность консоли по протоколу grpc.health.v1.
//
// Консоль готова, когда сессия вышла из состояния инициализации: до этого
// проверки доступа к защищённым разделам не имеют смысла.
package server

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

// ServiceName — имя сервиса в запросах Check/Watch.
const ServiceName = "admin.console.Session"

// SessionSource — источник переходов сессии.
type SessionSource interface {
	Subscribe() (<-chan session.Status, func())
}

type Health struct {
	srv *health.Server
	log *slog.Logger
}

// NewHealth создаёт health-сервер в состоянии NOT_SERVING.
func NewHealth(log *slog.Logger) *Health {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Health{srv: srv, log: log}
}

func (h *Health) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// Follow переключает статус вслед за сессией, пока ctx не отменён.
func (h *Health) Follow(ctx context.Context, src SessionSource) {
	const op = "grpc.server.Health.Follow"
	ch, cancel := src.Subscribe()
	defer cancel()

	current := healthpb.HealthCheckResponse_UNKNOWN
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-ch:
			if !ok {
				return
			}
			next := healthpb.HealthCheckResponse_SERVING
			if st.State == session.StateInitializing {
				next = healthpb.HealthCheckResponse_NOT_SERVING
			}
			if next == current {
				continue
			}
			current = next
			h.srv.SetServingStatus("", next)
			h.srv.SetServingStatus(ServiceName, next)
			h.log.Debug("health status changed", slog.String("op", op), slog.String("status", next.String()))
		}
	}
}

// Shutdown переводит все сервисы в NOT_SERVING перед остановкой.
func (h *Health) Shutdown() {
	h.srv.Shutdown()
}

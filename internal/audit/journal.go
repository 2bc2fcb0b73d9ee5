// Package audit ведёт журнал изменений пользователей, сделанных из консоли.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

var ErrNotConfigured = errors.New("audit repository is not configured")

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Repository хранит события журнала.
type Repository interface {
	SaveAuditEvent(ctx context.Context, e models.AuditEvent) error
	ListAuditEvents(ctx context.Context, limit int) ([]models.AuditEvent, error)
}

// Publisher рассылает события журнала.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Journal превращает итоги изменений списка в события журнала
// и отправляет их во все настроенные приёмники.
type Journal struct {
	log   *slog.Logger
	repo  Repository
	pub   Publisher
	actor func(ctx context.Context) string
	now   func() time.Time
	newID func() string
}

type Option func(*Journal)

func WithRepository(r Repository) Option {
	return func(j *Journal) { j.repo = r }
}

func WithPublisher(p Publisher) Option {
	return func(j *Journal) { j.pub = p }
}

// WithActor задаёт способ узнать администратора из контекста изменения.
func WithActor(actor func(ctx context.Context) string) Option {
	return func(j *Journal) { j.actor = actor }
}

func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

func New(log *slog.Logger, opts ...Option) *Journal {
	j := &Journal{
		log:   log,
		actor: func(context.Context) string { return "" },
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// RoutingKey — ключ публикации события: user.<action>.
func RoutingKey(action models.AuditAction) string {
	return "user." + string(action)
}

// MutationSettled записывает итог изменения. Ошибки приёмников только логируются.
func (j *Journal) MutationSettled(ctx context.Context, m userlist.Mutation) {
	const op = "audit.Journal.MutationSettled"

	e := models.AuditEvent{
		ID:      j.newID(),
		Action:  m.Action,
		UserID:  m.UserID,
		Actor:   j.actor(ctx),
		Outcome: m.Outcome(),
		At:      j.now().UTC(),
	}
	if m.Err != nil {
		e.Error = adminapi.Message(m.Err, m.Err.Error())
	}
	log := j.log.With(sl.Op(op), slog.String("event_id", e.ID), slog.String("action", string(e.Action)))

	if j.repo != nil {
		if err := j.repo.SaveAuditEvent(ctx, e); err != nil {
			log.Error("failed to save audit event", sl.Err(err))
		}
	}
	if j.pub != nil {
		if err := j.pub.Publish(ctx, RoutingKey(e.Action), e); err != nil {
			log.Error("failed to publish audit event", sl.Err(err))
		}
	}
	log.Debug("audit event recorded", slog.String("outcome", string(e.Outcome)))
}

// Recent возвращает последние события журнала. limit ограничивается MaxLimit.
func (j *Journal) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	const op = "audit.Journal.Recent"
	if j.repo == nil {
		return nil, ErrNotConfigured
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	events, err := j.repo.ListAuditEvents(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// SaveAuditEvent сохраняет событие журнала.
func (s *Storage) SaveAuditEvent(ctx context.Context, e models.AuditEvent) error {
	const op = "storage.SaveAuditEvent"

	_, err := s.Pool.Exec(ctx, `
		INSERT INTO audit_events (id, action, user_id, actor, outcome, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, string(e.Action), e.UserID, e.Actor, string(e.Outcome), e.Error, e.At)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAuditEvents возвращает последние limit событий, новые первыми.
func (s *Storage) ListAuditEvents(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	const op = "storage.ListAuditEvents"

	rows, err := s.Pool.Query(ctx, `
		SELECT id::text, action, user_id, actor, outcome, error, created_at
		FROM audit_events
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	events, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.AuditEvent, error) {
		var e models.AuditEvent
		var action, outcome string
		err := row.Scan(&e.ID, &action, &e.UserID, &e.Actor, &outcome, &e.Error, &e.At)
		e.Action = models.AuditAction(action)
		e.Outcome = models.AuditOutcome(outcome)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return events, nil
}

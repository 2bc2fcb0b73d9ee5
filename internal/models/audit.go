package models

import "time"

// AuditAction — вид изменения пользователя из консоли.
type AuditAction string

const (
	ActionEditSubscription AuditAction = "edit_subscription"
	ActionToggleBlock      AuditAction = "toggle_block"
	ActionDelete           AuditAction = "delete"
)

// AuditOutcome — итог оптимистичного изменения.
type AuditOutcome string

const (
	OutcomeCommitted  AuditOutcome = "committed"
	OutcomeRolledBack AuditOutcome = "rolled_back"
	// OutcomeFailed — бэкенд отказал, но страница уже была заменена выборкой.
	OutcomeFailed AuditOutcome = "failed"
)

// AuditEvent — запись журнала действий администратора.
type AuditEvent struct {
	ID      string       `json:"id"`
	Action  AuditAction  `json:"action"`
	UserID  string       `json:"user_id"`
	Actor   string       `json:"actor"`
	Outcome AuditOutcome `json:"outcome"`
	Error   string       `json:"error,omitempty"`
	At      time.Time    `json:"at"`
}

package models

import (
	"encoding/json"
	"time"
)

// Plan — тарифный план подписки пользователя.
type Plan string

const (
	PlanFree      Plan = "free"
	PlanWeekly    Plan = "weekly"
	PlanMonthly   Plan = "monthly"
	PlanQuarterly Plan = "quarterly"
)

// Plans перечисляет все допустимые планы в порядке отображения.
var Plans = []Plan{PlanFree, PlanWeekly, PlanMonthly, PlanQuarterly}

// Valid сообщает, входит ли план в фиксированное перечисление.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanWeekly, PlanMonthly, PlanQuarterly:
		return true
	}
	return false
}

// OrFree возвращает PlanFree для пустого или неизвестного значения.
func (p Plan) OrFree() Plan {
	if !p.Valid() {
		return PlanFree
	}
	return p
}

// Label возвращает подпись плана для таблицы пользователей.
func (p Plan) Label() string {
	switch p.OrFree() {
	case PlanWeekly:
		return "Weekly"
	case PlanMonthly:
		return "Monthly"
	case PlanQuarterly:
		return "Quarterly"
	default:
		return "Free"
	}
}

// Subscription описывает подписку пользователя.
// ExpiresAt == nil означает бессрочную подписку.
type Subscription struct {
	Plan      Plan       `json:"plan"`
	StartDate *time.Time `json:"startDate"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Status — метка статуса пользователя в таблице.
type Status string

const (
	StatusBlocked Status = "Blocked"
	StatusFree    Status = "Free"
	StatusExpired Status = "Expired"
	StatusActive  Status = "Active"
)

// UserRecord — учётная запись конечного пользователя в том виде,
// в каком её видит админ-консоль. Владелец данных — бэкенд.
type UserRecord struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	Subscription Subscription `json:"subscription"`
	Blocked      bool         `json:"blocked"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// UnmarshalJSON принимает идентификатор как в поле "id", так и в "_id".
func (u *UserRecord) UnmarshalJSON(data []byte) error {
	type alias UserRecord
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UserRecord(raw.alias)
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	return nil
}

// FullName возвращает имя и фамилию через пробел.
func (u UserRecord) FullName() string {
	return joinName(u.FirstName, u.LastName)
}

// HasPremium истинно, если план платный и не истёк на момент now.
// Подписка без даты окончания не истекает.
func (u UserRecord) HasPremium(now time.Time) bool {
	if u.Subscription.Plan.OrFree() == PlanFree {
		return false
	}
	exp := u.Subscription.ExpiresAt
	return exp == nil || !exp.Before(now)
}

// Status вычисляет метку статуса. Порядок проверки важен:
// блокировка перекрывает всё остальное.
func (u UserRecord) Status(now time.Time) Status {
	switch {
	case u.Blocked:
		return StatusBlocked
	case u.Subscription.Plan.OrFree() == PlanFree:
		return StatusFree
	case u.Subscription.ExpiresAt != nil && u.Subscription.ExpiresAt.Before(now):
		return StatusExpired
	default:
		return StatusActive
	}
}

// Clone возвращает глубокую копию записи, пригодную как снимок для отката.
func (u UserRecord) Clone() UserRecord {
	c := u
	c.Subscription.StartDate = cloneTime(u.Subscription.StartDate)
	c.Subscription.ExpiresAt = cloneTime(u.Subscription.ExpiresAt)
	return c
}

// UserPatch — частичное обновление пользователя для PUT /admin/users/:id.
type UserPatch struct {
	Subscription *Subscription `json:"subscription,omitempty"`
	Blocked      *bool         `json:"blocked,omitempty"`
}

const dateLayout = "January 2, 2006"

// FormatDate форматирует дату для таблицы, "—" если даты нет.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Format(dateLayout)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

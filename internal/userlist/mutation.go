package userlist

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// Mutation — итог оптимистичного изменения записи.
type Mutation struct {
	Action     models.AuditAction
	UserID     string
	Err        error
	RolledBack bool
	Duration   time.Duration
}

// Outcome переводит итог в значение журнала.
func (m Mutation) Outcome() models.AuditOutcome {
	switch {
	case m.Err == nil:
		return models.OutcomeCommitted
	case m.RolledBack:
		return models.OutcomeRolledBack
	default:
		return models.OutcomeFailed
	}
}

// saga связывает прямое изменение страницы с компенсирующим.
// apply и compensate вызываются под мьютексом контроллера.
type saga struct {
	action     models.AuditAction
	apply      func(v *models.PageView)
	compensate func(v *models.PageView)
	commit     func(ctx context.Context) error
}

// restoreRecord возвращает снимок на место записи с тем же id.
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func restoreRecord(snapshot models.UserRecord) func(v *models.PageView) {
	return func(v *models.PageView) {
		if i := v.IndexOf(snapshot.ID); i >= 0 {
			v.Records[i] = snapshot.Clone()
		}
	}
}

func (c *Controller) editSaga(rec models.UserRecord, sub models.Subscription) saga {
	next := rec.Clone()
	next.Subscription = models.Subscription{
		Plan:      sub.Plan,
		StartDate: cloneTime(sub.StartDate),
		ExpiresAt: cloneTime(sub.ExpiresAt),
	}

	return saga{
		action: models.ActionEditSubscription,
		apply: func(v *models.PageView) {
			if i := v.IndexOf(rec.ID); i >= 0 {
				v.Records[i].Subscription = next.Clone().Subscription
			}
		},
		compensate: restoreRecord(rec),
		commit: func(ctx context.Context) error {
			s := next.Subscription
			return c.backend.UpdateUser(ctx, rec.ID, models.UserPatch{Subscription: &s})
		},
	}
}

func (c *Controller) blockSaga(rec models.UserRecord) saga {
	blocked := !rec.Blocked
	return saga{
		action: models.ActionToggleBlock,
		apply: func(v *models.PageView) {
			if i := v.IndexOf(rec.ID); i >= 0 {
				v.Records[i].Blocked = blocked
			}
		},
		compensate: restoreRecord(rec),
		commit: func(ctx context.Context) error {
			return c.backend.UpdateUser(ctx, rec.ID, models.UserPatch{Blocked: &blocked})
		},
	}
}

func (c *Controller) deleteSaga(rec models.UserRecord, index int) saga {
	return saga{
		action: models.ActionDelete,
		apply: func(v *models.PageView) {
			i := v.IndexOf(rec.ID)
			if i < 0 {
				return
			}
			v.Records = append(v.Records[:i:i], v.Records[i+1:]...)
			if v.TotalCount > 0 {
				v.TotalCount--
			}
		},
		compensate: func(v *models.PageView) {
			if v.IndexOf(rec.ID) >= 0 {
				return
			}
			at := min(index, len(v.Records))
			records := make([]models.UserRecord, 0, len(v.Records)+1)
			records = append(records, v.Records[:at]...)
			records = append(records, rec.Clone())
			records = append(records, v.Records[at:]...)
			v.Records = records
			v.TotalCount++
		},
		commit: func(ctx context.Context) error {
			return c.backend.DeleteUser(ctx, rec.ID)
		},
	}
}

// EditSubscription оптимистично заменяет подписку записи целиком.
// Пустая дата в sub очищает прежнюю: подписка без ExpiresAt бессрочна.
func (c *Controller) EditSubscription(ctx context.Context, id string, sub models.Subscription) <-chan error {
	if !sub.Plan.Valid() {
		return done(ErrInvalidPlan)
	}
	return c.mutate(ctx, id, func(rec models.UserRecord, _ int) saga {
		return c.editSaga(rec, sub)
	})
}

// ToggleBlock оптимистично блокирует или разблокирует запись.
func (c *Controller) ToggleBlock(ctx context.Context, id string) <-chan error {
	return c.mutate(ctx, id, func(rec models.UserRecord, _ int) saga {
		return c.blockSaga(rec)
	})
}

// Delete оптимистично убирает запись со страницы.
func (c *Controller) Delete(ctx context.Context, id string) <-chan error {
	return c.mutate(ctx, id, c.deleteSaga)
}

// mutate применяет сагу к странице, закрывает диалог и отправляет изменение
// на бэкенд в фоне. Откат применяется, только если страница не была заменена
// выборкой с момента начала изменения.
func (c *Controller) mutate(ctx context.Context, id string, build func(models.UserRecord, int) saga) <-chan error {
	const op = "userlist.Controller.mutate"

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return done(ErrClosed)
	}
	idx := c.view.IndexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return done(ErrRecordNotFound)
	}
	if _, busy := c.pending[id]; busy {
		c.mu.Unlock()
		return done(ErrMutationPending)
	}

	s := build(c.view.Records[idx].Clone(), idx)
	s.apply(&c.view)
	gen := c.generation
	c.pending[id] = struct{}{}
	c.dialog = nil
	c.notifyLocked()
	c.wg.Add(1)
	c.mu.Unlock()

	// Изменение переживает отмену ctx вызывающего, значения (администратор) сохраняются.
	bctx := context.WithoutCancel(ctx)
	log := c.log.With(sl.Op(op), slog.String("action", string(s.action)), slog.String("user_id", id))

	result := make(chan error, 1)
	go func() {
		defer c.wg.Done()
		defer close(result)

		start := time.Now()
		cctx, cancel := context.WithTimeout(bctx, c.timeout)
		err := s.commit(cctx)
		cancel()

		m := Mutation{Action: s.action, UserID: id, Err: err, Duration: time.Since(start)}

		c.mu.Lock()
		delete(c.pending, id)
		if err != nil {
			if c.generation == gen {
				s.compensate(&c.view)
				m.RolledBack = true
			}
			c.lastErr = adminapi.Message(err, adminapi.DefaultMessage)
			c.notifyLocked()
		}
		c.mu.Unlock()

		switch {
		case err == nil:
			log.Info("change committed")
		case m.RolledBack:
			log.Warn("change rejected, rolled back", sl.Err(err))
		default:
			log.Warn("change rejected after page was replaced, rollback skipped", sl.Err(err))
		}

		if c.observer != nil {
			c.observer.MutationSettled(bctx, m)
		}
		result <- err
	}()
	return result
}

// Observers рассылает итог изменения нескольким наблюдателям по порядку.
type Observers []Observer

func (o Observers) MutationSettled(ctx context.Context, m Mutation) {
	for _, obs := range o {
		obs.MutationSettled(ctx, m)
	}
}

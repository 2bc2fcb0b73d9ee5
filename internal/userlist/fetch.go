package userlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
)

// Refresh немедленно перечитывает текущую страницу с текущим поиском.
func (c *Controller) Refresh() <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetchLocked(c.view.Page, c.search)
}

// GoToPage немедленно запрашивает страницу n.
func (c *Controller) GoToPage(n int) <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || (c.view.TotalPages > 0 && n > c.view.TotalPages) {
		return done(ErrNoPage)
	}
	return c.fetchLocked(n, c.search)
}

func (c *Controller) NextPage() <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.view.HasNext() {
		return done(ErrNoPage)
	}
	return c.fetchLocked(c.view.Page+1, c.search)
}

func (c *Controller) PrevPage() <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.view.HasPrev() {
		return done(ErrNoPage)
	}
	return c.fetchLocked(c.view.Page-1, c.search)
}

// SetSearch запоминает строку поиска и откладывает выборку первой страницы
// на интервал debounce. Каждый новый вызов переносит отложенную выборку.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.search = term
	c.searchGen++
	gen := c.searchGen
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() { c.fireSearch(gen) })
	c.notifyLocked()
}

func (c *Controller) fireSearch(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Stop не отменяет уже сработавший таймер.
	if c.closed || gen != c.searchGen {
		return
	}
	c.timer = nil
	c.fetchLocked(1, c.search)
}

// fetchLocked начинает выборку и делает её единственной авторитетной:
// предыдущая отменяется, а её поздний ответ отбрасывается по номеру.
func (c *Controller) fetchLocked(page int, search string) <-chan error {
	if c.closed {
		return done(ErrClosed)
	}
	if page < 1 {
		page = 1
	}

	if c.cancelFetch != nil {
		c.cancelFetch()
	}
	c.seq++
	seq := c.seq
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	c.cancelFetch = cancel
	c.loading = true
	c.notifyLocked()

	q := adminapi.ListQuery{Page: page, Limit: c.pageSize, Search: search}
	result := make(chan error, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(result)
		defer cancel()
		result <- c.runFetch(ctx, seq, q)
	}()
	return result
}

func (c *Controller) runFetch(ctx context.Context, seq uint64, q adminapi.ListQuery) error {
	const op = "userlist.Controller.fetch"
	log := c.log.With(sl.Op(op), slog.Int("page", q.Page), slog.String("search", q.Search))

	start := time.Now()
	pv, err := c.backend.ListUsers(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		log.Debug("discarding superseded fetch result")
		c.record("superseded", start)
		return ErrSuperseded
	}
	c.cancelFetch = nil
	c.loading = false

	if err != nil {
		if errors.Is(err, context.Canceled) && c.closed {
			return ErrClosed
		}
		c.lastErr = adminapi.Message(err, adminapi.DefaultMessage)
		c.record("error", start)
		log.Error("failed to fetch users", sl.Err(err))
		c.notifyLocked()
		return err
	}

	c.view = pv
	c.generation++
	c.lastErr = ""
	c.record("ok", start)
	log.Debug("page loaded", slog.Int("records", len(pv.Records)), slog.Int("total", pv.TotalCount))
	c.notifyLocked()
	return nil
}

func (c *Controller) record(outcome string, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveFetch(outcome, time.Since(start))
	}
}

// Package userlist синхронизирует постраничный список пользователей с бэкендом.
//
// Controller владеет текущей страницей (PageView), строкой поиска и состоянием
// диалога. Выборки выполняются асинхронно, и в PageView попадает результат только
// последней начатой выборки. Изменения записей применяются оптимистично и
// откатываются, если бэкенд их отверг.
package userlist

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

var (
	ErrClosed          = errors.New("list controller closed")
	ErrSuperseded      = errors.New("fetch superseded by a newer one")
	ErrNoPage          = errors.New("page out of range")
	ErrRecordNotFound  = errors.New("record is not on the current page")
	ErrMutationPending = errors.New("another change of this record is in progress")
	ErrInvalidPlan     = errors.New("unknown subscription plan")
)

const (
	DefaultPageSize = 16
	DefaultDebounce = 300 * time.Millisecond
	DefaultTimeout  = 10 * time.Second
)

// Backend — операции бэкенда, нужные списку.
type Backend interface {
	ListUsers(ctx context.Context, q adminapi.ListQuery) (models.PageView, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) error
	DeleteUser(ctx context.Context, id string) error
}

// Observer получает итог каждого завершённого изменения.
type Observer interface {
	MutationSettled(ctx context.Context, m Mutation)
}

// Recorder — метрики выборок.
type Recorder interface {
	ObserveFetch(outcome string, d time.Duration)
}

// View — снимок состояния списка для слоя представления.
type View struct {
	Page    models.PageView `json:"page"`
	Search  string          `json:"search"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
	Dialog  *Dialog         `json:"dialog,omitempty"`
}

type Controller struct {
	backend  Backend
	log      *slog.Logger
	observer Observer
	recorder Recorder
	pageSize int
	debounce time.Duration
	timeout  time.Duration

	mu sync.Mutex
	wg sync.WaitGroup

	view models.PageView
	// generation растёт при каждой замене view выборкой.
	generation uint64
	search     string
	loading    bool
	lastErr    string
	dialog     *Dialog

	seq         uint64
	cancelFetch context.CancelFunc

	timer     *time.Timer
	searchGen uint64

	pending map[string]struct{}
	subs    map[int]chan View
	nextSub int
	closed  bool
}

type Option func(*Controller)

func WithPageSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// New создаёт контроллер с пустой первой страницей. Первая выборка не
// запускается автоматически: вызывающий делает Refresh, когда сессия готова.
func New(backend Backend, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		backend:  backend,
		log:      log,
		pageSize: DefaultPageSize,
		debounce: DefaultDebounce,
		timeout:  DefaultTimeout,
		view:     models.NewPageView(nil, models.Pagination{Page: 1}),
		pending:  make(map[string]struct{}),
		subs:     make(map[int]chan View),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// View возвращает независимую копию текущего состояния.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Subscribe возвращает канал снимков состояния после каждого изменения.
// Медленный подписчик видит только последний снимок.
func (c *Controller) Subscribe() (<-chan View, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan View, 1)
	id := c.nextSub
	c.nextSub++
	ch <- c.viewLocked()
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}

// Close останавливает отложенный поиск, отменяет текущую выборку
// и дожидается завершения фоновых операций.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

// Reset возвращает список к пустой первой странице без поиска и диалога.
// Текущая выборка и отложенный поиск отменяются, а незавершённые изменения
// больше не откатываются в новую страницу.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.searchGen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
	c.seq++
	c.view = models.NewPageView(nil, models.Pagination{Page: 1})
	c.generation++
	c.search = ""
	c.loading = false
	c.lastErr = ""
	c.dialog = nil
	c.notifyLocked()
}

func (c *Controller) viewLocked() View {
	v := View{
		Page:    c.view.Clone(),
		Search:  c.search,
		Loading: c.loading,
		Error:   c.lastErr,
	}
	if c.dialog != nil {
		d := *c.dialog
		v.Dialog = &d
	}
	return v
}

func (c *Controller) notifyLocked() {
	if len(c.subs) == 0 {
		return
	}
	v := c.viewLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

// done возвращает закрытый канал с единственным значением err.
func done(err error) <-chan error {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}

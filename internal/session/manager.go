// Package session управляет жизненным циклом сессии администратора.
//
// Состояния: Initializing -> {Authenticated, Anonymous}; Authenticated -> Anonymous
// при выходе или отказе бэкенда; Anonymous -> Authenticated при входе.
// В Initializing менеджер не возвращается никогда.
//
// При запуске менеджер читает сохранённый токен и подтверждает его через
// бэкенд ровно один раз. Любая ошибка на этом шаге молча переводит сессию
// в Anonymous и удаляет токен; отмена контекста токен не трогает.
// Ошибки явного входа возвращаются вызывающему.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/tokenstore"
)

var (
	// ErrEmptyCredentials возвращается, если email или пароль пусты.
	ErrEmptyCredentials = errors.New("email and password are required")
	// ErrTokenExpired — причина истечения сессии по сроку действия токена.
	ErrTokenExpired = errors.New("session token expired")
)

// Backend — операции бэкенда, нужные менеджеру.
type Backend interface {
	Login(ctx context.Context, email, password string) (*adminapi.LoginResult, error)
	Me(ctx context.Context, token string) (models.Identity, error)
}

// Recorder собирает метрики переходов.
type Recorder interface {
	ObserveSessionTransition(to string)
}

// Manager — единственный владелец состояния сессии в процессе.
type Manager struct {
	backend      Backend
	store        tokenstore.Store
	log          *slog.Logger
	recorder     Recorder
	now          func() time.Time
	storeTimeout time.Duration

	startOnce sync.Once
	ready     chan struct{}

	// loginMu упорядочивает сохранение токена между параллельными входами.
	loginMu sync.Mutex

	mu        sync.Mutex
	state     State
	identity  *models.Identity
	token     string
	expiresAt *time.Time
	expiry    *time.Timer
	subs      map[int]chan Status
	nextSub   int
	logins    int
	sessions  uint64
}

// Option настраивает Manager.
type Option func(*Manager)

// WithRecorder подключает метрики.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithClock подменяет часы (для тестов).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithStoreTimeout ограничивает время операций с хранилищем токена.
func WithStoreTimeout(d time.Duration) Option {
	return func(m *Manager) { m.storeTimeout = d }
}

// New создаёт менеджер в состоянии Initializing.
func New(backend Backend, store tokenstore.Store, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend:      backend,
		store:        store,
		log:          log,
		now:          time.Now,
		storeTimeout: 5 * time.Second,
		ready:        make(chan struct{}),
		state:        StateInitializing,
		subs:         make(map[int]chan Status),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start выполняет восстановление сессии из сохранённого токена.
// Блокирует до завершения; повторные вызовы ничего не делают.
func (m *Manager) Start(ctx context.Context) {
	m.startOnce.Do(func() { m.rehydrate(ctx) })
}

func (m *Manager) rehydrate(ctx context.Context) {
	const op = "session.Manager.rehydrate"
	log := m.log.With(sl.Op(op))

	token, found, err := m.store.Load(ctx)
	if err != nil {
		log.Warn("failed to read persisted token, continuing anonymous", sl.Err(err))
		m.settleAnonymous(false)
		return
	}
	if !found {
		log.Info("no persisted token")
		m.settleAnonymous(false)
		return
	}

	identity, err := m.backend.Me(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			log.Info("rehydration interrupted, keeping persisted token", sl.Err(err))
			m.settleAnonymous(false)
			return
		}
		log.Info("persisted token rejected, continuing anonymous", sl.Err(err))
		m.settleAnonymous(true)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInitializing || m.logins > 0 {
		log.Debug("session settled by login before rehydration finished")
		return
	}
	m.authenticateLocked(token, identity)
	log.Info("session restored", slog.String("admin", identity.Email))
}

// settleAnonymous завершает инициализацию без сессии.
// Идущий вход важнее: его токен не удаляется.
func (m *Manager) settleAnonymous(deleteToken bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateInitializing || m.logins > 0 {
		return
	}
	if deleteToken {
		m.deleteTokenLocked()
	}
	m.transitionLocked(StateAnonymous)
}

// Login выполняет вход. При успехе сохраняет токен и возвращает администратора.
// При ошибке состояние и сохранённый токен не меняются.
func (m *Manager) Login(ctx context.Context, email, password string) (models.Identity, error) {
	const op = "session.Manager.Login"

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Identity{}, ErrEmptyCredentials
	}

	res, err := m.backend.Login(ctx, email, password)
	if err != nil {
		m.log.Info("login failed", sl.Op(op), slog.String("email", email), sl.Err(err))
		return models.Identity{}, fmt.Errorf("%s: %w", op, err)
	}

	m.loginMu.Lock()
	defer m.loginMu.Unlock()

	m.mu.Lock()
	m.logins++
	m.mu.Unlock()

	sctx, cancel := context.WithTimeout(context.Background(), m.storeTimeout)
	defer cancel()
	if err := m.store.Save(sctx, res.Token); err != nil {
		m.log.Warn("failed to persist session token", sl.Op(op), sl.Err(err))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins--
	m.authenticateLocked(res.Token, res.User)
	m.log.Info("admin logged in", sl.Op(op),
		slog.String("admin", res.User.Email),
		slog.String("name", res.User.FullName()),
	)
	return res.User, nil
}

// Logout завершает сессию локально. Сеть не используется; повторный вызов безопасен.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endLocked()
	m.log.Info("admin logged out", sl.Op("session.Manager.Logout"))
}

// Expire завершает сессию, если бэкенд отверг текущий token.
// Отказ для устаревшего токена игнорируется.
func (m *Manager) Expire(token string, reason error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || token != m.token {
		return
	}
	m.log.Warn("session expired", sl.Op("session.Manager.Expire"), sl.Err(reason))
	m.endLocked()
}

// Token возвращает токен текущей сессии или пустую строку.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// State возвращает текущее состояние.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity возвращает администратора, если сессия установлена.
func (m *Manager) Identity() (models.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return models.Identity{}, false
	}
	return *m.identity, true
}

// Status возвращает снимок состояния.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

// WaitReady блокирует, пока сессия находится в Initializing.
func (m *Manager) WaitReady(ctx context.Context) error {
	select {
	case <-m.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe возвращает канал со статусом после каждого перехода.
// Канал сразу получает текущий статус. Медленный подписчик видит только
// последнее значение. Возвращаемая функция отменяет подписку.
func (m *Manager) Subscribe() (<-chan Status, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Status, 1)
	ch <- m.statusLocked()
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *Manager) authenticateLocked(token string, identity models.Identity) {
	m.stopExpiryLocked()
	m.token = token
	id := identity
	m.identity = &id
	m.expiresAt = nil
	m.sessions++

	if claims, ok := jwt.Inspect(token); ok {
		exp := claims.ExpiresAt
		m.expiresAt = &exp
		m.expiry = time.AfterFunc(exp.Sub(m.now()), func() {
			m.Expire(token, ErrTokenExpired)
		})
	}
	m.transitionLocked(StateAuthenticated)
}

func (m *Manager) endLocked() {
	m.stopExpiryLocked()
	m.deleteTokenLocked()
	m.token = ""
	m.identity = nil
	m.expiresAt = nil
	if m.state == StateInitializing || m.state == StateAuthenticated {
		m.transitionLocked(StateAnonymous)
	}
}

func (m *Manager) deleteTokenLocked() {
	ctx, cancel := context.WithTimeout(context.Background(), m.storeTimeout)
	defer cancel()
	if err := m.store.Delete(ctx); err != nil {
		m.log.Warn("failed to delete persisted token", sl.Op("session.Manager.deleteToken"), sl.Err(err))
	}
}

func (m *Manager) stopExpiryLocked() {
	if m.expiry != nil {
		m.expiry.Stop()
		m.expiry = nil
	}
}

func (m *Manager) transitionLocked(to State) {
	from := m.state
	m.state = to
	if from == StateInitializing && to != StateInitializing {
		close(m.ready)
	}
	if m.recorder != nil {
		m.recorder.ObserveSessionTransition(to.String())
	}
	m.log.Debug("session transition", slog.String("from", from.String()), slog.String("to", to.String()))

	st := m.statusLocked()
	for _, ch := range m.subs {
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

func (m *Manager) statusLocked() Status {
	st := Status{State: m.state}
	if m.identity != nil {
		id := *m.identity
		st.Identity = &id
		st.Session = m.sessions
	}
	if m.expiresAt != nil {
		exp := *m.expiresAt
		st.ExpiresAt = &exp
	}
	return st
}

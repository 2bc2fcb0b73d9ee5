package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/analytics"
	"github.com/magabrotheeeer/subscription-admin/internal/audit"
	"github.com/magabrotheeeer/subscription-admin/internal/cache"
	"github.com/magabrotheeeer/subscription-admin/internal/config"
	"github.com/magabrotheeeer/subscription-admin/internal/grpc/server"
	"github.com/magabrotheeeer/subscription-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/metrics"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
	"github.com/magabrotheeeer/subscription-admin/internal/storage"
	"github.com/magabrotheeeer/subscription-admin/internal/tokenstore"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server     *http.Server
	grpcServer *grpc.Server
	listener   net.Listener
	health     *server.Health
	logger     *slog.Logger

	session *session.Manager
	users   *userlist.Controller

	closers []func() error
}

// New собирает консоль. Postgres, RabbitMQ и Redis подключаются, только
// если заданы в конфиге.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.console.New"

	a := &App{logger: logger}
	fail := func(err error) (*App, error) {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m := metrics.New()

	var rdb *redis.Client
	if cfg.RedisConnection.Addr != "" {
		db, err := cache.Connect(ctx, cfg.RedisConnection)
		if err != nil {
			return fail(err)
		}
		rdb = db
		a.closers = append(a.closers, db.Close)
	}

	store, err := newTokenStore(cfg.TokenStore, rdb)
	if err != nil {
		return fail(err)
	}

	client := adminapi.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, logger, adminapi.WithRecorder(m))
	a.session = session.New(client, store, logger, session.WithRecorder(m))
	client.SetAuthenticator(a.session)

	journalOpts := []audit.Option{audit.WithActor(middlewarectx.ActorFromContext)}
	if cfg.StorageConnectionString != "" {
		db, err := storage.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, func() error { db.Close(); return nil })
		journalOpts = append(journalOpts, audit.WithRepository(db))
	}
	if cfg.RabbitMQ.URL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange,
			cfg.RabbitMQ.Retries, cfg.RabbitMQ.RetryDelay, rabbitmq.AuditQueues())
		if err != nil {
			return fail(err)
		}
		a.closers = append(a.closers, pub.Close)
		journalOpts = append(journalOpts, audit.WithPublisher(pub))
	}
	journal := audit.New(logger, journalOpts...)

	a.users = userlist.New(client, logger,
		userlist.WithPageSize(cfg.Users.PageSize),
		userlist.WithDebounce(cfg.Users.SearchDebounce),
		userlist.WithTimeout(cfg.Backend.RequestTimeout),
		userlist.WithRecorder(m),
		userlist.WithObserver(userlist.Observers{m, journal}),
	)

	analyticsOpts := []analytics.Option{analytics.WithDefaultPeriod(cfg.Analytics.DefaultDays)}
	if rdb != nil {
		analyticsOpts = append(analyticsOpts, analytics.WithCache(cache.New(rdb, cfg.Analytics.CachePrefix), cfg.Analytics.CacheTTL))
	}
	dashboard := analytics.New(client, logger, analyticsOpts...)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg.HTTPServer, Services{
		Session:   a.session,
		Users:     a.users,
		Analytics: dashboard,
		Journal:   journal,
		Metrics:   m,
	})

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	lis, err := net.Listen("tcp", cfg.AddressGRPC)
	if err != nil {
		return fail(err)
	}
	a.listener = lis
	a.grpcServer = grpc.NewServer()
	a.health = server.NewHealth(logger)
	a.health.Register(a.grpcServer)

	return a, nil
}

func newTokenStore(cfg config.TokenStore, rdb *redis.Client) (tokenstore.Store, error) {
	switch cfg.Kind {
	case "file":
		return tokenstore.NewFile(cfg.FilePath, cfg.EncryptionKey), nil
	case "redis":
		if rdb == nil {
			return nil, errors.New("token store kind redis requires redis_connection.addr")
		}
		return tokenstore.NewRedis(rdb, cfg.RedisPrefix), nil
	case "memory":
		return tokenstore.NewMemory(""), nil
	default:
		return nil, fmt.Errorf("unknown token store kind %q", cfg.Kind)
	}
}

// Run запускает серверы и восстановление сессии. Возвращает после отмены
// ctx или ошибки любого из серверов.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		a.logger.Info("gRPC health server listening on", slog.String("address", a.listener.Addr().String()))
		return a.grpcServer.Serve(a.listener)
	})
	g.Go(func() error {
		a.health.Follow(gctx, a.session)
		return nil
	})
	g.Go(func() error {
		a.refreshOnLogin(gctx)
		return nil
	})
	g.Go(func() error {
		a.session.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

// refreshOnLogin загружает первую страницу пользователей при каждом входе.
func (a *App) refreshOnLogin(ctx context.Context) {
	ch, cancel := a.session.Subscribe()
	defer cancel()
	followSession(ctx, ch, a.users)
}

// sessionList — часть списка пользователей, зависящая от сессии.
type sessionList interface {
	Refresh() <-chan error
	Reset()
}

// followSession сбрасывает список при выходе и перечитывает его при каждой
// новой сессии. Смена сессии распознаётся по номеру, поэтому выход, который
// подписчик пропустил, всё равно сбрасывает данные прежнего администратора.
func followSession(ctx context.Context, statuses <-chan session.Status, users sessionList) {
	var current uint64
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-statuses:
			if !ok {
				return
			}
			switch st.State {
			case session.StateAuthenticated:
				if st.Session == current {
					continue
				}
				if current != 0 {
					users.Reset()
				}
				current = st.Session
				users.Refresh()
			case session.StateAnonymous:
				if current != 0 {
					users.Reset()
					current = 0
				}
			}
		}
	}
}

func (a *App) shutdown() error {
	a.logger.Info("shutting down console gracefully")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(timeoutCtx)
	a.health.Shutdown()
	a.grpcServer.GracefulStop()
	a.users.Close()
	a.close()
	return err
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	a.closers = nil
}

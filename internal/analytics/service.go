// Package analytics загружает дашборд аналитики: четыре раздела бэкенда
// за выбранный период и производные ряды для графиков.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// FailedMessage показывается, если бэкенд не прислал своего сообщения.
const FailedMessage = "Failed to load analytics"

// DefaultPeriod — период по умолчанию в днях.
const DefaultPeriod = 30

// Periods — допустимые периоды в днях.
var Periods = []int{7, 30, 90}

var ErrInvalidPeriod = errors.New("analytics period must be 7, 30 or 90 days")

// Backend — разделы аналитики бэкенда.
type Backend interface {
	Overview(ctx context.Context, days int) (adminapi.Section[models.Overview], error)
	Exams(ctx context.Context, days int) (adminapi.Section[[]models.ExamStat], error)
	UserActivity(ctx context.Context, days int) (adminapi.Section[models.UserActivity], error)
	Retention(ctx context.Context, days int) (adminapi.Section[models.Retention], error)
}

// Cache хранит готовые дашборды.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Dashboard — загруженные разделы и ряды для графиков.
type Dashboard struct {
	Days      int                 `json:"days"`
	Overview  models.Overview     `json:"overview"`
	Exams     []models.ExamStat   `json:"exams"`
	Users     models.UserActivity `json:"users"`
	Retention models.Retention    `json:"retention"`

	AvgDuration string        `json:"avgDuration"`
	Plans       []PlanPoint   `json:"planData"`
	Hourly      []HourPoint   `json:"hourlyData"`
	Daily       []DayPoint    `json:"dailyData"`
	Signups     []SignupPoint `json:"signupData"`

	LoadedAt time.Time `json:"loadedAt"`
}

type Service struct {
	backend Backend
	log     *slog.Logger
	cache   Cache
	ttl     time.Duration
	now     func() time.Time
	days    int
}

type Option func(*Service)

// WithCache включает кэширование дашбордов на ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cache, s.ttl = c, ttl
		}
	}
}

// WithDefaultPeriod задаёт период для запросов без days. Недопустимый период игнорируется.
func WithDefaultPeriod(days int) Option {
	return func(s *Service) {
		if d, err := ValidPeriod(days); err == nil {
			s.days = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(backend Backend, log *slog.Logger, opts ...Option) *Service {
	s := &Service{backend: backend, log: log, now: time.Now, days: DefaultPeriod}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidPeriod проверяет период; 0 заменяется периодом по умолчанию.
func ValidPeriod(days int) (int, error) {
	if days == 0 {
		return DefaultPeriod, nil
	}
	if !slices.Contains(Periods, days) {
		return 0, ErrInvalidPeriod
	}
	return days, nil
}

// Load загружает все четыре раздела параллельно. Ошибка любого раздела
// проваливает загрузку целиком. Раздел с success=false остаётся пустым.
func (s *Service) Load(ctx context.Context, days int) (*Dashboard, error) {
	const op = "analytics.Service.Load"
	if days == 0 {
		days = s.days
	}
	log := s.log.With(sl.Op(op), slog.Int("days", days))

	days, err := ValidPeriod(days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := cacheKey(days)
	if s.cache != nil {
		var cached Dashboard
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("analytics cache read failed", sl.Err(err))
		}
		if found {
			log.Debug("analytics served from cache")
			return &cached, nil
		}
	}

	var (
		overview  adminapi.Section[models.Overview]
		exams     adminapi.Section[[]models.ExamStat]
		users     adminapi.Section[models.UserActivity]
		retention adminapi.Section[models.Retention]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview, err = s.backend.Overview(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		exams, err = s.backend.Exams(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		users, err = s.backend.UserActivity(gctx, days)
		return err
	})
	g.Go(func() (err error) {
		retention, err = s.backend.Retention(gctx, days)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load analytics", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := &Dashboard{Days: days, Exams: []models.ExamStat{}, LoadedAt: s.now()}
	if overview.Success {
		d.Overview = overview.Data
	}
	if exams.Success && exams.Data != nil {
		d.Exams = exams.Data
	}
	if users.Success {
		d.Users = users.Data
	}
	if retention.Success {
		d.Retention = retention.Data
	}
	d.AvgDuration = FormatDuration(d.Overview.AvgDurationSeconds)
	d.Plans = planSeries(d.Overview.PlanDistribution)
	d.Hourly = hourSeries(d.Users.ActivityByHour)
	d.Daily = daySeries(d.Users.ActivityByDay)
	d.Signups = signupSeries(d.Users.SignupsByDay)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, d, s.ttl); err != nil {
			log.Warn("analytics cache write failed", sl.Err(err))
		}
	}
	return d, nil
}

// Reload сбрасывает кэш дашборда за период и загружает его заново.
func (s *Service) Reload(ctx context.Context, days int) (*Dashboard, error) {
	const op = "analytics.Service.Reload"
	if days == 0 {
		days = s.days
	}
	if _, err := ValidPeriod(days); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cacheKey(days)); err != nil {
			s.log.Warn("analytics cache invalidation failed", sl.Op(op), slog.Int("days", days), sl.Err(err))
		}
	}
	return s.Load(ctx, days)
}

func cacheKey(days int) string {
	return strconv.Itoa(days)
}

// Message возвращает текст ошибки загрузки для показа пользователю.
func Message(err error) string {
	if errors.Is(err, ErrInvalidPeriod) {
		return ErrInvalidPeriod.Error()
	}
	return adminapi.Message(err, FailedMessage)
}

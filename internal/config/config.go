// Package config предоставляет структуры и функции для загрузки конфига консоли
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	Backend                 `yaml:"backend"`
	TokenStore              `yaml:"token_store"`
	RedisConnection         `yaml:"redis_connection"`
	Users                   `yaml:"users"`
	Analytics               `yaml:"analytics"`
	HTTPServer              `yaml:"http_server"`
	GRPCServer              `yaml:"grpc_server"`
	RabbitMQ                `yaml:"rabbitmq"`
}

// Backend настройки REST API бэкенда
type Backend struct {
	BaseURL        string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:5000/api"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"BACKEND_REQUEST_TIMEOUT" env-default:"10s"`
}

// TokenStore настройки хранилища токена сессии
type TokenStore struct {
	Kind          string `yaml:"kind" env:"TOKEN_STORE_KIND" env-default:"file"`
	FilePath      string `yaml:"file_path" env:"TOKEN_STORE_FILE_PATH" env-default:".admin-console/admin_token"`
	EncryptionKey string `yaml:"encryption_key" env:"TOKEN_STORE_ENCRYPTION_KEY"`
	RedisPrefix   string `yaml:"redis_prefix" env:"TOKEN_STORE_REDIS_PREFIX" env-default:"console:"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Addr        string        `yaml:"addr" env:"REDIS_ADDR"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user" env:"REDIS_USER"`
	DB          int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	MaxRetries  int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	Timeout     time.Duration `yaml:"timeout" env:"REDIS_TIMEOUT" env-default:"3s"`
}

// Users настройки списка пользователей
type Users struct {
	PageSize       int           `yaml:"page_size" env:"USERS_PAGE_SIZE" env-default:"16"`
	SearchDebounce time.Duration `yaml:"search_debounce" env:"USERS_SEARCH_DEBOUNCE" env-default:"300ms"`
}

// Analytics настройки дашборда
type Analytics struct {
	DefaultDays int           `yaml:"default_days" env:"ANALYTICS_DEFAULT_DAYS" env-default:"30"`
	CacheTTL    time.Duration `yaml:"cache_ttl" env:"ANALYTICS_CACHE_TTL" env-default:"5m"`
	CachePrefix string        `yaml:"cache_prefix" env:"ANALYTICS_CACHE_PREFIX" env-default:"console:analytics:"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	TimeoutHTTP time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	EntryPoint  string        `yaml:"entry_point" env:"HTTP_ENTRY_POINT" env-default:"/login"`
	RateLimit   float64       `yaml:"rate_limit" env:"HTTP_RATE_LIMIT" env-default:"20"`
	RateBurst   int           `yaml:"rate_burst" env:"HTTP_RATE_BURST" env-default:"40"`
}

// GRPCServer адрес health-сервера
type GRPCServer struct {
	AddressGRPC string `yaml:"address" env:"GRPC_ADDRESS" env-default:"localhost:50051"`
}

// RabbitMQ настройки публикации журнала
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env:"RABBITMQ_EXCHANGE" env-default:"admin.audit"`
	Retries    int           `yaml:"retries" env:"RABBITMQ_RETRIES" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"RABBITMQ_RETRY_DELAY" env-default:"2s"`
}

// Load читает конфиг из файла path с переопределением из окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if path == "" {
		return nil, fmt.Errorf("%s: CONFIG_PATH is not set", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file: %s - does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.TokenStore.Kind {
	case "file", "memory":
	case "redis":
		if c.RedisConnection.Addr == "" {
			return errors.New("token_store.kind redis requires redis_connection.addr")
		}
	default:
		return fmt.Errorf("unknown token_store.kind %q", c.TokenStore.Kind)
	}
	if c.Users.PageSize <= 0 {
		return errors.New("users.page_size must be positive")
	}
	if c.Analytics.CachePrefix == "" || c.Analytics.CachePrefix == c.TokenStore.RedisPrefix {
		return errors.New("analytics.cache_prefix must be set and differ from token_store.redis_prefix")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"Backend:\n"+
			"  BaseURL: %s\n"+
			"  RequestTimeout: %s\n"+
			"TokenStore:\n"+
			"  Kind: %s\n"+
			"  FilePath: %s\n"+
			"  EncryptionKey: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  Password: %s\n"+
			"  User: %s\n"+
			"  DB: %d\n"+
			"Users:\n"+
			"  PageSize: %d\n"+
			"  SearchDebounce: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"GRPCServer:\n"+
			"  Address: %s\n"+
			"RabbitMQ:\n"+
			"  URL: %s\n",
		c.Env,
		mask(c.StorageConnectionString),
		c.BaseURL,
		c.RequestTimeout,
		c.Kind,
		c.FilePath,
		mask(c.EncryptionKey),
		c.Addr,
		mask(c.Password),
		c.User,
		c.DB,
		c.PageSize,
		c.SearchDebounce,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AddressGRPC,
		mask(c.URL),
	)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}

// Package adminapi реализует HTTP-клиент административного REST API бэкенда:
// вход, проверку сессии, управление пользователями и чтение аналитики.
//
// Все запросы и ответы кодируются в JSON. После входа каждый запрос несёт
// заголовок Authorization: Bearer <token>; на сам вход заголовок не ставится.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/subscription-admin/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

// Authenticator поставляет токен для запросов и узнаёт о его отказе.
type Authenticator interface {
	// Token возвращает текущий токен или пустую строку.
	Token() string
	// Expire сообщает, что бэкенд отверг token.
	Expire(token string, reason error)
}

// Recorder собирает метрики вызовов бэкенда.
type Recorder interface {
	ObserveBackendRequest(endpoint, outcome string, d time.Duration)
}

// Client — клиент административного API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	recorder   Recorder

	mu   sync.RWMutex
	auth Authenticator
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (например, в тестах).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRecorder подключает сбор метрик.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient создаёт клиент для baseURL (например, http://localhost:5000/api).
func NewClient(baseURL string, timeout time.Duration, log *slog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAuthenticator подключает источник токена. Обычно это менеджер сессии.
func (c *Client) SetAuthenticator(a Authenticator) {
	c.mu.Lock()
	c.auth = a
	c.mu.Unlock()
}

func (c *Client) authenticator() Authenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

// call описывает один запрос к бэкенду.
type call struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	body     any
	// token, если задан, используется вместо токена Authenticator.
	token string
	// anonymous запрещает заголовок Authorization.
	anonymous bool
}

// newRequest собирает запрос и возвращает токен сессии, если он был подставлен
// из Authenticator.
func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, string, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var buf bytes.Buffer
	if cl.body != nil {
		if err := json.NewEncoder(&buf).Encode(cl.body); err != nil {
			return nil, "", err
		}
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, &buf)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if cl.anonymous {
		return req, "", nil
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
		return req, "", nil
	}
	var token string
	if a := c.authenticator(); a != nil {
		token = a.Token()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, token, nil
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	const op = "adminapi.do"

	start := time.Now()
	defer func() {
		if c.recorder != nil {
			c.recorder.ObserveBackendRequest(cl.endpoint, outcome(err), time.Since(start))
		}
	}()

	req, sessionToken, err := c.newRequest(ctx, cl)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: ErrNetwork, Message: "network error", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: ErrNetwork, Status: resp.StatusCode, Message: "network error", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: DefaultMessage,
		}
		var body errorBody
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		}
		c.log.Debug("backend request failed",
			sl.Op(op),
			slog.String("endpoint", cl.endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("message", apiErr.Message),
		)
		if errors.Is(apiErr, ErrAuth) && sessionToken != "" {
			if a := c.authenticator(); a != nil {
				a.Expire(sessionToken, apiErr)
			}
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &APIError{Kind: ErrNetwork, Status: resp.StatusCode, Message: "malformed response", Cause: err}
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNetwork):
		return "network"
	default:
		return "error"
	}
}

// Login выполняет POST /admin/login. Токен не передаётся.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, call{
		endpoint:  "login",
		method:    http.MethodPost,
		path:      "/admin/login",
		body:      loginRequest{Email: email, Password: password},
		anonymous: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, &APIError{Kind: ErrUnexpected, Status: http.StatusOK, Message: "login response without token"}
	}
	return &res, nil
}

// Me выполняет GET /admin/me с явно переданным токеном.
func (c *Client) Me(ctx context.Context, token string) (models.Identity, error) {
	var res meResponse
	err := c.do(ctx, call{
		endpoint: "me",
		method:   http.MethodGet,
		path:     "/admin/me",
		token:    token,
	}, &res)
	return res.User, err
}

// ListUsers выполняет GET /admin/users?page&limit&search.
func (c *Client) ListUsers(ctx context.Context, q ListQuery) (models.PageView, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("search", q.Search)

	var res listUsersResponse
	if err := c.do(ctx, call{
		endpoint: "users.list",
		method:   http.MethodGet,
		path:     "/admin/users",
		query:    query,
	}, &res); err != nil {
		return models.PageView{}, err
	}
	return models.NewPageView(res.Users, res.Pagination), nil
}

// UpdateUser выполняет PUT /admin/users/:id с частичными полями.
func (c *Client) UpdateUser(ctx context.Context, id string, patch models.UserPatch) error {
	return c.do(ctx, call{
		endpoint: "users.update",
		method:   http.MethodPut,
		path:     "/admin/users/" + url.PathEscape(id),
		body:     patch,
	}, nil)
}

// DeleteUser выполняет DELETE /admin/users/:id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, call{
		endpoint: "users.delete",
		method:   http.MethodDelete,
		path:     "/admin/users/" + url.PathEscape(id),
	}, nil)
}

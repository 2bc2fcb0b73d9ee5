package adminapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

type fakeAuth struct {
	mu      sync.Mutex
	token   string
	expired []error
}

func (f *fakeAuth) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeAuth) Expire(token string, reason error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token == f.token {
		f.expired = append(f.expired, reason)
	}
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *fakeAuth) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	auth := &fakeAuth{token: "session-token"}
	c := NewClient(srv.URL+"/api", time.Second, newNoopLogger())
	c.SetAuthenticator(auth)
	return c, auth
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "login must not carry a bearer token")

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok-1",
			"user":  map[string]string{"_id": "a1", "email": body.Email, "firstName": "Ada", "lastName": "L"},
		})
	})

	t.Run("успешный вход", func(t *testing.T) {
		res, err := c.Login(context.Background(), "ada@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok-1", res.Token)
		assert.Equal(t, models.Identity{ID: "a1", Email: "ada@example.com", FirstName: "Ada", LastName: "L"}, res.User)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		_, err := c.Login(context.Background(), "ada@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAuth)
		assert.Equal(t, "Invalid credentials", Message(err, "Login failed"))
	})
}

func TestClient_LoginFailureDoesNotExpireSession(t *testing.T) {
	c, auth := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "nope"})
	})

	_, err := c.Login(context.Background(), "a@b.c", "x")
	require.ErrorIs(t, err, ErrAuth)
	assert.Empty(t, auth.expired)
}

func TestClient_MeUsesExplicitToken(t *testing.T) {
	c, auth := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "jwt expired"})
	})

	_, err := c.Me(context.Background(), "stored-token")
	require.ErrorIs(t, err, ErrAuth)
	assert.Empty(t, auth.expired, "explicit-token calls are handled by the caller")
}

func TestClient_ListUsers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer session-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "16", r.URL.Query().Get("limit"))
		assert.Equal(t, "jo & co", r.URL.Query().Get("search"))

		writeJSON(w, http.StatusOK, map[string]any{
			"users": []map[string]any{
				{"_id": "u1", "email": "u1@x.io", "subscription": map[string]any{"plan": "weekly"}},
				{"_id": "u2", "email": "u2@x.io", "blocked": true},
			},
			"pagination": map[string]int{"page": 2, "pages": 5, "total": 70},
		})
	})

	view, err := c.ListUsers(context.Background(), ListQuery{Page: 2, Limit: 16, Search: "jo & co"})
	require.NoError(t, err)
	require.Len(t, view.Records, 2)
	assert.Equal(t, "u1", view.Records[0].ID)
	assert.Equal(t, models.PlanWeekly, view.Records[0].Subscription.Plan)
	assert.True(t, view.Records[1].Blocked)
	assert.Equal(t, 2, view.Page)
	assert.Equal(t, 5, view.TotalPages)
	assert.Equal(t, 70, view.TotalCount)
}

func TestClient_AuthErrorExpiresSession(t *testing.T) {
	c, auth := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})

	_, err := c.ListUsers(context.Background(), ListQuery{Page: 1, Limit: 10})
	require.ErrorIs(t, err, ErrAuth)
	require.Len(t, auth.expired, 1)
	assert.ErrorIs(t, auth.expired[0], ErrAuth)
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"валидация", http.StatusBadRequest, `{"message":"bad plan"}`, ErrValidation, "bad plan"},
		{"422", http.StatusUnprocessableEntity, `{}`, ErrValidation, DefaultMessage},
		{"не найден", http.StatusNotFound, `{"message":"User not found"}`, ErrNotFound, "User not found"},
		{"ошибка сервера", http.StatusInternalServerError, `not json`, ErrUnexpected, DefaultMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/api/admin/users/u%201", r.URL.EscapedPath())
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			blocked := true
			err := c.UpdateUser(context.Background(), "u 1", models.UserPatch{Blocked: &blocked})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.message, Message(err, "fallback"))

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, time.Second, newNoopLogger())
	err := c.DeleteUser(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.DeleteUser(ctx, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_UpdateUserSendsPartialFields(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"blocked": false}, body)
		w.WriteHeader(http.StatusOK)
	})

	blocked := false
	require.NoError(t, c.UpdateUser(context.Background(), "u1", models.UserPatch{Blocked: &blocked}))
}

func TestClient_AnalyticsSections(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		switch r.URL.Path {
		case "/api/admin/analytics/overview":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{"totalUsers": 12}})
		case "/api/admin/analytics/exams":
			writeJSON(w, http.StatusOK, map[string]any{"success": false})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ov, err := c.Overview(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, ov.Success)
	assert.Equal(t, 12, ov.Data.TotalUsers)

	ex, err := c.Exams(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, ex.Success)
	assert.Empty(t, ex.Data)
}

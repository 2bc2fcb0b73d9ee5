package middlewarectx_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-admin/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-admin/internal/http/response"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/session"
)

type fixedSession struct {
	status session.Status
}

func (f *fixedSession) Status() session.Status { return f.status }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestSessionGate(t *testing.T) {
	admin := models.Identity{ID: "a1", Email: "root@example.com"}

	tests := []struct {
		name         string
		status       session.Status
		wantCode     int
		wantError    string
		wantLocation string
		wantRetry    string
		wantCalled   bool
	}{
		{
			name:      "инициализация",
			status:    session.Status{State: session.StateInitializing},
			wantCode:  http.StatusServiceUnavailable,
			wantError: "session initializing",
			wantRetry: "1",
		},
		{
			name:         "аноним",
			status:       session.Status{State: session.StateAnonymous},
			wantCode:     http.StatusUnauthorized,
			wantError:    "not authenticated",
			wantLocation: "/login",
		},
		{
			name:       "администратор",
			status:     session.Status{State: session.StateAuthenticated, Identity: &admin},
			wantCode:   http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, ok := middlewarectx.AdminFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, admin, got)
				assert.Equal(t, "root@example.com", middlewarectx.ActorFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			h := middlewarectx.SessionGate(newNoopLogger(), &fixedSession{status: tt.status}, "/login")(next)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			assert.Equal(t, tt.wantRetry, rr.Header().Get("Retry-After"))

			if tt.wantError != "" {
				var resp response.Response
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Equal(t, tt.wantError, resp.Error)
			}
		})
	}
}

func TestSessionGate_ReevaluatedPerRequest(t *testing.T) {
	admin := models.Identity{ID: "a1"}
	sess := &fixedSession{status: session.Status{State: session.StateAuthenticated, Identity: &admin}}
	h := middlewarectx.SessionGate(newNoopLogger(), sess, "/login")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	sess.status = session.Status{State: session.StateAnonymous}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestActorFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middlewarectx.ActorFromContext(r.Context()))
}

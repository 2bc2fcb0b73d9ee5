package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/users/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/users/1", "/users/2", "/ok"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/users/{id}", "202")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/ok", "200")))
}

func TestRecorders(t *testing.T) {
	m := New()

	m.ObserveBackendRequest("users.list", "ok", 20*time.Millisecond)
	m.ObserveSessionTransition("authenticated")
	m.ObserveFetch("superseded", time.Millisecond)
	m.MutationSettled(context.Background(), userlist.Mutation{Action: models.ActionDelete, Err: errors.New("x"), RolledBack: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendRequests.WithLabelValues("users.list", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionTransition.WithLabelValues("authenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("superseded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("delete", "rolled_back")))
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.ObserveSessionTransition("anonymous")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `admin_console_session_transitions_total{state="anonymous"} 1`))
}

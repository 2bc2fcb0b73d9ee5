package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type UsersMock struct {
	mock.Mock
}

func (m *UsersMock) EditSubscription(ctx context.Context, id string, sub models.Subscription) <-chan error {
	args := m.Called(ctx, id, sub)
	return args.Get(0).(chan error)
}

func (m *UsersMock) View() userlist.View {
	return userlist.View{}
}

func pending() chan error { return make(chan error, 1) }

func settled(err error) chan error {
	ch := make(chan error, 1)
	ch <- err
	return ch
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Put("/users/{id}/subscription", h.ServeHTTP)
	return r
}

func TestSubscriptionHandler(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		url       string
		body      string
		result    chan error
		wantSub   *models.Subscription
		wantCode  int
		wantError string
	}{
		{
			name:     "изменение принято",
			url:      "/users/u1/subscription",
			body:     `{"plan":"weekly","start_date":"2026-01-01T00:00:00Z"}`,
			result:   pending(),
			wantSub:  &models.Subscription{Plan: models.PlanWeekly, StartDate: &start},
			wantCode: http.StatusAccepted,
		},
		{
			name:     "ожидание итога",
			url:      "/users/u1/subscription?wait=true",
			body:     `{"plan":"free"}`,
			result:   settled(nil),
			wantSub:  &models.Subscription{Plan: models.PlanFree},
			wantCode: http.StatusOK,
		},
		{
			name:     "без дат подписка уходит без дат",
			url:      "/users/u1/subscription",
			body:     `{"plan":"monthly","start_date":null}`,
			result:   pending(),
			wantSub:  &models.Subscription{Plan: models.PlanMonthly, StartDate: nil, ExpiresAt: nil},
			wantCode: http.StatusAccepted,
		},
		{
			name:      "бэкенд отклонил",
			url:       "/users/u1/subscription?wait=true",
			body:      `{"plan":"monthly"}`,
			result:    settled(&adminapi.APIError{Kind: adminapi.ErrValidation, Status: 400, Message: "bad plan"}),
			wantSub:   &models.Subscription{Plan: models.PlanMonthly},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "bad plan",
		},
		{
			name:      "записи нет на странице",
			url:       "/users/u9/subscription",
			body:      `{"plan":"monthly"}`,
			result:    settled(userlist.ErrRecordNotFound),
			wantSub:   &models.Subscription{Plan: models.PlanMonthly},
			wantCode:  http.StatusNotFound,
			wantError: "record is not on the current page",
		},
		{
			name:      "изменение уже идёт",
			url:       "/users/u1/subscription",
			body:      `{"plan":"monthly"}`,
			result:    settled(userlist.ErrMutationPending),
			wantSub:   &models.Subscription{Plan: models.PlanMonthly},
			wantCode:  http.StatusConflict,
			wantError: "another change of this record is in progress",
		},
		{
			name:      "неизвестный план",
			url:       "/users/u1/subscription",
			body:      `{"plan":"yearly"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field Plan must be one of [free weekly monthly quarterly]",
		},
		{
			name:      "окончание раньше начала",
			url:       "/users/u1/subscription",
			body:      `{"plan":"weekly","start_date":"2026-02-01T00:00:00Z","expires_at":"2026-01-01T00:00:00Z"}`,
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "field ExpiresAt must not be before StartDate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(UsersMock)
			if tt.wantSub != nil {
				users.On("EditSubscription", mock.Anything, mock.AnythingOfType("string"), *tt.wantSub).Return(tt.result).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), users)

			rr := httptest.NewRecorder()
			newRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body)))
			require.Equal(t, tt.wantCode, rr.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			users.AssertExpectations(t)
		})
	}
}

package block

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type fakeUsers struct {
	result chan error
	ids    []string
}

func (f *fakeUsers) ToggleBlock(_ context.Context, id string) <-chan error {
	f.ids = append(f.ids, id)
	return f.result
}

func (f *fakeUsers) View() userlist.View { return userlist.View{} }

func TestBlockHandler(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		err      error
		ready    bool
		wantCode int
		wantBody string
	}{
		{name: "переключение принято", url: "/users/u1/block", wantCode: http.StatusAccepted},
		{name: "переключено", url: "/users/u1/block?wait=true", ready: true, wantCode: http.StatusOK},
		{
			name:     "сеть недоступна",
			url:      "/users/u1/block?wait=true",
			ready:    true,
			err:      &adminapi.APIError{Kind: adminapi.ErrNetwork},
			wantCode: http.StatusBadGateway,
			wantBody: `"error":"Failed to update user"`,
		},
		{name: "изменение уже идёт", url: "/users/u1/block", ready: true, err: userlist.ErrMutationPending, wantCode: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{result: make(chan error, 1)}
			if tt.ready {
				users.result <- tt.err
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), users)
			r := chi.NewRouter()
			r.Post("/users/{id}/block", h.ServeHTTP)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, tt.url, nil))
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			assert.Equal(t, []string{"u1"}, users.ids)
		})
	}
}

package page

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

type fakeUsers struct {
	err   error
	pages []int
}

func (f *fakeUsers) GoToPage(n int) <-chan error {
	f.pages = append(f.pages, n)
	ch := make(chan error, 1)
	ch <- f.err
	return ch
}

func (f *fakeUsers) View() userlist.View {
	return userlist.View{Page: models.PageView{Page: 2, TotalPages: 3}}
}

func TestPageHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		err       error
		wantCode  int
		wantError string
		wantCall  bool
	}{
		{name: "успешный переход", body: `{"page":2}`, wantCode: http.StatusOK, wantCall: true},
		{name: "выборку обогнали", body: `{"page":2}`, err: userlist.ErrSuperseded, wantCode: http.StatusAccepted, wantCall: true},
		{name: "нет страницы", body: `{"page":9}`, err: userlist.ErrNoPage, wantCode: http.StatusUnprocessableEntity, wantError: "page out of range", wantCall: true},
		{
			name:      "ошибка бэкенда",
			body:      `{"page":2}`,
			err:       &adminapi.APIError{Kind: adminapi.ErrUnexpected, Status: 500, Message: "db down"},
			wantCode:  http.StatusBadGateway,
			wantError: "db down",
			wantCall:  true,
		},
		{name: "сеть без сообщения", body: `{"page":2}`, err: &adminapi.APIError{Kind: adminapi.ErrNetwork}, wantCode: http.StatusBadGateway, wantError: FailedMessage, wantCall: true},
		{name: "нулевая страница", body: `{"page":0}`, wantCode: http.StatusUnprocessableEntity, wantError: "field Page must be at least 1"},
		{name: "битый json", body: `{`, wantCode: http.StatusBadRequest, wantError: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{err: tt.err}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), users)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/users/page", bytes.NewBufferString(tt.body)))
			require.Equal(t, tt.wantCode, rr.Code)

			var resp struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			if tt.wantCall {
				assert.Len(t, users.pages, 1)
			} else {
				assert.Empty(t, users.pages)
			}
		})
	}
}

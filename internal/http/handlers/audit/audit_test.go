package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subscription-admin/internal/audit"
	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

type JournalMock struct {
	mock.Mock
}

func (m *JournalMock) Recent(ctx context.Context, limit int) ([]models.AuditEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]models.AuditEvent)
	return events, args.Error(1)
}

func TestAuditHandler(t *testing.T) {
	event := models.AuditEvent{
		ID:      "e1",
		Action:  models.ActionDelete,
		UserID:  "u1",
		Actor:   "root@example.com",
		Outcome: models.OutcomeCommitted,
		At:      time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name     string
		query    string
		limit    int
		events   []models.AuditEvent
		err      error
		noCall   bool
		wantCode int
		wantBody string
	}{
		{name: "последние события", events: []models.AuditEvent{event}, wantCode: http.StatusOK, wantBody: `"action":"delete"`},
		{name: "с лимитом", query: "?limit=5", limit: 5, events: nil, wantCode: http.StatusOK, wantBody: `"data":[]`},
		{name: "некорректный лимит", query: "?limit=-1", noCall: true, wantCode: http.StatusBadRequest, wantBody: "invalid limit"},
		{name: "журнал не настроен", err: audit.ErrNotConfigured, wantCode: http.StatusNotImplemented, wantBody: "audit repository is not configured"},
		{name: "ошибка хранилища", err: errors.New("conn reset"), wantCode: http.StatusInternalServerError, wantBody: "failed to list audit events"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := new(JournalMock)
			if !tt.noCall {
				journal.On("Recent", mock.Anything, tt.limit).Return(tt.events, tt.err).Once()
			}
			h := New(slog.New(slog.NewTextHandler(io.Discard, nil)), journal)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/audit"+tt.query, nil))
			assert.Equal(t, tt.wantCode, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			journal.AssertExpectations(t)
		})
	}
}

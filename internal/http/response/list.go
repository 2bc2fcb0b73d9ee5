package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/magabrotheeeer/subscription-admin/internal/adminapi"
	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

// ListStatus подбирает HTTP-код для ошибки контроллера списка пользователей.
func ListStatus(err error) int {
	switch {
	case errors.Is(err, userlist.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, userlist.ErrMutationPending):
		return http.StatusConflict
	case errors.Is(err, userlist.ErrInvalidPlan),
		errors.Is(err, userlist.ErrNoPage),
		errors.Is(err, userlist.ErrInvalidDialog):
		return http.StatusUnprocessableEntity
	case errors.Is(err, userlist.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return BackendStatus(err)
	}
}

// Settle читает итог операции списка. Без wait возвращает settled=false,
// если итог ещё не готов; с wait ждёт его или отмены ctx.
func Settle(ctx context.Context, result <-chan error, wait bool) (settled bool, err error) {
	if !wait {
		select {
		case err := <-result:
			return true, err
		default:
			return false, nil
		}
	}
	select {
	case err := <-result:
		return true, err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// ListMessage возвращает текст ошибки списка для показа пользователю.
func ListMessage(err error, fallback string) string {
	for _, known := range []error{
		userlist.ErrRecordNotFound,
		userlist.ErrMutationPending,
		userlist.ErrInvalidPlan,
		userlist.ErrNoPage,
		userlist.ErrInvalidDialog,
		userlist.ErrClosed,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return adminapi.Message(err, fallback)
}

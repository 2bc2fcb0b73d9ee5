package adminapi

import (
	"errors"
	"net/http"
)

// Классы ошибок бэкенда. Конкретная ошибка всегда *APIError,
// которая разворачивается в один из них для errors.Is.
var (
	ErrAuth       = errors.New("auth error")
	ErrNetwork    = errors.New("network error")
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrUnexpected = errors.New("unexpected response")
)

// DefaultMessage — сообщение, если бэкенд не прислал своего.
const DefaultMessage = "API request failed"

// APIError описывает неуспешный вызов бэкенда.
type APIError struct {
	Kind    error
	Status  int
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap позволяет проверять и класс ошибки, и исходную причину.
func (e *APIError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

// Message возвращает текст ошибки, пригодный для показа пользователю.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrUnexpected
	}
}

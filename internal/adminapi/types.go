package adminapi

import "github.com/magabrotheeeer/subscription-admin/internal/models"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult — ответ POST /admin/login.
type LoginResult struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

type meResponse struct {
	User models.Identity `json:"user"`
}

type listUsersResponse struct {
	Users      []models.UserRecord `json:"users"`
	Pagination models.Pagination   `json:"pagination"`
}

// ListQuery — параметры GET /admin/users.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

// Section — конверт аналитических ответов {success, data}.
type Section[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

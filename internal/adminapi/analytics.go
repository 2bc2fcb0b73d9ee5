package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/magabrotheeeer/subscription-admin/internal/models"
)

func analyticsSection[T any](ctx context.Context, c *Client, name string, days int) (Section[T], error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var res Section[T]
	err := c.do(ctx, call{
		endpoint: "analytics." + name,
		method:   http.MethodGet,
		path:     "/admin/analytics/" + name,
		query:    query,
	}, &res)
	return res, err
}

// Overview выполняет GET /admin/analytics/overview?days=N.
func (c *Client) Overview(ctx context.Context, days int) (Section[models.Overview], error) {
	return analyticsSection[models.Overview](ctx, c, "overview", days)
}

// Exams выполняет GET /admin/analytics/exams?days=N.
func (c *Client) Exams(ctx context.Context, days int) (Section[[]models.ExamStat], error) {
	return analyticsSection[[]models.ExamStat](ctx, c, "exams", days)
}

// UserActivity выполняет GET /admin/analytics/users?days=N.
func (c *Client) UserActivity(ctx context.Context, days int) (Section[models.UserActivity], error) {
	return analyticsSection[models.UserActivity](ctx, c, "users", days)
}

// Retention выполняет GET /admin/analytics/retention?days=N.
func (c *Client) Retention(ctx context.Context, days int) (Section[models.Retention], error) {
	return analyticsSection[models.Retention](ctx, c, "retention", days)
}

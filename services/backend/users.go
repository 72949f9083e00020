package backend

import (
	"context"
	"net/http"

	"github.com/trezcool/darasa/core/user"
)

type UserPage struct {
	Pagination
	Data []user.User `json:"data"`
}

// Users lists users, optionally filtered by role.
func (c *Client) Users(ctx context.Context, filter user.QueryFilter) (UserPage, error) {
	q := pageQuery(filter.Page, filter.Limit)
	if filter.Role != "" {
		q.Set("role", filter.Role)
	}
	var page UserPage
	err := c.do(ctx, http.MethodGet, "/users", q, nil, &page)
	return page, err
}

// CreateInstructor creates an instructor account (admin only).
func (c *Client) CreateInstructor(ctx context.Context, in user.NewInstructor) (user.User, error) {
	var out struct {
		Data user.User `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/users/instructor", nil, in, &out)
	return out.Data, err
}

// DeleteUser removes a user account (admin only).
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil, nil)
}

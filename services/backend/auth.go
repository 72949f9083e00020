package backend

import (
	"context"
	"net/http"

	"github.com/trezcool/darasa/core/session"
	"github.com/trezcool/darasa/core/user"
)

var _ session.Gateway = (*Client)(nil)

// Login exchanges credentials for a user and a bearer token. The token is
// persisted in the credential store as a side effect of a successful call;
// this is the only operation that writes it.
func (c *Client) Login(ctx context.Context, in user.Login) (user.User, error) {
	var out struct {
		User        user.User `json:"user"`
		AccessToken string    `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return user.User{}, err
	}
	if err := c.creds.Set(out.AccessToken); err != nil {
		return user.User{}, err
	}
	return out.User, nil
}

// Register creates a new student account. It does not authenticate.
func (c *Client) Register(ctx context.Context, in user.NewUser) (user.User, error) {
	var out struct {
		Data user.User `json:"data"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out)
	return out.Data, err
}

// Me returns the user the stored token belongs to.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &usr)
	return usr, err
}

// Logout invalidates the session server-side. The stored token is deleted
// unconditionally, even when the call fails: local de-authentication must
// succeed through a network partition.
func (c *Client) Logout(ctx context.Context) error {
	defer func() {
		if err := c.creds.Delete(); err != nil {
			c.logger.Warn("backend: deleting token on logout", err)
		}
	}()
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}

// UpdateProfile modifies the authenticated user's own account.
func (c *Client) UpdateProfile(ctx context.Context, in user.UpdateProfile) (user.User, error) {
	var usr user.User
	err := c.do(ctx, http.MethodPatch, "/users/profile", nil, in, &usr)
	return usr, err
}

// DeleteAccount removes the authenticated user's account. Like Logout, the
// stored token is deleted no matter how the call ends.
func (c *Client) DeleteAccount(ctx context.Context) error {
	defer func() {
		if err := c.creds.Delete(); err != nil {
			c.logger.Warn("backend: deleting token on account deletion", err)
		}
	}()
	return c.do(ctx, http.MethodDelete, "/users/delete", nil, nil, nil)
}

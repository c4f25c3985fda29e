package backend

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/marble-store/core/user"
)

func (c *Client) Login(ctx context.Context, l user.Login) (user.User, error) {
	var u user.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/login", l, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (c *Client) Register(ctx context.Context, r user.Register) (user.User, error) {
	var u user.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/register", r, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// GoogleLogin exchanges a verified Google ID token for a backend account.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (user.User, error) {
	body := struct {
		Token string `json:"token"`
	}{idToken}

	var u user.User
	if err := c.doJSON(ctx, http.MethodPost, "/api/users/google", body, &u); err != nil {
		return user.User{}, err
	}
	return u, nil
}

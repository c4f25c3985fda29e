package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/core/user"
	"github.com/irsalhamdi/marble-store/validate"
)

// view is a user as served to the browser, without the backend token.
type view struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

func toView(u user.User) view {
	return view{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
}

func HandleLogin(session *scs.SessionManager, accounts Accounts) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var l user.Login
		if err := web.Decode(w, r, &l); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(l); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := accounts.Login(ctx, l)
		if err != nil {
			return fmt.Errorf("logging in[%s]: %w", l.Email, err)
		}

		if err := signIn(ctx, session, u); err != nil {
			return err
		}

		return web.Respond(ctx, w, toView(u), http.StatusOK)
	}
}

func HandleRegister(session *scs.SessionManager, accounts Accounts) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var reg user.Register
		if err := web.Decode(w, r, &reg); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(reg); err != nil {
			return weberr.BadRequest(err)
		}

		u, err := accounts.Register(ctx, reg)
		if err != nil {
			return fmt.Errorf("registering[%s]: %w", reg.Email, err)
		}

		if err := signIn(ctx, session, u); err != nil {
			return err
		}

		return web.Respond(ctx, w, toView(u), http.StatusCreated)
	}
}

func HandleLogout(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := session.RenewToken(ctx); err != nil {
			return fmt.Errorf("renewing session token: %w", err)
		}
		session.Remove(ctx, userKey)

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleShowCurrent(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		u, ok := CurrentUser(ctx, session)
		if !ok {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}
		return web.Respond(ctx, w, toView(u), http.StatusOK)
	}
}

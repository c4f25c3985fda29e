package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/core/claims"
	"github.com/irsalhamdi/marble-store/core/user"
)

const userKey = "USER"

// Accounts is the backend side of authentication.
type Accounts interface {
	Login(ctx context.Context, l user.Login) (user.User, error)
	Register(ctx context.Context, r user.Register) (user.User, error)
	GoogleLogin(ctx context.Context, idToken string) (user.User, error)
}

// LoadAndSave loads the visitor's session before the handler runs and
// commits it afterwards.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var err error
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				err = handler(r.Context(), w, r)
			})

			session.LoadAndSave(next).ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}

// Identify attaches the claims of a signed-in visitor to the context.
// Anonymous visitors pass through unchanged.
func Identify(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if u, ok := CurrentUser(ctx, session); ok {
				ctx = claims.Set(ctx, claimsOf(u))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// Authenticate rejects anonymous visitors.
func Authenticate(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			u, ok := CurrentUser(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			return handler(claims.Set(ctx, claimsOf(u)), w, r)
		}
		return h
	}
	return m
}

// Admin rejects visitors who are not signed in as administrators.
func Admin(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			u, ok := CurrentUser(ctx, session)
			if !ok {
				return weberr.NotAuthorized(errors.New("user not authenticated"))
			}
			if !u.IsAdmin {
				return weberr.Forbidden(fmt.Errorf("user[%s] is not an admin", u.ID))
			}
			return handler(claims.Set(ctx, claimsOf(u)), w, r)
		}
		return h
	}
	return m
}

// CurrentUser returns the user stored in the session, if any.
func CurrentUser(ctx context.Context, session *scs.SessionManager) (user.User, bool) {
	raw := session.GetString(ctx, userKey)
	if raw == "" {
		return user.User{}, false
	}

	var u user.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return user.User{}, false
	}
	return u, true
}

// signIn renews the session token against fixation and stores u.
func signIn(ctx context.Context, session *scs.SessionManager, u user.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding session user: %w", err)
	}

	if err := session.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	session.Put(ctx, userKey, string(b))
	return nil
}

func claimsOf(u user.User) claims.Claims {
	role := claims.RoleUser
	if u.IsAdmin {
		role = claims.RoleAdmin
	}
	return claims.Claims{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   role,
		Token:  u.Token,
	}
}

package cart

import (
	"context"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// SessionStorage persists the cart in the visitor's scs session. The
// request context must carry a loaded session.
type SessionStorage struct {
	Session *scs.SessionManager
}

func (s SessionStorage) Get(ctx context.Context, key string) (v string, err error) {
	defer recoverSession(key, &err)
	return s.Session.GetString(ctx, key), nil
}

func (s SessionStorage) Set(ctx context.Context, key string, value string) (err error) {
	defer recoverSession(key, &err)
	s.Session.Put(ctx, key, value)
	return nil
}

// scs panics when the context has no session.
func recoverSession(key string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("session access for %q: %v", key, r)
	}
}

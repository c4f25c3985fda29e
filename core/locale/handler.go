package locale

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/validate"
)

const sessionKey = "locale"

// Current returns the locale stored in the visitor's session.
func Current(ctx context.Context, session *scs.SessionManager) string {
	return Normalize(session.GetString(ctx, sessionKey))
}

type Choice struct {
	Locale string `json:"locale" validate:"required,oneof=en fr tn it zh"`
}

type view struct {
	Locale    string   `json:"locale"`
	Supported []string `json:"supported"`
}

func HandleShow(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, view{Current(ctx, session), Supported}, http.StatusOK)
	}
}

func HandleUpdate(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var c Choice
		if err := web.Decode(w, r, &c); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(c); err != nil {
			return weberr.BadRequest(err)
		}

		session.Put(ctx, sessionKey, c.Locale)
		return web.Respond(ctx, w, view{c.Locale, Supported}, http.StatusOK)
	}
}

package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/marble-store/api/middleware"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/core/catalog"
	"github.com/irsalhamdi/marble-store/core/locale"
	"github.com/irsalhamdi/marble-store/validate"
	"github.com/sirupsen/logrus"
)

// Catalog resolves product ids to their current catalog record.
type Catalog interface {
	Marble(ctx context.Context, id string) (catalog.Product, error)
}

type ItemNew struct {
	ProductID string `json:"productId" validate:"required"`
	Count     int    `json:"count" validate:"omitempty,gte=1"`
}

type ItemUp struct {
	Count float64 `json:"count"`
}

// View is the cart as served to the browser.
type View struct {
	Cart
	TotalPriceFormatted string `json:"totalPriceFormatted"`
}

// Open loads the cart of the request's visitor.
func Open(ctx context.Context, session *scs.SessionManager, log logrus.FieldLogger) *Store {
	log = log.WithField("req_id", middleware.ContextRequestID(ctx))
	return Load(ctx, SessionStorage{Session: session}, log)
}

func NewView(ctx context.Context, session *scs.SessionManager, s *Store) View {
	c := s.Cart()
	return View{
		Cart:                c,
		TotalPriceFormatted: locale.FormatPrice(locale.Current(ctx, session), c.TotalPrice),
	}
}

func HandleShow(session *scs.SessionManager, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := Open(ctx, session, log)
		return web.Respond(ctx, w, NewView(ctx, session, s), http.StatusOK)
	}
}

func HandleDelete(session *scs.SessionManager, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := Open(ctx, session, log)
		s.Clear(ctx)
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

// HandleCreateItem adds a product to the cart. The snapshot is taken
// from the catalog so clients cannot choose their own price.
func HandleCreateItem(session *scs.SessionManager, cat Catalog, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemNew
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(in); err != nil {
			return weberr.BadRequest(err)
		}

		p, err := cat.Marble(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("fetching product[%s]: %w", in.ProductID, err)
		}

		count := in.Count
		if count == 0 {
			count = 1
		}

		s := Open(ctx, session, log)
		s.Add(ctx, Snapshot(p), count)

		return web.Respond(ctx, w, NewView(ctx, session, s), http.StatusOK)
	}
}

func HandleUpdateItem(session *scs.SessionManager, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var in ItemUp
		if err := web.Decode(w, r, &in); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		s := Open(ctx, session, log)

		raw := web.Param(r, "product_id")
		id, ok := s.Lookup(raw)
		if !ok {
			return weberr.NotFound(fmt.Errorf("product[%s] is not in the cart", raw))
		}
		s.UpdateQuantity(ctx, id, in.Count)

		return web.Respond(ctx, w, NewView(ctx, session, s), http.StatusOK)
	}
}

func HandleDeleteItem(session *scs.SessionManager, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		s := Open(ctx, session, log)

		raw := web.Param(r, "product_id")
		if id, ok := s.Lookup(raw); ok {
			s.Remove(ctx, id)
		}

		return web.Respond(ctx, w, NewView(ctx, session, s), http.StatusOK)
	}
}

var ErrEmpty = errors.New("cart is empty")

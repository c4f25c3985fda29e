package order

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/core/cart"
	"github.com/irsalhamdi/marble-store/validate"
	"github.com/sirupsen/logrus"
)

// Desk is the backend order service.
type Desk interface {
	SubmitOrder(ctx context.Context, o Order) (Result, error)
	Orders(ctx context.Context) ([]Order, error)
	ValidateOrder(ctx context.Context, id string) error
	DeleteOrder(ctx context.Context, id string) error
}

// checkout builds the order for the cart lines.
func checkout(on OrderNew, c cart.Cart) Order {
	items := make([]Item, 0, len(c.Items))
	for _, l := range c.Items {
		items = append(items, Item{Marble: l.Product.ID, Count: l.Count})
	}

	return Order{
		OrderName:   on.OrderName,
		PhoneNumber: on.PhoneNumber,
		TotalPrice:  c.TotalPrice,
		Location:    on.Location,
		Items:       items,
	}
}

// HandleCheckout submits the visitor's cart as an order and empties the
// cart once the backend accepts it.
func HandleCheckout(session *scs.SessionManager, desk Desk, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var on OrderNew
		if err := web.Decode(w, r, &on); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(on); err != nil {
			return weberr.BadRequest(err)
		}

		s := cart.Open(ctx, session, log)
		if s.Len() == 0 {
			return weberr.Unprocessable(cart.ErrEmpty, "no items to checkout")
		}

		ord := checkout(on, s.Cart())
		res, err := desk.SubmitOrder(ctx, ord)
		if err != nil {
			return fmt.Errorf("submitting order %q: %w", ord.OrderName, err)
		}

		s.Clear(ctx)

		return web.Respond(ctx, w, res, http.StatusCreated)
	}
}

func HandleList(desk Desk) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ords, err := desk.Orders(ctx)
		if err != nil {
			return fmt.Errorf("fetching orders: %w", err)
		}
		if ords == nil {
			ords = []Order{}
		}

		return web.Respond(ctx, w, ords, http.StatusOK)
	}
}

func HandleValidate(desk Desk) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if err := desk.ValidateOrder(ctx, id); err != nil {
			return fmt.Errorf("validating order[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleDelete(desk Desk) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if err := desk.DeleteOrder(ctx, id); err != nil {
			return fmt.Errorf("deleting order[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

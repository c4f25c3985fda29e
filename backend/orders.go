package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/marble-store/core/order"
)

// SubmitOrder posts an order. A response with "success": false is an
// error even when the status code is 2xx.
func (c *Client) SubmitOrder(ctx context.Context, o order.Order) (order.Result, error) {
	var res order.Result
	if err := c.doJSON(ctx, http.MethodPost, "/api/commande", o, &res); err != nil {
		return order.Result{}, err
	}

	if res.Success != nil && !*res.Success {
		msg := res.Message
		if msg == "" {
			msg = "order failed"
		}
		return res, &StatusError{Status: http.StatusUnprocessableEntity, Message: msg}
	}
	return res, nil
}

// Orders lists orders. The backend answers either with a bare array or
// with {"data": [...]}.
func (c *Client) Orders(ctx context.Context) ([]order.Order, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/commande", nil, &raw); err != nil {
		return nil, err
	}

	var list []order.Order
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Data []order.Order `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decoding orders: %w", err)
	}
	if wrapped.Data == nil {
		return nil, errors.New("decoding orders: no order list in response")
	}
	return wrapped.Data, nil
}

func (c *Client) ValidateOrder(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/commande/"+url.PathEscape(id)+"/validate", nil, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/commande/"+url.PathEscape(id), nil, nil)
}

package order

import (
	"encoding/json"
	"strings"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

type Status string

const (
	Pending   Status = "pending"
	Validated Status = "validated"
	Rejected  Status = "rejected"
)

// ParseStatus maps the backend's status text onto a Status. Anything it
// does not recognise is still awaiting review.
func ParseStatus(s string) Status {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case Validated, Rejected:
		return st
	default:
		return Pending
	}
}

type Location struct {
	Lat     float64 `json:"lat" validate:"latitude"`
	Lng     float64 `json:"lng" validate:"longitude"`
	Address string  `json:"address,omitempty" validate:"max=500"`
}

// OrderNew is the checkout form. The lines come from the visitor's cart.
type OrderNew struct {
	OrderName   string    `json:"orderName" validate:"required,max=200"`
	PhoneNumber string    `json:"phoneNumber" validate:"required,max=32"`
	Location    *Location `json:"location" validate:"omitempty"`
}

type Item struct {
	Marble catalog.ID `json:"marble"`
	Count  int        `json:"count"`
}

// Order is an order ("commande") as the backend stores it.
type Order struct {
	ID          string    `json:"id,omitempty"`
	OrderName   string    `json:"order_name"`
	PhoneNumber string    `json:"number_of_phone"`
	TotalPrice  float64   `json:"totalPrice"`
	Location    *Location `json:"location"`
	Status      Status    `json:"status,omitempty"`
	Items       []Item    `json:"list_marbles"`
}

func (o *Order) UnmarshalJSON(b []byte) error {
	type plain Order
	var raw struct {
		plain
		ID      catalog.ID     `json:"id"`
		MongoID catalog.ID     `json:"_id"`
		Total   catalog.Number `json:"totalPrice"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id.IsZero() {
		id = raw.MongoID
	}

	*o = Order(raw.plain)
	o.ID = id.String()
	o.TotalPrice = float64(raw.Total)
	o.Status = ParseStatus(string(raw.Status))
	return nil
}

// Result is the backend acknowledgement of a submitted order.
type Result struct {
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

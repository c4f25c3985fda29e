package cart

import (
	"math"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

// ProductRef is the product snapshot captured when a line is created.
// Later catalog changes never reach it.
type ProductRef struct {
	ID          catalog.ID     `json:"id"`
	Name        string         `json:"name"`
	Price       catalog.Number `json:"price"`
	ImageURL    string         `json:"imageurl"`
	Description string         `json:"description,omitempty"`
}

func Snapshot(p catalog.Product) ProductRef {
	return ProductRef{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
	}
}

// Line pairs a product snapshot with a quantity of at least one.
type Line struct {
	Product ProductRef `json:"marble"`
	Count   int        `json:"count"`
}

// Cart is a read-only view of the cart lines with derived totals.
type Cart struct {
	Items      []Line  `json:"items"`
	TotalCount int     `json:"totalCount"`
	TotalPrice float64 `json:"totalPrice"`
}

func newCart(lines []Line) Cart {
	items := make([]Line, len(lines))
	copy(items, lines)
	return Cart{
		Items:      items,
		TotalCount: totalCount(lines),
		TotalPrice: totalPrice(lines),
	}
}

func totalCount(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Count
	}
	return n
}

func totalPrice(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += float64(l.Product.Price) * float64(l.Count)
	}
	return sum
}

// normalizeCount floors n and raises it to one.
func normalizeCount(n float64) int {
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(n))
}

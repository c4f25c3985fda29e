package catalog

import (
	"errors"
	"math"
	"strings"
)

const (
	MinStars = 0
	MaxStars = 5
)

// SortKey selects the ordering of a catalog page.
type SortKey string

const (
	SortNone      SortKey = ""
	SortName      SortKey = "name"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey maps a storefront sort parameter to a SortKey. Unknown
// values keep the backend order.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case SortName, SortPriceLow, SortPriceHigh:
		return k
	default:
		return SortNone
	}
}

// ParsePriceBand maps the storefront price presets to inclusive bounds.
func ParsePriceBand(band string) (floor, ceiling float64, ok bool) {
	switch band {
	case "", "all":
		return math.Inf(-1), math.Inf(1), true
	case "under-25":
		return math.Inf(-1), math.Nextafter(25, math.Inf(-1)), true
	case "25-50":
		return 25, 50, true
	case "over-50":
		return math.Nextafter(50, math.Inf(1)), math.Inf(1), true
	default:
		return 0, 0, false
	}
}

var ErrInvalidPageSize = errors.New("page size must be positive")

// QueryInput carries raw filter, sort and paging parameters. Nil bounds
// are unset.
type QueryInput struct {
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	MinStars     *int
	MaxStars     *int
	FavoriteOnly bool
	Tags         []string
	Sort         SortKey
	Page         int
	PageSize     int
}

// Query is a normalized catalog query. Build it with NewQuery.
type Query struct {
	search       string
	minPrice     float64
	maxPrice     float64
	minStars     int
	maxStars     int
	favoriteOnly bool
	tags         map[string]struct{}
	sort         SortKey
	page         int
	pageSize     int
}

// NewQuery validates and normalizes in. Star bounds are clamped to
// [MinStars, MaxStars] independently and the maximum is then raised to
// the minimum. Page numbers below one become one.
func NewQuery(in QueryInput) (Query, error) {
	if in.PageSize <= 0 {
		return Query{}, ErrInvalidPageSize
	}

	q := Query{
		search:       strings.ToLower(strings.TrimSpace(in.Search)),
		minPrice:     math.Inf(-1),
		maxPrice:     math.Inf(1),
		minStars:     MinStars,
		maxStars:     MaxStars,
		favoriteOnly: in.FavoriteOnly,
		sort:         in.Sort,
		page:         in.Page,
		pageSize:     in.PageSize,
	}

	if in.MinPrice != nil && !math.IsNaN(*in.MinPrice) {
		q.minPrice = *in.MinPrice
	}
	if in.MaxPrice != nil && !math.IsNaN(*in.MaxPrice) {
		q.maxPrice = *in.MaxPrice
	}

	if in.MinStars != nil {
		q.minStars = clamp(*in.MinStars, MinStars, MaxStars)
	}
	if in.MaxStars != nil {
		q.maxStars = clamp(*in.MaxStars, MinStars, MaxStars)
	}
	if q.maxStars < q.minStars {
		q.maxStars = q.minStars
	}

	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t == "" {
			continue
		}
		if q.tags == nil {
			q.tags = make(map[string]struct{}, len(in.Tags))
		}
		q.tags[t] = struct{}{}
	}

	if q.page < 1 {
		q.page = 1
	}

	return q, nil
}

func (q Query) PriceRange() (floor, ceiling float64) { return q.minPrice, q.maxPrice }

func (q Query) StarRange() (lo, hi int) { return q.minStars, q.maxStars }

func (q Query) Page() int { return q.page }

func (q Query) PageSize() int { return q.pageSize }

func (q Query) Sort() SortKey { return q.sort }

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

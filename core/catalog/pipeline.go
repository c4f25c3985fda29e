package catalog

import (
	"sort"
	"strings"
)

// Page is one page of catalog results.
type Page struct {
	Items       []Product `json:"pageItems"`
	TotalCount  int       `json:"totalCount"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

// Run filters, sorts and paginates products according to q. The input
// slice is left untouched.
func Run(products []Product, q Query) Page {
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if q.match(p) {
			matched = append(matched, p)
		}
	}

	if less := q.less(matched); less != nil {
		sort.SliceStable(matched, less)
	}

	total := len(matched)
	pages := (total + q.pageSize - 1) / q.pageSize
	if pages < 1 {
		pages = 1
	}

	current := q.page
	if current > pages {
		current = pages
	}

	start := (current - 1) * q.pageSize
	end := start + q.pageSize
	if end > total {
		end = total
	}

	items := make([]Product, end-start)
	copy(items, matched[start:end])

	return Page{
		Items:       items,
		TotalCount:  total,
		TotalPages:  pages,
		CurrentPage: current,
	}
}

func (q Query) match(p Product) bool {
	if q.search != "" &&
		!strings.Contains(strings.ToLower(p.Name), q.search) &&
		!strings.Contains(strings.ToLower(p.Description), q.search) {
		return false
	}

	price := float64(p.Price)
	if price < q.minPrice || price > q.maxPrice {
		return false
	}

	stars := float64(p.Stars)
	if stars < float64(q.minStars) || stars > float64(q.maxStars) {
		return false
	}

	if q.favoriteOnly && !p.Favorite {
		return false
	}

	if len(q.tags) > 0 {
		for _, t := range p.Tags {
			if _, ok := q.tags[t]; ok {
				return true
			}
		}
		return false
	}

	return true
}

func (q Query) less(ps []Product) func(i, j int) bool {
	switch q.sort {
	case SortName:
		return func(i, j int) bool { return ps[i].Name < ps[j].Name }
	case SortPriceLow:
		return func(i, j int) bool { return ps[i].Price < ps[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return ps[i].Price > ps[j].Price }
	default:
		return nil
	}
}

// PageWindow lists the page numbers a paginator shows: the first and
// last page plus delta pages around current. Zero marks a gap.
func PageWindow(current, total, delta int) []int {
	if total < 1 {
		total = 1
	}

	out := []int{1}
	if current-delta > 2 {
		out = append(out, 0)
	}

	lo, hi := current-delta, current+delta
	if lo < 2 {
		lo = 2
	}
	if hi > total-1 {
		hi = total - 1
	}
	for i := lo; i <= hi; i++ {
		out = append(out, i)
	}

	if current+delta < total-1 {
		out = append(out, 0, total)
	} else if total > 1 {
		out = append(out, total)
	}

	return out
}

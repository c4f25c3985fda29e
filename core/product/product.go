package product

import (
	"github.com/irsalhamdi/marble-store/backend"
	"github.com/irsalhamdi/marble-store/core/catalog"
)

type ProductNew struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stars       int      `json:"stars"`
	Favorite    bool     `json:"favorite"`
	ImageURL    string   `json:"imageurl" validate:"omitempty,url"`
	Tags        []string `json:"tags" validate:"dive,required,max=50"`
}

type ProductUp struct {
	Name        *string   `json:"name" validate:"omitempty,max=200"`
	Description *string   `json:"description" validate:"omitempty,max=5000"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Stars       *int      `json:"stars"`
	Favorite    *bool     `json:"favorite"`
	ImageURL    *string   `json:"imageurl" validate:"omitempty,url"`
	Tags        *[]string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// Image is the hosted location of an uploaded product image.
type Image struct {
	URL string `json:"url"`
}

func (pn ProductNew) write() backend.MarbleWrite {
	return backend.MarbleWrite{
		Name:         pn.Name,
		Price:        pn.Price,
		Favorite:     pn.Favorite,
		Stars:        clampStars(pn.Stars),
		ImageURL:     pn.ImageURL,
		Description:  pn.Description,
		Descriptions: pn.Description,
		Tags:         pn.Tags,
	}
}

// apply merges up over the current record of a product.
func (up ProductUp) apply(p catalog.Product) backend.MarbleWrite {
	mw := backend.MarbleWrite{
		Name:        p.Name,
		Price:       float64(p.Price),
		Favorite:    p.Favorite,
		Stars:       int(p.Stars),
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Tags:        p.Tags,
	}

	if up.Name != nil {
		mw.Name = *up.Name
	}
	if up.Description != nil {
		mw.Description = *up.Description
	}
	if up.Price != nil {
		mw.Price = *up.Price
	}
	if up.Stars != nil {
		mw.Stars = *up.Stars
	}
	if up.Favorite != nil {
		mw.Favorite = *up.Favorite
	}
	if up.ImageURL != nil {
		mw.ImageURL = *up.ImageURL
	}
	if up.Tags != nil {
		mw.Tags = *up.Tags
	}

	mw.Stars = clampStars(mw.Stars)
	mw.Descriptions = mw.Description
	return mw
}

func clampStars(n int) int {
	if n < catalog.MinStars {
		return catalog.MinStars
	}
	if n > catalog.MaxStars {
		return catalog.MaxStars
	}
	return n
}

package product

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/backend"
	"github.com/irsalhamdi/marble-store/core/catalog"
	"github.com/irsalhamdi/marble-store/validate"
)

// Reader is the read side of the product catalog.
type Reader interface {
	Marbles(ctx context.Context) ([]catalog.Product, error)
	Marble(ctx context.Context, id string) (catalog.Product, error)
	Tags(ctx context.Context) ([]string, error)
}

// Writer is the admin side of the product catalog.
type Writer interface {
	Marble(ctx context.Context, id string) (catalog.Product, error)
	CreateMarble(ctx context.Context, m backend.MarbleWrite) (catalog.Product, error)
	UpdateMarble(ctx context.Context, id string, m backend.MarbleWrite) (catalog.Product, error)
	DeleteMarble(ctx context.Context, id string) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ListConfig bounds the page sizes a client can ask for.
type ListConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

// pageWindowDelta is the number of page links on each side of the
// current page.
const pageWindowDelta = 2

// List is one page of the catalog with the pagination bar.
type List struct {
	catalog.Page
	Pages []int `json:"pages"`
}

// maxImageSize caps the multipart body of an image upload.
const maxImageSize = 10 << 20

func HandleList(rd Reader, cfg ListConfig) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		in, err := parseQuery(r.URL.Query(), cfg)
		if err != nil {
			return weberr.BadRequest(err)
		}

		q, err := catalog.NewQuery(in)
		if err != nil {
			return weberr.BadRequest(err)
		}

		ps, err := rd.Marbles(ctx)
		if err != nil {
			return fmt.Errorf("fetching products: %w", err)
		}

		pg := catalog.Run(ps, q)
		list := List{
			Page:  pg,
			Pages: catalog.PageWindow(pg.CurrentPage, pg.TotalPages, pageWindowDelta),
		}

		return web.Respond(ctx, w, list, http.StatusOK)
	}
}

func HandleShow(rd Reader) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		p, err := rd.Marble(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

func HandleTags(rd Reader) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		tags, err := rd.Tags(ctx)
		if err != nil {
			return fmt.Errorf("fetching tags: %w", err)
		}

		return web.Respond(ctx, w, tags, http.StatusOK)
	}
}

func HandleCreate(wr Writer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var pn ProductNew
		if err := web.Decode(w, r, &pn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(pn); err != nil {
			return weberr.BadRequest(err)
		}

		p, err := wr.CreateMarble(ctx, pn.write())
		if err != nil {
			return fmt.Errorf("creating product: %w", err)
		}

		return web.Respond(ctx, w, p, http.StatusCreated)
	}
}

func HandleUpdate(wr Writer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var up ProductUp
		if err := web.Decode(w, r, &up); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(up); err != nil {
			return weberr.BadRequest(err)
		}

		id := web.Param(r, "id")
		p, err := wr.Marble(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching product[%s]: %w", id, err)
		}

		p, err = wr.UpdateMarble(ctx, id, up.apply(p))
		if err != nil {
			return fmt.Errorf("updating product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, p, http.StatusOK)
	}
}

// HandleDelete removes a product. Deleting a product the backend no
// longer knows succeeds.
func HandleDelete(wr Writer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if err := wr.DeleteMarble(ctx, id); err != nil && !backend.IsNotFound(err) {
			return fmt.Errorf("deleting product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

func HandleUploadImage(wr Writer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)

		f, fh, err := r.FormFile("image")
		if err != nil {
			return weberr.BadRequest(fmt.Errorf("reading image form file: %w", err))
		}
		defer f.Close()

		u, err := wr.UploadImage(ctx, fh.Filename, f)
		if err != nil {
			return fmt.Errorf("uploading image %q: %w", fh.Filename, err)
		}

		return web.Respond(ctx, w, Image{URL: u}, http.StatusCreated)
	}
}

// parseQuery reads the catalog query parameters. Explicit price bounds
// take precedence over the band preset.
func parseQuery(v url.Values, cfg ListConfig) (catalog.QueryInput, error) {
	in := catalog.QueryInput{
		Search:   v.Get("search"),
		Sort:     catalog.ParseSortKey(v.Get("sort")),
		Page:     1,
		PageSize: cfg.DefaultPageSize,
	}

	var err error

	if band := v.Get("band"); band != "" {
		floor, ceiling, ok := catalog.ParsePriceBand(band)
		if !ok {
			return in, fmt.Errorf("unknown price band %q", band)
		}
		if !math.IsInf(floor, 0) {
			in.MinPrice = &floor
		}
		if !math.IsInf(ceiling, 0) {
			in.MaxPrice = &ceiling
		}
	}

	if in.MinPrice, err = floatParam(v, "minPrice", in.MinPrice); err != nil {
		return in, err
	}
	if in.MaxPrice, err = floatParam(v, "maxPrice", in.MaxPrice); err != nil {
		return in, err
	}
	if in.MinStars, err = intParam(v, "minStars"); err != nil {
		return in, err
	}
	if in.MaxStars, err = intParam(v, "maxStars"); err != nil {
		return in, err
	}

	if s := v.Get("favorite"); s != "" {
		if in.FavoriteOnly, err = strconv.ParseBool(s); err != nil {
			return in, fmt.Errorf("favorite must be a boolean: %w", err)
		}
	}

	for _, t := range v["tags"] {
		for _, tag := range strings.Split(t, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				in.Tags = append(in.Tags, tag)
			}
		}
	}

	if p, err := intParam(v, "page"); err != nil {
		return in, err
	} else if p != nil {
		in.Page = *p
	}

	if ps, err := intParam(v, "pageSize"); err != nil {
		return in, err
	} else if ps != nil {
		in.PageSize = *ps
	}
	if cfg.MaxPageSize > 0 && in.PageSize > cfg.MaxPageSize {
		in.PageSize = cfg.MaxPageSize
	}

	return in, nil
}

func floatParam(v url.Values, key string, def *float64) (*float64, error) {
	s := v.Get(key)
	if s == "" {
		return def, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func intParam(v url.Values, key string) (*int, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

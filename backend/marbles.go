package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

// MarbleWrite is the body of a product create or update.
type MarbleWrite struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Favorite     bool     `json:"favorite"`
	Stars        int      `json:"stars"`
	ImageURL     string   `json:"imageurl"`
	Description  string   `json:"description"`
	Descriptions string   `json:"descriptions"`
	Tags         []string `json:"tags,omitempty"`
}

func (c *Client) Marbles(ctx context.Context) ([]catalog.Product, error) {
	var ps []catalog.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/marble", nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

func (c *Client) Marble(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/marble/"+url.PathEscape(id), nil, &p); err != nil {
		return catalog.Product{}, err
	}
	if p.ID.IsZero() {
		p.ID = catalog.StringID(id)
	}
	return p, nil
}

func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var raw []interface{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/marble/tags", nil, &raw); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(raw))
	for _, t := range raw {
		if t == nil {
			continue
		}
		tags = append(tags, fmt.Sprint(t))
	}
	return tags, nil
}

func (c *Client) CreateMarble(ctx context.Context, m MarbleWrite) (catalog.Product, error) {
	var p catalog.Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/marble/create", m, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (c *Client) UpdateMarble(ctx context.Context, id string, m MarbleWrite) (catalog.Product, error) {
	var p catalog.Product
	if err := c.doJSON(ctx, http.MethodPut, "/api/marble/"+url.PathEscape(id), m, &p); err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (c *Client) DeleteMarble(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/marble/"+url.PathEscape(id), nil, nil)
}

// UploadImage stores an image with the backend's media host and returns
// its public URL.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("copying image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	var res struct {
		Data struct {
			SecureURL string `json:"secure_url"`
		} `json:"data"`
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/marble/upload", mw.FormDataContentType(), &buf, &res); err != nil {
		return "", err
	}

	switch {
	case res.Data.SecureURL != "":
		return res.Data.SecureURL, nil
	case res.SecureURL != "":
		return res.SecureURL, nil
	case res.URL != "":
		return res.URL, nil
	}
	return "", ErrNoImageURL
}

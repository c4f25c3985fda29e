package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/irsalhamdi/marble-store/core/comment"
)

func (c *Client) Comments(ctx context.Context, marbleID string) ([]comment.Comment, error) {
	var cs []comment.Comment
	if err := c.doJSON(ctx, http.MethodGet, "/api/comments/marble/"+url.PathEscape(marbleID), nil, &cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func (c *Client) AddComment(ctx context.Context, nc comment.Create) (comment.Comment, error) {
	var cm comment.Comment
	if err := c.doJSON(ctx, http.MethodPost, "/api/comments/add", nc, &cm); err != nil {
		return comment.Comment{}, err
	}
	return cm, nil
}

func (c *Client) UpdateComment(ctx context.Context, id string, text string) (comment.Comment, error) {
	body := struct {
		Text string `json:"text"`
	}{text}

	var cm comment.Comment
	if err := c.doJSON(ctx, http.MethodPatch, "/api/comments/"+url.PathEscape(id), body, &cm); err != nil {
		return comment.Comment{}, err
	}
	return cm, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(id), nil, nil)
}

package comment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/core/claims"
	"github.com/irsalhamdi/marble-store/validate"
)

// Store is the backend holding product comments.
type Store interface {
	Comments(ctx context.Context, marbleID string) ([]Comment, error)
	AddComment(ctx context.Context, nc Create) (Comment, error)
	UpdateComment(ctx context.Context, id string, text string) (Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

func HandleList(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		cs, err := st.Comments(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching comments of product[%s]: %w", id, err)
		}
		if cs == nil {
			cs = []Comment{}
		}

		return web.Respond(ctx, w, cs, http.StatusOK)
	}
}

func HandleRating(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		cs, err := st.Comments(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching comments of product[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, Summarize(cs), http.StatusOK)
	}
}

func HandleCreate(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		var cn CommentNew
		if err := web.Decode(w, r, &cn); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cn); err != nil {
			return weberr.BadRequest(err)
		}

		nc := Create{
			UserID:   clm.UserID,
			UserName: clm.Name,
			Text:     cn.Text,
			MarbleID: web.Param(r, "id"),
			Rating:   cn.Rating,
		}

		c, err := st.AddComment(ctx, nc)
		if err != nil {
			return fmt.Errorf("adding comment to product[%s]: %w", nc.MarbleID, err)
		}

		return web.Respond(ctx, w, c, http.StatusCreated)
	}
}

func HandleUpdate(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var cu CommentUp
		if err := web.Decode(w, r, &cu); err != nil {
			return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
		}

		if err := validate.Check(cu); err != nil {
			return weberr.BadRequest(err)
		}

		id := web.Param(r, "id")
		c, err := st.UpdateComment(ctx, id, cu.Text)
		if err != nil {
			return fmt.Errorf("updating comment[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, c, http.StatusOK)
	}
}

func HandleDelete(st Store) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		id := web.Param(r, "id")

		if err := st.DeleteComment(ctx, id); err != nil {
			return fmt.Errorf("deleting comment[%s]: %w", id, err)
		}

		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}

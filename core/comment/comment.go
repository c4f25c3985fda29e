package comment

import (
	"encoding/json"
	"time"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

type Comment struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	UserName  string     `json:"userName"`
	Text      string     `json:"text"`
	MarbleID  string     `json:"marbleId"`
	Rating    float64    `json:"rating"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (c *Comment) UnmarshalJSON(b []byte) error {
	type plain Comment
	var raw struct {
		plain
		ID      catalog.ID     `json:"id"`
		MongoID catalog.ID     `json:"_id"`
		Rating  catalog.Number `json:"rating"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id.IsZero() {
		id = raw.MongoID
	}

	*c = Comment(raw.plain)
	c.ID = id.String()
	c.Rating = float64(raw.Rating)
	return nil
}

// CommentNew is the body a visitor posts. The author is taken from the
// session.
type CommentNew struct {
	Text   string `json:"text" validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

// Create is the backend payload for a new comment.
type Create struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Text     string `json:"text"`
	MarbleID string `json:"marbleId"`
	Rating   int    `json:"rating"`
}

type CommentUp struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// Rating summarizes the comments of one product.
type Rating struct {
	Average float64 `json:"avg"`
	Count   int     `json:"count"`
}

func Summarize(cs []Comment) Rating {
	if len(cs) == 0 {
		return Rating{}
	}

	var sum float64
	for _, c := range cs {
		sum += c.Rating
	}
	return Rating{Average: sum / float64(len(cs)), Count: len(cs)}
}

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque product identifier. The backend emits it either as a
// JSON string or a JSON number and the original form is kept on output,
// so "1" and 1 are different identifiers.
type ID struct {
	v   string
	num bool
}

func StringID(s string) ID { return ID{v: s} }

func NumberID(n int64) ID { return ID{v: strconv.FormatInt(n, 10), num: true} }

func (id ID) String() string { return id.v }

func (id ID) IsZero() bool { return id.v == "" }

func (id ID) Equal(o ID) bool { return id == o }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.num {
		return []byte(id.v), nil
	}
	return json.Marshal(id.v)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ID{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID{v: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id must be a string or a number: %w", err)
	}
	*id = ID{v: n.String(), num: true}
	return nil
}

// Number decodes a JSON number or a numeric string. Anything else,
// including null and unparsable strings, decodes as zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f = 0
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// Product is a catalog record as served by the marble backend.
type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       Number   `json:"price"`
	Stars       Number   `json:"stars"`
	Favorite    bool     `json:"favorite"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"imageurl"`
}

// UnmarshalJSON accepts the backend's "_id" primary key and the legacy
// "descriptions" field next to the canonical names.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var raw struct {
		plain
		MongoID      ID     `json:"_id"`
		Descriptions string `json:"descriptions"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	if raw.ID.IsZero() {
		raw.ID = raw.MongoID
	}
	if raw.Description == "" {
		raw.Description = raw.Descriptions
	}

	*p = Product(raw.plain)
	return nil
}

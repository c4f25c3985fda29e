package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/irsalhamdi/marble-store/core/catalog"
)

// Shape identifies a persisted cart layout.
type Shape int

const (
	// ShapeLegacy is {"cartItems":[{"marbel":{...},"count":n}],...}. It is
	// the layout written by Encode.
	ShapeLegacy Shape = iota + 1

	// ShapeCurrent is {"items":[{"marble":{...},"count":n}],...}.
	ShapeCurrent
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeCurrent:
		return "current"
	default:
		return "unknown"
	}
}

var ErrUnknownShape = errors.New("unknown cart shape")

type legacyBlob struct {
	CartItems  []legacyLine `json:"cartItems"`
	TotalPrice float64      `json:"totalPrice"`
	TotalCount int          `json:"totalCount"`
}

type legacyLine struct {
	Marbel *ProductRef     `json:"marbel,omitempty"`
	Marble *ProductRef     `json:"marble,omitempty"`
	Count  *catalog.Number `json:"count,omitempty"`
}

type currentBlob struct {
	Items      []currentLine `json:"items"`
	TotalPrice float64       `json:"totalPrice"`
	TotalCount int           `json:"totalCount"`
}

type currentLine struct {
	Marble *ProductRef     `json:"marble"`
	Count  *catalog.Number `json:"count"`
}

// Decode parses a persisted cart in either known shape. Lines without a
// product are dropped, counts are floored and raised to one, and lines
// sharing a product id are merged. Persisted totals are ignored.
func Decode(data []byte) ([]Line, Shape, error) {
	var probe struct {
		CartItems json.RawMessage `json:"cartItems"`
		Items     json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, 0, fmt.Errorf("decoding cart: %w", err)
	}

	switch {
	case isArray(probe.CartItems):
		var b legacyBlob
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, 0, fmt.Errorf("decoding %s cart: %w", ShapeLegacy, err)
		}
		lines := make([]Line, 0, len(b.CartItems))
		for _, l := range b.CartItems {
			ref := l.Marbel
			if ref == nil {
				ref = l.Marble
			}
			lines = appendLine(lines, ref, l.Count)
		}
		return lines, ShapeLegacy, nil

	case isArray(probe.Items):
		var b currentBlob
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, 0, fmt.Errorf("decoding %s cart: %w", ShapeCurrent, err)
		}
		lines := make([]Line, 0, len(b.Items))
		for _, l := range b.Items {
			lines = appendLine(lines, l.Marble, l.Count)
		}
		return lines, ShapeCurrent, nil
	}

	return nil, 0, ErrUnknownShape
}

func appendLine(lines []Line, ref *ProductRef, count *catalog.Number) []Line {
	if ref == nil {
		return lines
	}

	n := 1
	if count != nil {
		n = normalizeCount(float64(*count))
	}

	for i := range lines {
		if lines[i].Product.ID == ref.ID {
			lines[i].Count += n
			return lines
		}
	}
	return append(lines, Line{Product: *ref, Count: n})
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

// Encode serializes lines in the legacy shape, the one every client
// version can read.
func Encode(lines []Line) ([]byte, error) {
	return EncodeShape(lines, ShapeLegacy)
}

// EncodeShape serializes lines in the given shape with their totals.
func EncodeShape(lines []Line, shape Shape) ([]byte, error) {
	price, count := totalPrice(lines), totalCount(lines)

	switch shape {
	case ShapeLegacy:
		b := legacyBlob{CartItems: make([]legacyLine, 0, len(lines)), TotalPrice: price, TotalCount: count}
		for i := range lines {
			c := catalog.Number(lines[i].Count)
			b.CartItems = append(b.CartItems, legacyLine{Marbel: &lines[i].Product, Count: &c})
		}
		return json.Marshal(b)

	case ShapeCurrent:
		b := currentBlob{Items: make([]currentLine, 0, len(lines)), TotalPrice: price, TotalCount: count}
		for i := range lines {
			c := catalog.Number(lines[i].Count)
			b.Items = append(b.Items, currentLine{Marble: &lines[i].Product, Count: &c})
		}
		return json.Marshal(b)
	}

	return nil, ErrUnknownShape
}

package pagination

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrShape is returned when the first response of a source is neither a
// list nor a record with data and total or data and cursor.
var ErrShape = errors.New("fetch function must return a list or an object with data and total or data and cursor")

// Shape names the variant of a Page.
type Shape string

const (
	ShapePlain    Shape = "plain"
	ShapeCounted  Shape = "counted"
	ShapeCursored Shape = "cursored"
	ShapeInvalid  Shape = "invalid"
)

// Strategy returns the name of the strategy that consumes pages of this shape.
func (s Shape) Strategy() string {
	switch s {
	case ShapePlain:
		return "serial"
	case ShapeCounted:
		return "concurrent"
	case ShapeCursored:
		return "cursor"
	case ShapeInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Classify reports the shape of p. It fails with ErrShape for a nil page or
// a page type this package does not know.
func Classify[T any](p Page[T]) (Shape, error) {
	_, shape, err := classify(p)
	return shape, err
}

// classify also normalizes pointer variants to values.
func classify[T any](p Page[T]) (Page[T], Shape, error) {
	switch v := p.(type) {
	case Plain[T]:
		return v, ShapePlain, nil
	case *Plain[T]:
		if v != nil {
			return *v, ShapePlain, nil
		}
	case Counted[T]:
		return v, ShapeCounted, nil
	case *Counted[T]:
		if v != nil {
			return *v, ShapeCounted, nil
		}
	case Cursored[T]:
		return v, ShapeCursored, nil
	case *Cursored[T]:
		if v != nil {
			return *v, ShapeCursored, nil
		}
	}
	return nil, ShapeInvalid, ErrShape
}

// batchOf returns the items of p, tolerating a nil page on calls after the
// first one.
func batchOf[T any](p Page[T]) []T {
	if p == nil {
		return nil
	}
	switch v := p.(type) {
	case *Plain[T]:
		if v == nil {
			return nil
		}
	case *Counted[T]:
		if v == nil {
			return nil
		}
	case *Cursored[T]:
		if v == nil {
			return nil
		}
	}
	return p.Batch()
}

// cursorOf returns the continuation token of p, or NoCursor when p does not
// carry one.
func cursorOf[T any](p Page[T]) Cursor {
	switch v := p.(type) {
	case Cursored[T]:
		return v.Cursor
	case *Cursored[T]:
		if v != nil {
			return v.Cursor
		}
	}
	return NoCursor
}

// DecodePage decodes a JSON response body into a Page.
//
// A JSON array becomes Plain. An object with both "data" and "total" becomes
// Counted; an object with both "data" and "cursor" becomes Cursored. The
// array check runs first and "total" wins over "cursor". Anything else fails
// with ErrShape.
func DecodePage[T any](body []byte) (Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrShape
	}

	switch body[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode list page: %w", err)
		}
		return Plain[T](items), nil

	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}

		_, hasData := fields["data"]
		_, hasTotal := fields["total"]
		_, hasCursor := fields["cursor"]

		switch {
		case hasData && hasTotal:
			var page Counted[T]
			if err := json.Unmarshal(body, &page); err != nil {
				return nil, fmt.Errorf("decode counted page: %w", err)
			}
			return page, nil
		case hasData && hasCursor:
			var page Cursored[T]
			if err := json.Unmarshal(body, &page); err != nil {
				return nil, fmt.Errorf("decode cursored page: %w", err)
			}
			return page, nil
		}
	}

	return nil, ErrShape
}

package pagination

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Page is the value a fetch function returns for one call.
// It is one of Plain, Counted or Cursored.
type Page[T any] interface {
	// Batch returns the items carried by this page.
	Batch() []T

	page()
}

// Plain is a page that carries only items.
type Plain[T any] []T

// Counted is a page that also reports the size of the whole result set.
type Counted[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Cursored is a page that also carries the token for the next call.
type Cursored[T any] struct {
	Data   []T    `json:"data"`
	Cursor Cursor `json:"cursor"`
}

func (p Plain[T]) Batch() []T    { return p }
func (p Counted[T]) Batch() []T  { return p.Data }
func (p Cursored[T]) Batch() []T { return p.Data }

func (Plain[T]) page()    {}
func (Counted[T]) page()  {}
func (Cursored[T]) page() {}

type cursorKind uint8

const (
	cursorNone cursorKind = iota
	cursorString
	cursorNumber
)

// Cursor is an opaque continuation token: absent, a string or a number.
type Cursor struct {
	kind cursorKind
	text string
}

// NoCursor is the absent cursor. It is what the first call of a cursor
// chain receives and what ends one.
var NoCursor = Cursor{}

// StringCursor returns a string token.
func StringCursor(s string) Cursor {
	return Cursor{kind: cursorString, text: s}
}

// IntCursor returns a numeric token.
func IntCursor(n int64) Cursor {
	return Cursor{kind: cursorNumber, text: strconv.FormatInt(n, 10)}
}

// Actionable reports whether the cursor can be passed to another call:
// any number, or a non-empty string.
func (c Cursor) Actionable() bool {
	switch c.kind {
	case cursorNumber:
		return true
	case cursorString:
		return c.text != ""
	default:
		return false
	}
}

// IsNumber reports whether the cursor was given as a number.
func (c Cursor) IsNumber() bool {
	return c.kind == cursorNumber
}

// Int64 returns the numeric value of a number cursor.
func (c Cursor) Int64() (int64, error) {
	if c.kind != cursorNumber {
		return 0, fmt.Errorf("cursor %q is not a number", c.text)
	}
	return strconv.ParseInt(c.text, 10, 64)
}

// String returns the token as it would be sent back to the source.
// The absent cursor renders as the empty string.
func (c Cursor) String() string {
	return c.text
}

// MarshalJSON implements json.Marshaler.
func (c Cursor) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case cursorNumber:
		return []byte(c.text), nil
	case cursorString:
		return json.Marshal(c.text)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. It accepts null, a string or
// a number.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = NoCursor
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("cursor: %w", err)
		}
		*c = StringCursor(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("cursor must be a string, a number or null: %w", err)
		}
		*c = Cursor{kind: cursorNumber, text: n.String()}
	}
	return nil
}

// Request describes one call to a fetch function.
type Request struct {
	// Page is the 1-based position of the call. Cursor chains count it up too.
	Page int

	// Limit is the requested page size; 0 when none was configured.
	Limit int

	// Cursor is the token returned by the previous call of a cursor chain.
	// It is NoCursor on every page-number call.
	Cursor Cursor
}

// Fetcher is a paginated data source.
type Fetcher[T any] func(ctx context.Context, req Request) (Page[T], error)

// PageFunc fetches by page number only.
type PageFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// PageLimitFunc fetches by page number and page size.
type PageLimitFunc[T any] func(ctx context.Context, page, limit int) (Page[T], error)

// CursorFunc fetches by continuation token.
type CursorFunc[T any] func(ctx context.Context, cursor Cursor) (Page[T], error)

// ByPage adapts a PageFunc.
func ByPage[T any](fn PageFunc[T]) Fetcher[T] {
	return func(ctx context.Context, req Request) (Page[T], error) {
		return fn(ctx, req.Page)
	}
}

// ByPageLimit adapts a PageLimitFunc. limit is used when the request does
// not carry one.
func ByPageLimit[T any](fn PageLimitFunc[T], limit int) Fetcher[T] {
	return func(ctx context.Context, req Request) (Page[T], error) {
		if req.Limit > 0 {
			return fn(ctx, req.Page, req.Limit)
		}
		return fn(ctx, req.Page, limit)
	}
}

// ByCursor adapts a CursorFunc.
func ByCursor[T any](fn CursorFunc[T]) Fetcher[T] {
	return func(ctx context.Context, req Request) (Page[T], error) {
		return fn(ctx, req.Cursor)
	}
}

package pagination_test

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Sternrassler/unpaginated/pkg/pagination"
	"github.com/rs/zerolog"
)

var letters = []string{"a", "b", "c", "d", "e", "f", "g"}

func window(page, limit int) []string {
	start := (page - 1) * limit
	if start >= len(letters) {
		return []string{}
	}
	end := start + limit
	if end > len(letters) {
		end = len(letters)
	}
	return letters[start:end]
}

func ExampleAll_plain() {
	fetch := pagination.ByPage[string](func(ctx context.Context, page int) (pagination.Page[string], error) {
		return pagination.Plain[string](window(page, 3)), nil
	})

	items, err := pagination.All(context.Background(), fetch, pagination.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(items)
	// Output: [a b c d e f g]
}

func ExampleAll_counted() {
	fetch := pagination.ByPageLimit[string](func(ctx context.Context, page, limit int) (pagination.Page[string], error) {
		return pagination.Counted[string]{Data: window(page, limit), Total: len(letters)}, nil
	}, 2)

	items, err := pagination.All(context.Background(), fetch,
		pagination.WithMaxConcurrency(2), pagination.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(items)
	// Output: [a b c d e f g]
}

func ExampleAll_cursor() {
	fetch := pagination.ByCursor[string](func(ctx context.Context, cursor pagination.Cursor) (pagination.Page[string], error) {
		offset := 0
		if cursor.Actionable() {
			offset, _ = strconv.Atoi(cursor.String())
		}
		data := window(offset/3+1, 3)

		next := pagination.NoCursor
		if offset+3 < len(letters) {
			next = pagination.IntCursor(int64(offset + 3))
		}
		return pagination.Cursored[string]{Data: data, Cursor: next}, nil
	})

	items, err := pagination.All(context.Background(), fetch, pagination.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(items)
	// Output: [a b c d e f g]
}

func ExampleDecodePage() {
	for _, body := range []string{
		`[1, 2]`,
		`{"data": [1, 2], "total": 10}`,
		`{"data": [1, 2], "cursor": "next"}`,
		`123`,
	} {
		p, err := pagination.DecodePage[int]([]byte(body))
		if err != nil {
			fmt.Println(err)
			continue
		}
		shape, _ := pagination.Classify(p)
		fmt.Println(shape, p.Batch())
	}
	// Output:
	// plain [1 2]
	// counted [1 2]
	// cursored [1 2]
	// fetch function must return a list or an object with data and total or data and cursor
}

func ExampleFetchAll() {
	list := func(ctx context.Context, page, limit int) ([]string, error) {
		return window(page, limit), nil
	}

	items, err := pagination.FetchAll[string](context.Background(), list, 2, pagination.Total(len(letters)),
		pagination.WithLogger(zerolog.Nop()))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(items, pagination.TotalPages(len(letters), 2))
	// Output: [a b c d e f g] 4
}

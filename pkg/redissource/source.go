// Package redissource provides fetch functions that page through Redis data.
//
// List and ListPlain page through a Redis list with LRANGE; List also
// reports LLEN so the engine can fetch the remaining pages concurrently.
// Scan follows the SCAN cursor over the keyspace.
//
// Usage:
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	events, err := pagination.All(ctx, redissource.List(rdb, "events", redissource.DecodeJSON[Event]),
//		pagination.WithLimit(500))
package redissource

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Sternrassler/unpaginated/pkg/logging"
	"github.com/Sternrassler/unpaginated/pkg/pagination"
	"github.com/redis/go-redis/v9"
)

// DefaultLimit is the page size used when the request carries none.
const DefaultLimit = pagination.DefaultLimit

// Decoder turns one list element into an item.
type Decoder[T any] func(string) (T, error)

// DecodeJSON decodes a JSON encoded list element.
func DecodeJSON[T any](s string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return v, fmt.Errorf("decode element: %w", err)
	}
	return v, nil
}

// String returns the list element unchanged.
func String(s string) (string, error) {
	return s, nil
}

// List returns a fetch function that pages through the list at key. Every
// page reports the list length, so the engine fetches the remaining pages
// concurrently. LRANGE and LLEN run in one MULTI block.
func List[T any](rdb redis.Cmdable, key string, decode Decoder[T]) pagination.Fetcher[T] {
	if rdb == nil {
		panic("redis client cannot be nil")
	}

	return func(ctx context.Context, req pagination.Request) (pagination.Page[T], error) {
		start, stop := bounds(req)

		var (
			lrange *redis.StringSliceCmd
			llen   *redis.IntCmd
		)
		_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			lrange = pipe.LRange(ctx, key, start, stop)
			llen = pipe.LLen(ctx, key)
			return nil
		})
		commandsTotal.WithLabelValues("lrange").Inc()
		commandsTotal.WithLabelValues("llen").Inc()
		if err != nil {
			command := failedCommand(lrange, llen)
			errorsTotal.WithLabelValues(command).Inc()
			return nil, fmt.Errorf("redis %s: %w", command, err)
		}

		data, err := decodeAll(lrange.Val(), decode)
		if err != nil {
			return nil, err
		}

		return pagination.Counted[T]{Data: data, Total: int(llen.Val())}, nil
	}
}

// ListPlain returns a fetch function that pages through the list at key
// without reporting its length. The engine reads it page by page until a
// short page.
func ListPlain[T any](rdb redis.Cmdable, key string, decode Decoder[T]) pagination.Fetcher[T] {
	if rdb == nil {
		panic("redis client cannot be nil")
	}

	return func(ctx context.Context, req pagination.Request) (pagination.Page[T], error) {
		start, stop := bounds(req)

		values, err := rdb.LRange(ctx, key, start, stop).Result()
		commandsTotal.WithLabelValues("lrange").Inc()
		if err != nil {
			errorsTotal.WithLabelValues("lrange").Inc()
			return nil, fmt.Errorf("redis lrange: %w", err)
		}

		data, err := decodeAll(values, decode)
		if err != nil {
			return nil, err
		}

		return pagination.Plain[T](data), nil
	}
}

// Scan returns a fetch function that follows SCAN over the keys matching
// match. count is the COUNT hint when the request carries no limit.
//
// SCAN may answer with no keys and a live cursor; such replies are skipped
// so that every page handed to the engine is either non-empty or final.
// The terminal cursor 0 is reported as pagination.NoCursor.
func Scan(rdb redis.Cmdable, match string, count int64) pagination.Fetcher[string] {
	if rdb == nil {
		panic("redis client cannot be nil")
	}

	logger := logging.NewLogger("redissource")

	return func(ctx context.Context, req pagination.Request) (pagination.Page[string], error) {
		cursor, err := scanCursor(req.Cursor)
		if err != nil {
			return nil, err
		}

		hint := count
		if req.Limit > 0 {
			hint = int64(req.Limit)
		}

		for {
			keys, next, err := rdb.Scan(ctx, cursor, match, hint).Result()
			commandsTotal.WithLabelValues("scan").Inc()
			if err != nil {
				errorsTotal.WithLabelValues("scan").Inc()
				return nil, fmt.Errorf("redis scan: %w", err)
			}

			if len(keys) > 0 || next == 0 {
				return pagination.Cursored[string]{Data: keys, Cursor: nextCursor(next)}, nil
			}

			logger.Debug().
				Uint64("cursor", next).
				Str("match", match).
				Msg("Empty scan reply, continuing")

			if err := ctx.Err(); err != nil {
				return nil, err
			}
			cursor = next
		}
	}
}

// failedCommand names the command of a failed MULTI block: the first
// queued command carrying an error, or "multi" when only EXEC failed.
func failedCommand(cmds ...redis.Cmder) string {
	for _, cmd := range cmds {
		if cmd.Err() != nil {
			return cmd.Name()
		}
	}
	return "multi"
}

// bounds returns the inclusive LRANGE range of req's page.
func bounds(req pagination.Request) (start, stop int64) {
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	start = int64(pagination.Offset(req.Page, limit, true))
	return start, start + int64(limit) - 1
}

// scanCursor converts the engine cursor to a SCAN cursor.
func scanCursor(c pagination.Cursor) (uint64, error) {
	if !c.Actionable() {
		return 0, nil
	}
	n, err := strconv.ParseUint(c.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid scan cursor %q: %w", c.String(), err)
	}
	return n, nil
}

func nextCursor(next uint64) pagination.Cursor {
	if next == 0 {
		return pagination.NoCursor
	}
	return pagination.StringCursor(strconv.FormatUint(next, 10))
}

func decodeAll[T any](values []string, decode Decoder[T]) ([]T, error) {
	data := make([]T, 0, len(values))
	for _, s := range values {
		v, err := decode(s)
		if err != nil {
			return nil, err
		}
		data = append(data, v)
	}
	return data, nil
}

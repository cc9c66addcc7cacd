package pagination

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPageIndex(t *testing.T) {
	tests := []struct {
		page      int
		zeroIndex bool
		want      int
	}{
		{1, false, 1},
		{2, false, 2},
		{1, true, 0},
		{2, true, 1},
	}

	for _, tt := range tests {
		if got := PageIndex(tt.page, tt.zeroIndex); got != tt.want {
			t.Errorf("PageIndex(%d, %v) = %d, want %d", tt.page, tt.zeroIndex, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		page, limit int
		zeroIndex   bool
		want        int
	}{
		{1, 100, true, 0},
		{2, 100, true, 100},
		{1, 100, false, 1},
		{2, 100, false, 101},
	}

	for _, tt := range tests {
		if got := Offset(tt.page, tt.limit, tt.zeroIndex); got != tt.want {
			t.Errorf("Offset(%d, %d, %v) = %d, want %d", tt.page, tt.limit, tt.zeroIndex, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{12, 1, 12},
		{12, 2, 6},
		{13, 2, 7},
		{100, 20, 5},
		{100, 21, 5},
		{0, 20, 0},
		{10, 0, 0},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func listSource(calls *atomic.Int64) ListFunc[post] {
	return func(ctx context.Context, page, limit int) ([]post, error) {
		calls.Add(1)
		return slicePage(allPosts, limit, page), nil
	}
}

func TestFetchAll(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		total     TotalFunc
		wantCalls int64
	}{
		{name: "limit and total", limit: 20, total: Total(100), wantCalls: 5},
		{name: "total from function", limit: 20, total: func(context.Context) (int, error) { return 100, nil }, wantCalls: 5},
		{name: "extra page for leftovers", limit: 19, total: Total(100), wantCalls: 6},
		{name: "no total walks pages", limit: 20, wantCalls: 6},
		{name: "default limit", limit: 0, wantCalls: 2},
		{name: "zero total", limit: 20, total: Total(0), wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int64
			got, err := FetchAll(context.Background(), listSource(&calls), tt.limit, tt.total, quiet())
			if err != nil {
				t.Fatalf("FetchAll() error = %v", err)
			}
			if tt.wantCalls == 0 {
				if len(got) != 0 {
					t.Errorf("FetchAll() = %d items, want 0", len(got))
				}
			} else {
				assertPosts(t, got, allPosts)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("fetch called %d times, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestFetchAll_Errors(t *testing.T) {
	boom := errors.New("BOOM")

	t.Run("total function fails", func(t *testing.T) {
		var calls atomic.Int64
		_, err := FetchAll(context.Background(), listSource(&calls), 20, func(context.Context) (int, error) {
			return 0, boom
		}, quiet())
		if err != boom {
			t.Fatalf("FetchAll() error = %v, want %v", err, boom)
		}
		if calls.Load() != 0 {
			t.Errorf("fetch called %d times, want 0", calls.Load())
		}
	})

	t.Run("page fails", func(t *testing.T) {
		fn := func(ctx context.Context, page, limit int) ([]post, error) {
			if page == 4 {
				return nil, boom
			}
			return slicePage(allPosts, limit, page), nil
		}
		for _, total := range []TotalFunc{nil, Total(100)} {
			got, err := FetchAll[post](context.Background(), fn, 20, total, quiet())
			if err != boom {
				t.Fatalf("FetchAll() error = %v, want %v", err, boom)
			}
			if got != nil {
				t.Errorf("FetchAll() = %v, want nil", got)
			}
		}
	})
}

// Package testutil provides testing utilities for paginated sources.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Mode selects the response shape served by MockAPI.
type Mode string

const (
	// ModePlain answers with a bare JSON array.
	ModePlain Mode = "plain"

	// ModeCounted answers with {"data": [...], "total": n}.
	ModeCounted Mode = "counted"

	// ModeCursor answers with {"data": [...], "cursor": offset|null}.
	ModeCursor Mode = "cursor"
)

// Item is the element served by MockAPI.
type Item struct {
	ID int `json:"id"`
}

// Items returns items 1..n.
func Items(n int) []Item {
	out := make([]Item, n)
	for i := range out {
		out[i] = Item{ID: i + 1}
	}
	return out
}

// MockAPI is a paginated JSON API for testing. Pages are selected with the
// page (1-based), limit and cursor query parameters.
type MockAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	items        []Item
	mode         Mode
	defaultLimit int
	failAt       int
	failStatus   int
	delay        time.Duration
	handlers     map[string]http.HandlerFunc

	// Tracking
	RequestCount   int
	Paths          []string
	Queries        []url.Values
	LastUserAgent  string
	MaxConcurrent  int
	activeRequests int
}

// NewMockAPI creates a mock API serving items in the given mode with
// pages of defaultLimit items when the request carries no limit.
func NewMockAPI(items []Item, mode Mode, defaultLimit int) *MockAPI {
	mock := &MockAPI{
		items:        items,
		mode:         mode,
		defaultLimit: defaultLimit,
		handlers:     make(map[string]http.HandlerFunc),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		count := mock.RequestCount
		mock.Paths = append(mock.Paths, r.URL.Path)
		mock.Queries = append(mock.Queries, r.URL.Query())
		mock.LastUserAgent = r.Header.Get("User-Agent")
		mock.activeRequests++
		if mock.activeRequests > mock.MaxConcurrent {
			mock.MaxConcurrent = mock.activeRequests
		}
		failAt, failStatus, delay := mock.failAt, mock.failStatus, mock.delay
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.activeRequests--
			mock.mu.Unlock()
		}()

		if delay > 0 {
			time.Sleep(delay)
		}

		if failAt > 0 && count == failAt {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(failStatus)
			w.Write([]byte(`{"error": "injected failure"}`))
			return
		}

		if exists {
			handler(w, r)
			return
		}

		mock.pageHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Paths = nil
	m.Queries = nil
	m.LastUserAgent = ""
	m.MaxConcurrent = 0
}

// FailAt makes the n-th request (1-based) answer with status.
func (m *MockAPI) FailAt(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
	m.failStatus = status
}

// SetDelay delays every response.
func (m *MockAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetHandler overrides the response for one path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetBody makes path answer with a fixed JSON body.
func (m *MockAPI) SetBody(path string, status int, body string) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		w.Write([]byte(body))
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPaths returns a copy of the path of every request so far.
func (m *MockAPI) GetPaths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.Paths...)
}

// GetQueries returns a copy of the query of every request so far.
func (m *MockAPI) GetQueries() []url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]url.Values(nil), m.Queries...)
}

// GetMaxConcurrent returns the highest number of requests seen in flight.
func (m *MockAPI) GetMaxConcurrent() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.MaxConcurrent
}

// pageHandler serves the slice of items selected by the query.
func (m *MockAPI) pageHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := m.defaultLimit
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		limit = v
	}

	var offset int
	switch {
	case q.Get("cursor") != "":
		offset, _ = strconv.Atoi(q.Get("cursor"))
	case q.Get("offset") != "":
		offset, _ = strconv.Atoi(q.Get("offset"))
	default:
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		offset = (page - 1) * limit
	}

	data := pageOf(m.items, offset, limit)

	var body any
	switch m.mode {
	case ModeCounted:
		body = map[string]any{"data": data, "total": len(m.items)}
	case ModeCursor:
		var next any
		if offset+limit < len(m.items) {
			next = offset + limit
		}
		body = map[string]any{"data": data, "cursor": next}
	default:
		body = data
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func pageOf(items []Item, offset, limit int) []Item {
	if offset >= len(items) {
		return []Item{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

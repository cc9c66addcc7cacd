// Package client turns paginated JSON endpoints into fetch functions for
// the pagination engine.
//
// Responses are decoded with pagination.DecodePage, so an endpoint may
// answer with a bare array, {"data": [...], "total": n} or
// {"data": [...], "cursor": token}. The client does not retry, authenticate
// or cache; a failed request surfaces as a *StatusError.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/unpaginated/pkg/logging"
	"github.com/Sternrassler/unpaginated/pkg/pagination"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

// ParamNames are the query parameter names a paginated endpoint expects.
type ParamNames struct {
	Page   string
	Limit  string
	Offset string
	Cursor string
}

// DefaultParamNames returns page, limit, offset and cursor.
func DefaultParamNames() ParamNames {
	return ParamNames{
		Page:   "page",
		Limit:  "limit",
		Offset: "offset",
		Cursor: "cursor",
	}
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is prepended to every request path (REQUIRED). A path prefix
	// such as https://host/api/v1 is kept.
	BaseURL string

	// UserAgent header sent with every request (REQUIRED).
	UserAgent string

	// Timeout per request (default: 30s). Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient replaces the default http.Client.
	HTTPClient *http.Client

	// Params names the paging query parameters. Empty names fall back to
	// DefaultParamNames.
	Params ParamNames

	// ZeroIndexedPages sends page 1 as 0, page 2 as 1, ...
	ZeroIndexedPages bool

	// UseOffset sends a 0-based item offset instead of a page number when a
	// limit is known.
	UseOffset bool
}

// DefaultConfig returns a default configuration for baseURL.
func DefaultConfig(baseURL, userAgent string) Config {
	return Config{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		Params:    DefaultParamNames(),
	}
}

// Client performs page requests against one API.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	config     Config
	logger     zerolog.Logger
}

// New creates a new client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}
	if cfg.UserAgent == "" {
		return nil, errors.New("user-agent is required")
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	defaults := DefaultParamNames()
	if cfg.Params.Page == "" {
		cfg.Params.Page = defaults.Page
	}
	if cfg.Params.Limit == "" {
		cfg.Params.Limit = defaults.Limit
	}
	if cfg.Params.Offset == "" {
		cfg.Params.Offset = defaults.Offset
	}
	if cfg.Params.Cursor == "" {
		cfg.Params.Cursor = defaults.Cursor
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		config:     cfg,
		logger:     logging.NewLogger("client"),
	}, nil
}

// Get requests path with the given query and returns the response body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	defer func() {
		requestDuration.Observe(time.Since(startTime).Seconds())
	}()

	c.logger.Debug().
		Str("path", path).
		Str("query", u.RawQuery).
		Msg("Requesting page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues("network_error").Inc()
		return nil, &StatusError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("path", path).
			Int("status_code", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Page request error")

		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		}
	}

	return body, nil
}

// pageValues adds the paging parameters of req to a copy of base.
func (c *Client) pageValues(base url.Values, req pagination.Request) url.Values {
	v := make(url.Values, len(base)+2)
	for key, values := range base {
		v[key] = append([]string(nil), values...)
	}

	names := c.config.Params

	switch {
	case req.Cursor.Actionable():
		v.Set(names.Cursor, req.Cursor.String())
	case c.config.UseOffset && req.Limit > 0:
		v.Set(names.Offset, strconv.Itoa(pagination.Offset(req.Page, req.Limit, true)))
	default:
		v.Set(names.Page, strconv.Itoa(pagination.PageIndex(req.Page, c.config.ZeroIndexedPages)))
	}

	if req.Limit > 0 {
		v.Set(names.Limit, strconv.Itoa(req.Limit))
	}

	return v
}

// Fetcher returns a fetch function for the endpoint at path.
//
// params, when not nil, is a struct with `url` tags (see
// github.com/google/go-querystring) whose values are sent with every
// request alongside the paging parameters.
func Fetcher[T any](c *Client, path string, params any) (pagination.Fetcher[T], error) {
	base := url.Values{}
	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return nil, fmt.Errorf("encode params: %w", err)
		}
		base = v
	}

	return func(ctx context.Context, req pagination.Request) (pagination.Page[T], error) {
		body, err := c.Get(ctx, path, c.pageValues(base, req))
		if err != nil {
			return nil, err
		}
		return pagination.DecodePage[T](body)
	}, nil
}

// All materializes every item of the endpoint at path.
func All[T any](ctx context.Context, c *Client, path string, params any, opts ...pagination.Option) ([]T, error) {
	fetch, err := Fetcher[T](c, path, params)
	if err != nil {
		return nil, err
	}
	return pagination.All(ctx, fetch, opts...)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

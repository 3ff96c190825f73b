package rest

import (
	"context"
	"encoding/json"
	"maps"
	"strings"
	"time"

	"github.com/noel-archive/orchid/httpclient"
)

// Client is a JSON-focused REST client over an orchid client. Requests
// accept application/json unless the configuration says otherwise.
type Client struct {
	http *httpclient.Client
}

// New creates a REST client from cfg.
func New(cfg httpclient.Config, opts ...httpclient.Option) (*Client, error) {
	headers := make(map[string]string, len(cfg.Defaults.Headers)+1)
	maps.Copy(headers, cfg.Defaults.Headers)
	if !hasHeader(headers, "accept") {
		headers["accept"] = "application/json"
	}
	cfg.Defaults.Headers = headers

	c, err := httpclient.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{http: c}, nil
}

// NewFromClient creates a REST client from an existing orchid client.
func NewFromClient(c *httpclient.Client) *Client {
	return &Client{http: c}
}

// HTTP returns the underlying client.
func (c *Client) HTTP() *httpclient.Client {
	return c.http
}

// Name returns the name of the underlying client.
func (c *Client) Name() string {
	return c.http.Name()
}

// Close closes the underlying client.
func (c *Client) Close(ctx context.Context) error {
	return c.http.Close(ctx)
}

func hasHeader(h map[string]string, name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}

// RequestOption configures a single REST request.
type RequestOption func(*httpclient.Options)

// WithQuery adds query parameters to the request.
func WithQuery(params map[string]string) RequestOption {
	return func(o *httpclient.Options) {
		o.Query = merge(o.Query, params)
	}
}

// WithHeaders adds headers to the request.
func WithHeaders(headers map[string]string) RequestOption {
	return func(o *httpclient.Options) {
		o.Headers = merge(o.Headers, headers)
	}
}

// WithTimeout overrides the per-hop timeout.
func WithTimeout(d time.Duration) RequestOption {
	return func(o *httpclient.Options) {
		o.Timeout = &d
	}
}

// WithController attaches an abort handle.
func WithController(a *httpclient.AbortController) RequestOption {
	return func(o *httpclient.Options) {
		o.Controller = a
	}
}

func merge(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// Response wraps a typed REST response.
type Response[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers; nil for error responses.
	Headers *httpclient.Header
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodGet, path, nil, opts...)
}

// Post performs a POST request with a JSON body and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPost, path, body, opts...)
}

// Put performs a PUT request with a JSON body and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request with a JSON body and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, httpclient.MethodDelete, path, nil, opts...)
}

// do executes a REST request and decodes the JSON response. For a
// non-success status the error body is decoded into T when possible and
// returned together with the error.
func do[T any](ctx context.Context, c *Client, method httpclient.Method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	o := httpclient.Options{Data: body}
	for _, opt := range opts {
		opt(&o)
	}

	res, err := c.http.Fetch(ctx, path, method, o)
	if err != nil {
		if se, ok := httpclient.StatusError(err); ok && len(se.Body) > 0 {
			var data T
			if json.Unmarshal(se.Body, &data) == nil {
				return &Response[T]{StatusCode: se.StatusCode, Data: data}, err
			}
		}
		return nil, err
	}

	var data T
	if !res.Empty() {
		if err := res.JSON(&data); err != nil {
			return nil, err
		}
	}
	return &Response[T]{
		StatusCode: res.StatusCode,
		Headers:    res.Headers(),
		Data:       data,
	}, nil
}

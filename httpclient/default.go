package httpclient

import (
	"context"
	"sync"
)

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the shared default client, creating it on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		c, err := New(Config{})
		if err != nil {
			// a zero Config always validates
			panic(err)
		}
		defaultClient = c
	}
	return defaultClient
}

// ResetDefault closes the shared default client; the next Default call
// creates a fresh one.
func ResetDefault() {
	defaultMu.Lock()
	c := defaultClient
	defaultClient = nil
	defaultMu.Unlock()
	if c != nil {
		_ = c.Close(context.Background())
	}
}

// fetchOnce sends one request through a throwaway default client.
func fetchOnce(ctx context.Context, m Method, target any, opts []Options) (*Response, error) {
	c, err := New(Config{})
	if err != nil {
		return nil, err
	}
	defer c.Close(ctx)
	return c.Do(ctx, c.verb(m, target, opts))
}

// Get sends a GET request with a default-configured client.
func Get(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodGet, target, opts)
}

// Put sends a PUT request with a default-configured client.
func Put(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodPut, target, opts)
}

// Post sends a POST request with a default-configured client.
func Post(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodPost, target, opts)
}

// Patch sends a PATCH request with a default-configured client.
func Patch(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodPatch, target, opts)
}

// Head sends a HEAD request with a default-configured client.
func Head(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodHead, target, opts)
}

// Trace sends a TRACE request with a default-configured client.
func Trace(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodTrace, target, opts)
}

// Connect sends a CONNECT request with a default-configured client.
func Connect(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodConnect, target, opts)
}

// OptionsRequest sends an OPTIONS request with a default-configured client.
// It is not called Options because that name is taken by the options type.
func OptionsRequest(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodOptions, target, opts)
}

// Delete sends a DELETE request with a default-configured client.
func Delete(ctx context.Context, target any, opts ...Options) (*Response, error) {
	return fetchOnce(ctx, MethodDelete, target, opts)
}

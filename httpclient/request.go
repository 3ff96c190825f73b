package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noel-archive/orchid/errors"
)

const (
	// DefaultTimeout applies when neither the call nor the client sets one.
	DefaultTimeout = 30 * time.Second

	// NoTimeout disables the per-hop timer.
	NoTimeout time.Duration = -1
)

// Request describes one logical HTTP call. Mutators return the receiver so
// calls chain; header and query mutators never overwrite an existing key.
//
// A mutator that detects a contract violation (a GET with a body) records a
// sticky error reported by Err; Client.Do refuses to send such a request.
type Request struct {
	id              string
	method          Method
	url             *url.URL
	header          *Header
	body            body
	timeout         time.Duration
	followRedirects bool
	compress        bool
	controller      *AbortController
	ctx             context.Context
	hop             int
	err             error
}

// NewRequest builds a request with library defaults: follow redirects,
// no compression, a 30 second timeout. rawURL must be absolute.
func NewRequest(method Method, rawURL string) (*Request, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}
	u, err := parseAbsolute(rawURL)
	if err != nil {
		return nil, err
	}
	return newRequest(m, u), nil
}

func newRequest(m Method, u *url.URL) *Request {
	return &Request{
		id:              uuid.NewString(),
		method:          m,
		url:             u,
		header:          &Header{},
		timeout:         DefaultTimeout,
		followRedirects: true,
	}
}

// Header adds a header unless one with the same name exists.
func (r *Request) Header(name, value string) *Request {
	r.header.Add(name, value)
	return r
}

// Headers adds every entry of m with first-wins semantics, in sorted key order.
func (r *Request) Headers(m map[string]string) *Request {
	for _, k := range sortedKeys(m) {
		r.header.Add(k, m[k])
	}
	return r
}

// SetHeader replaces a header. Middleware that owns a header (authorization,
// trace context) uses it instead of Header.
func (r *Request) SetHeader(name, value string) *Request {
	r.header.Set(name, value)
	return r
}

// DelHeader removes a header.
func (r *Request) DelHeader(name string) *Request {
	r.header.Del(name)
	return r
}

// Query appends a query parameter unless the key is already present.
// Existing parameters keep their order.
func (r *Request) Query(key, value string) *Request {
	if hasQueryKey(r.url.RawQuery, key) {
		return r
	}
	pair := url.QueryEscape(key) + "=" + url.QueryEscape(value)
	if r.url.RawQuery == "" {
		r.url.RawQuery = pair
	} else {
		r.url.RawQuery += "&" + pair
	}
	return r
}

// Queries adds every entry of m with first-wins semantics, in sorted key order.
func (r *Request) Queries(m map[string]string) *Request {
	for _, k := range sortedKeys(m) {
		r.Query(k, m[k])
	}
	return r
}

// Body attaches a payload and adds its content-type (first-wins). A GET with
// a non-empty body records an InvalidBodyError.
func (r *Request) Body(data any) *Request {
	b, err := encodeBody(data)
	if err != nil {
		return r.fail(err)
	}
	if r.method == MethodGet && !b.empty() {
		return r.fail(errors.NewInvalidBody(string(r.method), "GET requests cannot carry a body"))
	}
	r.body = b
	if b.contentType != "" {
		r.header.Add("content-type", b.contentType)
	}
	return r
}

// Compress toggles accept-encoding negotiation and transparent decoding.
func (r *Request) Compress(on bool) *Request {
	r.compress = on
	return r
}

// FollowRedirects toggles the redirect chase.
func (r *Request) FollowRedirects(on bool) *Request {
	r.followRedirects = on
	return r
}

// Timeout sets the per-hop timeout. NoTimeout (or any d <= 0) disables it.
func (r *Request) Timeout(d time.Duration) *Request {
	if d <= 0 {
		d = NoTimeout
	}
	r.timeout = d
	return r
}

// Controller attaches an abort handle.
func (r *Request) Controller(c *AbortController) *Request {
	r.controller = c
	return r
}

func (r *Request) fail(err error) *Request {
	if r.err == nil {
		r.err = err
	}
	return r
}

// Err returns the first construction error recorded on the request.
func (r *Request) Err() error { return r.err }

// ID returns the call id shared by every hop of the call.
func (r *Request) ID() string { return r.id }

// Method returns the verb.
func (r *Request) Method() Method { return r.method }

// URL returns a copy of the target URL.
func (r *Request) URL() *url.URL {
	u := *r.url
	return &u
}

// GetHeader returns the first value of a header.
func (r *Request) GetHeader(name string) string { return r.header.Get(name) }

// HasHeader reports whether a header is set.
func (r *Request) HasHeader(name string) bool { return r.header.Has(name) }

// HeaderSet returns a copy of the headers.
func (r *Request) HeaderSet() *Header { return r.header.Clone() }

// BodyKind reports how the body is represented.
func (r *Request) BodyKind() BodyKind { return r.body.kind }

// GetTimeout returns the per-hop timeout, NoTimeout when disabled.
func (r *Request) GetTimeout() time.Duration { return r.timeout }

// IsCompressed reports whether compression is negotiated.
func (r *Request) IsCompressed() bool { return r.compress }

// FollowsRedirects reports whether redirects are chased.
func (r *Request) FollowsRedirects() bool { return r.followRedirects }

// AbortController returns the attached abort handle, if any.
func (r *Request) AbortController() *AbortController { return r.controller }

// Hop returns the position of this descriptor in its redirect chain, 0 for
// the original request.
func (r *Request) Hop() int { return r.hop }

// Context returns the context of the call in flight, or context.Background
// before dispatch.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

func (r *Request) String() string {
	return fmt.Sprintf("%s %s", r.method, r.url)
}

// redirect builds the descriptor for the next hop. The body, with its
// content headers, is only carried for 307 and 308. Credentials never follow
// a redirect to another host.
func (r *Request) redirect(loc *url.URL, status int) *Request {
	next := &Request{
		id:              r.id,
		method:          r.method,
		url:             r.url.ResolveReference(loc),
		header:          r.header.Clone(),
		timeout:         r.timeout,
		followRedirects: r.followRedirects,
		compress:        r.compress,
		controller:      r.controller,
		ctx:             r.ctx,
		hop:             r.hop + 1,
	}
	if status == 307 || status == 308 {
		next.body = r.body
	} else {
		next.header.Del("content-type")
		next.header.Del("content-length")
	}
	if !strings.EqualFold(next.url.Host, r.url.Host) {
		next.header.Del("authorization")
		next.header.Del("cookie")
	}
	return next
}

// hasQueryKey scans raw pair by pair so one malformed escape does not hide
// the keys around it.
func hasQueryKey(raw, key string) bool {
	for pair := range strings.SplitSeq(raw, "&") {
		k, _, _ := strings.Cut(pair, "=")
		if u, err := url.QueryUnescape(k); err == nil {
			k = u
		}
		if k == key {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

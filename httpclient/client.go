package httpclient

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"sync/atomic"

	"github.com/noel-archive/orchid/logger"
	"github.com/noel-archive/orchid/serializer"
	"github.com/noel-archive/orchid/util"
	"github.com/noel-archive/orchid/version"
)

// Client sends requests through its middleware and serializers. It is safe
// for concurrent use; concurrent calls share only the middleware registry,
// the extensions and, when pooling is configured, the transport.
type Client struct {
	cfg         Config
	baseURL     *url.URL
	userAgent   string
	ext         *Extensions
	middleware  *MiddlewareRegistry
	serializers *serializer.Registry
	shared      http.RoundTripper
	jar         http.CookieJar
	closed      atomic.Bool
}

// New creates a client. The configuration is defaulted and validated, then
// options are applied and middleware registered, running each Init once.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:         cfg,
		userAgent:   cfg.UserAgent,
		ext:         &Extensions{},
		middleware:  &MiddlewareRegistry{},
		serializers: serializer.NewRegistry(),
	}
	if c.userAgent == "" {
		c.userAgent = version.UserAgent()
	}
	if cfg.BaseURL != "" {
		u, err := parseAbsolute(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		c.baseURL = u
	}
	if l := cfg.Logging; l != nil {
		c.ext.SetLogger(logger.New(&logger.Config{Level: l.Level, Format: l.Format, Timestamp: true}, cfg.Name))
	}
	for ct, d := range cfg.Serializers {
		c.serializers.Register(ct, d)
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.setupTransport(); err != nil {
		return nil, err
	}
	for _, m := range c.cfg.Middleware {
		if err := c.Use(m); err != nil {
			_ = c.Close(context.Background())
			return nil, err
		}
	}
	return c, nil
}

// setupTransport builds the shared transport when pooling is configured and
// otherwise checks that a request-scoped one can be built.
func (c *Client) setupTransport() error {
	if c.cfg.Transport != nil {
		c.shared = c.cfg.Transport
	} else {
		t, err := buildTransport(&c.cfg)
		if err != nil {
			return err
		}
		if c.cfg.Pool != nil {
			c.shared = t
		}
	}
	if c.cfg.Cookies && c.jar == nil {
		jar, err := newCookieJar()
		if err != nil {
			return err
		}
		c.jar = jar
	}
	return nil
}

// Use registers m, running its Init hook. A middleware with the same name
// is replaced in place.
func (c *Client) Use(m Middleware) error {
	return c.middleware.register(c, m)
}

// Serializer binds d to an exact content type, replacing any previous
// binding. "*" replaces the fallback decoder.
func (c *Client) Serializer(contentType string, d serializer.Decoder) {
	c.serializers.Register(contentType, d)
}

// SerializerPattern binds d to content types matching re.
func (c *Client) SerializerPattern(re *regexp.Regexp, d serializer.Decoder) {
	c.serializers.RegisterPattern(re, d)
}

// Serializers returns the client's serializer registry.
func (c *Client) Serializers() *serializer.Registry { return c.serializers }

// Middleware returns the client's middleware registry.
func (c *Client) Middleware() *MiddlewareRegistry { return c.middleware }

// Extensions returns the capability slots filled by middleware.
func (c *Client) Extensions() *Extensions { return c.ext }

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Name returns the configured client name.
func (c *Client) Name() string { return c.cfg.Name }

// UserAgent returns the user-agent sent when a request does not set one.
func (c *Client) UserAgent() string { return c.userAgent }

// Closed reports whether Close has been called.
func (c *Client) Closed() bool { return c.closed.Load() }

// Close releases idle connections of the shared transport. Request-scoped
// transports are already released after each call.
func (c *Client) Close(_ context.Context) error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if c.shared != nil {
		closeIdle(c.shared)
	}
	return nil
}

// Request resolves target and args into a descriptor with the client
// defaults applied. See classify for the accepted call shapes.
func (c *Client) Request(target any, args ...any) (*Request, error) {
	return c.build("", target, args)
}

func (c *Client) build(fixed Method, target any, args []any) (*Request, error) {
	shape, err := classify(fixed, target, args)
	if err != nil {
		return nil, err
	}
	u, err := joinURL(c.baseURL, shape.rawURL)
	if err != nil {
		return nil, err
	}

	req := newRequest(shape.method, u)
	req.compress = util.DerefOr(c.cfg.Defaults.Compress, c.ext.Compression())
	req.followRedirects = util.DerefOr(c.cfg.Defaults.FollowRedirects, req.followRedirects)
	req.Timeout(c.cfg.Defaults.Timeout)

	if o := shape.options; o != nil {
		applyOptions(req, o)
	}
	if err := req.Err(); err != nil {
		return nil, err
	}
	return req, nil
}

// applyOptions overlays per-call options. Headers go first so an explicit
// content-type beats the one derived from Data.
func applyOptions(req *Request, o *Options) {
	req.Headers(o.Headers)
	req.Queries(o.Query)
	if o.Compress != nil {
		req.Compress(*o.Compress)
	}
	if o.FollowRedirects != nil {
		req.FollowRedirects(*o.FollowRedirects)
	}
	if o.Timeout != nil {
		req.Timeout(*o.Timeout)
	}
	if o.Controller != nil {
		req.Controller(o.Controller)
	}
	if o.Data != nil {
		req.Body(o.Data)
	}
}

// verb builds a request for a fixed method. Resolution errors are kept on
// the returned descriptor so the chain can continue; Do reports them.
func (c *Client) verb(m Method, target any, opts []Options) *Request {
	args := make([]any, len(opts))
	for i := range opts {
		args[i] = opts[i]
	}
	req, err := c.build(m, target, args)
	if err != nil {
		return failedRequest(m, err)
	}
	return req
}

func failedRequest(m Method, err error) *Request {
	r := newRequest(m, &url.URL{})
	r.err = err
	return r
}

// Get builds a GET request.
func (c *Client) Get(target any, opts ...Options) *Request {
	return c.verb(MethodGet, target, opts)
}

// Put builds a PUT request.
func (c *Client) Put(target any, opts ...Options) *Request {
	return c.verb(MethodPut, target, opts)
}

// Post builds a POST request.
func (c *Client) Post(target any, opts ...Options) *Request {
	return c.verb(MethodPost, target, opts)
}

// Patch builds a PATCH request.
func (c *Client) Patch(target any, opts ...Options) *Request {
	return c.verb(MethodPatch, target, opts)
}

// Head builds a HEAD request.
func (c *Client) Head(target any, opts ...Options) *Request {
	return c.verb(MethodHead, target, opts)
}

// Trace builds a TRACE request.
func (c *Client) Trace(target any, opts ...Options) *Request {
	return c.verb(MethodTrace, target, opts)
}

// Connect builds a CONNECT request.
func (c *Client) Connect(target any, opts ...Options) *Request {
	return c.verb(MethodConnect, target, opts)
}

// Options builds an OPTIONS request.
func (c *Client) Options(target any, opts ...Options) *Request {
	return c.verb(MethodOptions, target, opts)
}

// Delete builds a DELETE request.
func (c *Client) Delete(target any, opts ...Options) *Request {
	return c.verb(MethodDelete, target, opts)
}

package httpclient

import (
	"net/http"
	"regexp"

	"github.com/noel-archive/orchid/logger"
	"github.com/noel-archive/orchid/serializer"
)

// Option configures a Client during New.
type Option func(*Client)

// WithMiddleware registers middleware after the configured ones.
func WithMiddleware(m ...Middleware) Option {
	return func(c *Client) {
		c.cfg.Middleware = append(c.cfg.Middleware, m...)
	}
}

// WithSerializer binds a decoder to an exact content type.
func WithSerializer(contentType string, d serializer.Decoder) Option {
	return func(c *Client) {
		c.serializers.Register(contentType, d)
	}
}

// WithSerializerPattern binds a decoder to content types matching re.
func WithSerializerPattern(re *regexp.Regexp, d serializer.Decoder) Option {
	return func(c *Client) {
		c.serializers.RegisterPattern(re, d)
	}
}

// WithTransport makes rt the shared transport of the client. The client
// closes its idle connections on Close.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.cfg.Transport = rt
	}
}

// WithLogger installs l as the client logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.ext.SetLogger(l)
	}
}

// WithCookieJar sets the cookie jar, overriding Config.Cookies.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"

	"github.com/noel-archive/orchid/errors"
)

// buildTransport creates an *http.Transport from the client configuration.
// Decompression is left to the dispatch engine so that it only happens for
// requests that asked for it.
func buildTransport(cfg *Config) (*http.Transport, error) {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true

	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}

	if p := cfg.Pool; p != nil {
		if p.MaxIdleConns > 0 {
			t.MaxIdleConns = p.MaxIdleConns
		}
		if p.MaxIdleConnsPerHost > 0 {
			t.MaxIdleConnsPerHost = p.MaxIdleConnsPerHost
		}
		t.MaxConnsPerHost = p.MaxConnsPerHost
		t.IdleConnTimeout = p.IdleConnTimeout
	}

	if err := applyProxy(t, cfg.Proxy); err != nil {
		return nil, err
	}

	if h := cfg.HTTP2; h != nil {
		h2, err := http2.ConfigureTransports(t)
		if err != nil {
			return nil, errors.InvalidConfig("http2: cannot configure transport").WithCause(err)
		}
		h2.ReadIdleTimeout = h.ReadIdleTimeout
		h2.PingTimeout = h.PingTimeout
	}
	return t, nil
}

// applyProxy routes t through raw. http and https proxies use the transport's
// CONNECT support, socks5 proxies replace the dialer.
func applyProxy(t *http.Transport, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.InvalidConfig("proxy: cannot parse url").WithCause(err)
	}
	switch u.Scheme {
	case "http", "https":
		t.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return errors.InvalidConfig("proxy: cannot create socks5 dialer").WithCause(err)
		}
		t.Proxy = nil
		if cd, ok := d.(proxy.ContextDialer); ok {
			t.DialContext = cd.DialContext
		} else {
			t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
	default:
		return errors.InvalidConfig("proxy: unsupported scheme " + u.Scheme)
	}
	return nil
}

func newCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.InvalidConfig("cookies: cannot create jar").WithCause(err)
	}
	return jar, nil
}

// acquire returns the round tripper for one logical call and a release
// function. A shared transport outlives the call; a request-scoped one has
// its idle connections closed on release.
func (c *Client) acquire() (http.RoundTripper, func(), error) {
	if c.shared != nil {
		return c.shared, func() {}, nil
	}
	t, err := buildTransport(&c.cfg)
	if err != nil {
		return nil, nil, err
	}
	return t, t.CloseIdleConnections, nil
}

// httpClient wraps rt with net/http's redirect following disabled.
func (c *Client) httpClient(rt http.RoundTripper) *http.Client {
	return &http.Client{
		Transport: rt,
		Jar:       c.jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

type idleCloser interface {
	CloseIdleConnections()
}

func closeIdle(rt http.RoundTripper) {
	if ic, ok := rt.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

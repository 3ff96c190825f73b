package httpclient

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/noel-archive/orchid/errors"
)

// Options are per-call settings. An Options value carrying a URL or a Method
// is descriptor-shaped and may be passed on its own.
type Options struct {
	Method          Method            `mapstructure:"method"`
	URL             string            `mapstructure:"url"`
	Headers         map[string]string `mapstructure:"headers"`
	Query           map[string]string `mapstructure:"query"`
	Data            any               `mapstructure:"-"`
	Compress        *bool             `mapstructure:"compress"`
	FollowRedirects *bool             `mapstructure:"follow_redirects"`
	Timeout         *time.Duration    `mapstructure:"timeout"`
	Controller      *AbortController  `mapstructure:"-"`
}

func (o *Options) descriptor() bool {
	return o.URL != "" || o.Method != ""
}

// callShape is the outcome of classifying the positional arguments of a call.
type callShape struct {
	url     *url.URL
	rawURL  string
	method  Method
	options *Options
}

// classify resolves target and args into a single call shape. fixed is the
// verb implied by the entry point (Get, Post, ...), empty for Request.
//
// Accepted shapes:
//
//	(url, Method|"verb", Options)  explicit method
//	(Options{URL, Method, ...})    descriptor first
//	(url, Options{Method, ...})    method embedded in options
//
// A field given in two positions with different values, or two
// descriptor-shaped Options, fails with AmbiguousRequestError.
func classify(fixed Method, target any, args []any) (callShape, error) {
	var (
		shape     callShape
		methodSet bool
	)

	setMethod := func(m Method, where string) error {
		pm, err := ParseMethod(string(m))
		if err != nil {
			return err
		}
		if methodSet && shape.method != pm {
			return errors.NewAmbiguousRequest("method", fmt.Sprintf("%s conflicts with %s given %s", shape.method, pm, where))
		}
		shape.method, methodSet = pm, true
		return nil
	}
	setOptions := func(o *Options) error {
		if o == nil {
			return nil
		}
		if shape.options != nil {
			if shape.options.descriptor() && o.descriptor() {
				return errors.NewAmbiguousRequest("options", "more than one descriptor-shaped options value")
			}
			return errors.NewAmbiguousRequest("options", "options supplied twice")
		}
		shape.options = o
		return nil
	}

	if fixed != "" {
		if err := setMethod(fixed, "by the call"); err != nil {
			return shape, err
		}
	}

	switch t := target.(type) {
	case string:
		shape.rawURL = t
	case *url.URL:
		if t == nil {
			return shape, errors.NewInvalidURL("", "nil url", nil)
		}
		u := *t
		shape.url = &u
		shape.rawURL = u.String()
	case Options:
		if err := setOptions(&t); err != nil {
			return shape, err
		}
	case *Options:
		if t == nil {
			return shape, errors.NewInvalidURL("", "nil options", nil)
		}
		o := *t
		if err := setOptions(&o); err != nil {
			return shape, err
		}
	default:
		return shape, errors.NewInvalidURL(fmt.Sprint(target), fmt.Sprintf("unsupported target type %T", target), nil)
	}

	for _, a := range args {
		switch v := a.(type) {
		case nil:
		case Method:
			if err := setMethod(v, "positionally"); err != nil {
				return shape, err
			}
		case string:
			if err := setMethod(Method(v), "positionally"); err != nil {
				return shape, err
			}
		case Options:
			if err := setOptions(&v); err != nil {
				return shape, err
			}
		case *Options:
			if v != nil {
				o := *v
				if err := setOptions(&o); err != nil {
					return shape, err
				}
			}
		default:
			return shape, errors.NewAmbiguousRequest("argument", fmt.Sprintf("unsupported argument type %T", a))
		}
	}

	if o := shape.options; o != nil {
		if o.URL != "" {
			if shape.rawURL != "" && shape.rawURL != o.URL {
				return shape, errors.NewAmbiguousRequest("url", fmt.Sprintf("%q conflicts with options url %q", shape.rawURL, o.URL))
			}
			if shape.rawURL == "" {
				shape.rawURL = o.URL
			}
		}
		if o.Method != "" {
			if err := setMethod(o.Method, "in options"); err != nil {
				return shape, err
			}
		}
	}

	if shape.rawURL == "" && shape.url == nil {
		return shape, errors.NewInvalidURL("", "no url given", nil)
	}
	if !methodSet {
		shape.method = MethodGet
	}
	return shape, nil
}

// joinURL resolves raw against base. A path starting with "/" is appended
// verbatim, anything else after a "/". With a base, an absolute raw URL is
// rebased: only its path and query are kept. Without one it is used as is.
func joinURL(base *url.URL, raw string) (*url.URL, error) {
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		abs, err := checkAbsolute(raw, u)
		if err != nil || base == nil {
			return abs, err
		}
		raw = abs.EscapedPath()
		if abs.RawQuery != "" {
			raw += "?" + abs.RawQuery
		}
	}
	if base == nil {
		return nil, errors.NewInvalidURL(raw, "relative url without a base url", nil)
	}
	prefix := strings.TrimRight(base.String(), "/")
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return parseAbsolute(prefix + raw)
}

func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.NewInvalidURL(raw, "cannot parse", err)
	}
	return checkAbsolute(raw, u)
}

func checkAbsolute(raw string, u *url.URL) (*url.URL, error) {
	if !u.IsAbs() || u.Host == "" {
		return nil, errors.NewInvalidURL(raw, "url must be absolute", nil)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u, nil
	default:
		return nil, errors.NewInvalidURL(raw, "unsupported scheme "+u.Scheme, nil)
	}
}

package httpclient

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/logger"
)

const (
	acceptEncoding = "gzip, deflate"

	// maxPresize caps the buffer allocated up front from content-length.
	maxPresize = 4 << 20
)

var errHopTimeout = stderrors.New("orchid: hop timed out")

// Fetch resolves target and args like Request and dispatches the result.
func (c *Client) Fetch(ctx context.Context, target any, args ...any) (*Response, error) {
	req, err := c.Request(target, args...)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

// Do dispatches req: request hooks, send, redirect chase, body buffering and
// response hooks. A request carrying a construction error is never sent.
//
// The returned error is one of the orchid typed errors, possibly joined with
// errors returned by error-phase middleware.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.NewInvalidURL("", "nil request", nil)
	}
	if err := req.Err(); err != nil {
		return nil, err
	}
	if req.body.kind == BodyMultipart && !c.ext.Forms() {
		return nil, errors.NewInvalidBody(string(req.method), "multipart bodies require the forms middleware")
	}
	if _, err := req.body.bytes(); err != nil {
		return nil, errors.NewInvalidBody(string(req.method), "cannot read body: "+err.Error())
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := req.controller.link(ctx)
	defer stop()

	rt, release, err := c.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	return c.chase(ctx, c.httpClient(rt), req)
}

// chase runs hops until a non-redirect response arrives.
func (c *Client) chase(ctx context.Context, hc *http.Client, req *Request) (*Response, error) {
	log := c.ext.Logger()
	current := req

	for {
		current.ctx = ctx
		c.fillDefaults(current)
		if err := c.middleware.runRequest(c, current); err != nil {
			return nil, c.fail(current, err)
		}

		start := time.Now()
		log.Debug("request sent", logger.Fields(
			logger.FieldCallID, current.id,
			logger.FieldMethod, string(current.method),
			logger.FieldURL, current.url.String(),
			logger.FieldHop, current.hop,
		))

		resp, data, err := c.exchange(ctx, hc, current)
		if err != nil {
			return nil, c.fail(current, err)
		}
		if err := interrupted(ctx, current); err != nil {
			return nil, c.fail(current, err)
		}

		if loc, ok := redirectLocation(current, resp); ok {
			if current.hop >= c.cfg.MaxRedirects {
				return nil, c.fail(current, errors.NewTooManyRedirects(current.url.String(), c.cfg.MaxRedirects))
			}
			next := current.redirect(loc, resp.StatusCode)
			log.Debug("redirect followed", logger.Fields(
				logger.FieldCallID, current.id,
				logger.FieldStatus, resp.StatusCode,
				logger.FieldLocation, next.url.String(),
				logger.FieldHop, next.hop,
			))
			current = next
			continue
		}

		res := c.newResponse(current, resp, data)
		log.Debug("response received", logger.Merge(logger.Fields(
			logger.FieldCallID, current.id,
			logger.FieldStatus, res.StatusCode,
			logger.FieldBytes, len(data),
		), logger.DurationFields("exchange", time.Since(start))))

		if !res.Success() {
			return nil, c.fail(current, errors.NewHTTPStatus(res.StatusCode, res.Bytes()))
		}
		if err := c.middleware.runResponse(c, res); err != nil {
			return nil, c.fail(current, err)
		}
		return res, nil
	}
}

// fillDefaults adds client default headers and the user-agent to headers the
// caller left unset, plus accept-encoding when compression is negotiated.
func (c *Client) fillDefaults(req *Request) {
	for _, k := range sortedKeys(c.cfg.Defaults.Headers) {
		req.header.Add(k, c.cfg.Defaults.Headers[k])
	}
	req.header.Add("user-agent", c.userAgent)
	if req.compress {
		req.header.Add("accept-encoding", acceptEncoding)
	}
}

// exchange performs one hop under its own timeout. For a redirect that will
// be followed the body is drained and data is nil.
func (c *Client) exchange(ctx context.Context, hc *http.Client, req *Request) (*http.Response, []byte, error) {
	hopCtx, cancel := ctx, context.CancelFunc(func() {})
	if req.timeout > 0 {
		hopCtx, cancel = context.WithTimeoutCause(ctx, req.timeout, errHopTimeout)
	}
	defer cancel()

	httpReq, err := req.toHTTP(hopCtx)
	if err != nil {
		return nil, nil, err
	}
	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, nil, classifyTransportErr(hopCtx, req, err)
	}
	defer resp.Body.Close()

	if _, ok := redirectLocation(req, resp); ok {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp, nil, nil
	}

	data, err := readBody(resp, req.compress)
	if err != nil {
		return nil, nil, classifyTransportErr(hopCtx, req, err)
	}
	return resp, data, nil
}

// interrupted reports a cancellation that arrived after the hop finished
// reading. The controller is checked directly since its link to ctx fires
// on another goroutine.
func interrupted(ctx context.Context, req *Request) error {
	if a := req.controller; a != nil && a.Aborted() {
		return errors.NewCanceled(req.url.String(), a.Cause())
	}
	if ctx.Err() != nil {
		return errors.NewCanceled(req.url.String(), context.Cause(ctx))
	}
	return nil
}

// classifyTransportErr turns a transport failure into a typed error. The
// context cause separates the hop timer from caller or abort cancellation.
func classifyTransportErr(ctx context.Context, req *Request, err error) error {
	if ctx.Err() != nil {
		cause := context.Cause(ctx)
		if stderrors.Is(cause, errHopTimeout) {
			return errors.NewTimeout(req.url.String(), req.timeout)
		}
		return errors.NewCanceled(req.url.String(), cause)
	}
	return errors.NewNetwork(string(req.method), req.url.String(), err)
}

// fail logs a failed call and runs the error phase.
func (c *Client) fail(req *Request, err error) error {
	fields := logger.Fields(
		logger.FieldCallID, req.id,
		logger.FieldMethod, string(req.method),
		logger.FieldURL, req.url.String(),
		logger.FieldError, err.Error(),
	)
	switch errors.CodeOf(err) {
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		c.ext.Logger().Error("request failed", fields)
	default:
		c.ext.Logger().Debug("request failed", fields)
	}
	return c.middleware.runError(c, req, err)
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// redirectLocation returns the parsed location of a redirect req will follow.
func redirectLocation(req *Request, resp *http.Response) (*url.URL, bool) {
	if !req.followRedirects || !isRedirect(resp.StatusCode) {
		return nil, false
	}
	raw := resp.Header.Get("Location")
	if raw == "" {
		return nil, false
	}
	loc, err := req.url.Parse(raw)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// toHTTP renders the descriptor as a net/http request bound to ctx.
func (r *Request) toHTTP(ctx context.Context) (*http.Request, error) {
	body, n, err := r.body.open()
	if err != nil {
		return nil, errors.NewInvalidBody(string(r.method), "cannot read body: "+err.Error())
	}
	httpReq, err := http.NewRequestWithContext(ctx, string(r.method), r.url.String(), body)
	if err != nil {
		return nil, errors.NewInvalidURL(r.url.String(), "cannot build request", err)
	}
	httpReq.Header = r.header.toHTTP()
	if body != nil {
		httpReq.ContentLength = n
	}
	if host := r.header.Get("host"); host != "" {
		httpReq.Host = host
	}
	return httpReq, nil
}

// readBody buffers the response body, decoding gzip and deflate when decode
// is set. Decoded responses lose their content-encoding and content-length.
func readBody(resp *http.Response, decode bool) ([]byte, error) {
	br := bufio.NewReader(resp.Body)
	if _, err := br.Peek(1); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}

	var src io.Reader = br
	size := resp.ContentLength
	if decode {
		dec, err := contentDecoder(resp.Header.Get("Content-Encoding"), br)
		if err != nil {
			return nil, err
		}
		if dec != nil {
			defer dec.Close()
			src = dec
			size = -1
			resp.Header.Del("Content-Encoding")
			resp.Header.Del("Content-Length")
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, presize(size)))
	if _, err := buf.ReadFrom(src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func presize(n int64) int {
	switch {
	case n <= 0:
		return bytes.MinRead
	case n > maxPresize:
		return maxPresize
	default:
		return int(n)
	}
}

// contentDecoder returns nil for encodings it does not handle. A deflate body
// is usually zlib-wrapped but some servers send raw flate.
func contentDecoder(encoding string, br *bufio.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip", "x-gzip":
		return gzip.NewReader(br)
	case "deflate":
		if zlibWrapped(br) {
			return zlib.NewReader(br)
		}
		return flate.NewReader(br), nil
	default:
		return nil, nil
	}
}

func zlibWrapped(br *bufio.Reader) bool {
	h, err := br.Peek(2)
	if err != nil {
		return false
	}
	return h[0]&0x0f == 8 && (uint16(h[0])<<8|uint16(h[1]))%31 == 0
}

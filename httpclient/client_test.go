package httpclient

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/internal/testserver"
	"github.com/noel-archive/orchid/serializer"
	"github.com/noel-archive/orchid/util"
)

func enable(name string, fn func(*Extensions)) Middleware {
	return Setup(name, func(c *Client) error {
		fn(c.Extensions())
		return nil
	})
}

func echoOf(t *testing.T, res *Response) testserver.Echo {
	t.Helper()
	var e testserver.Echo
	if err := res.JSON(&e); err != nil {
		t.Fatalf("decode echo: %v", err)
	}
	return e
}

func TestFetchDecodesRepeatedly(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/json"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusOK || res.Status() != "OK" || !res.Success() {
		t.Fatalf("unexpected status %s", res)
	}
	for i := 0; i < 2; i++ {
		var v map[string]int
		if err := res.JSON(&v); err != nil || v["a"] != 1 {
			t.Errorf("JSON #%d = %v, %v", i, v, err)
		}
		if s, err := res.Text(""); err != nil || s != `{"a":1}` {
			t.Errorf("Text #%d = %q, %v", i, s, err)
		}
	}

	body, err := res.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if m, ok := body.(map[string]any); !ok || m["a"] != float64(1) {
		t.Errorf("Body = %#v", body)
	}
	typed, err := BodyAs[map[string]int](res)
	if err != nil || typed["a"] != 1 {
		t.Errorf("BodyAs = %v, %v", typed, err)
	}

	b := res.Bytes()
	b[0] = 'X'
	if res.Bytes()[0] != '{' {
		t.Error("Bytes must return a copy")
	}
}

func TestFetchCallShapes(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL + "/api"})

	res, err := c.Fetch(context.Background(), "/users", "put", Options{Data: "x", Query: map[string]string{"q": "1"}})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	e := echoOf(t, res)
	if e.Method != "PUT" || e.Path != "/api/users" || e.Query["q"][0] != "1" || e.Body != "x" {
		t.Errorf("echo = %+v", e)
	}

	if _, err := c.Fetch(context.Background(), "/users", MethodGet, MethodPost); errors.CodeOf(err) != errors.ErrCodeAmbiguousRequest {
		t.Errorf("expected AMBIGUOUS_REQUEST, got %v", err)
	}
}

func TestDefaultHeadersFillOnly(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{
		BaseURL: srv.URL,
		Defaults: Defaults{Headers: map[string]string{
			"x-default":  "d",
			"x-override": "d",
		}},
	})

	res, err := c.Do(context.Background(), c.Get("/echo").Header("X-Override", "mine"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	e := echoOf(t, res)
	if got := e.Headers["X-Override"]; len(got) != 1 || got[0] != "mine" {
		t.Errorf("x-override = %v", got)
	}
	if got := e.Headers["X-Default"]; len(got) != 1 || got[0] != "d" {
		t.Errorf("x-default = %v", got)
	}
	if ua := e.Headers["User-Agent"]; len(ua) != 1 || !strings.HasPrefix(ua[0], "orchid (") {
		t.Errorf("user-agent = %v", ua)
	}
	if _, ok := e.Headers["Accept-Encoding"]; ok {
		t.Error("accept-encoding must only be sent when compression is on")
	}

	custom := newTestClient(t, Config{BaseURL: srv.URL, UserAgent: "my-agent/1.0"})
	res, err = custom.Do(context.Background(), custom.Get("/echo"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ua := echoOf(t, res).Headers["User-Agent"]; ua[0] != "my-agent/1.0" {
		t.Errorf("user-agent = %v", ua)
	}
}

func TestRedirectFollowed(t *testing.T) {
	srv := testserver.New(t)
	var requests, responses int
	c := newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(Middleware{
		Name:       "count",
		OnRequest:  func(*Client, *Request) error { requests++; return nil },
		OnResponse: func(*Client, *Response) error { responses++; return nil },
	}))

	res, err := c.Do(context.Background(), c.Get("/redirect/302?to=/json"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	if srv.Hits("/redirect/302") != 1 || srv.Hits("/json") != 1 {
		t.Errorf("hits: redirect=%d json=%d", srv.Hits("/redirect/302"), srv.Hits("/json"))
	}
	if res.Request().Hop() != 1 || res.Request().URL().Path != "/json" {
		t.Errorf("final hop = %d %s", res.Request().Hop(), res.Request().URL())
	}
	if requests != 2 || responses != 1 {
		t.Errorf("request hooks = %d, response hooks = %d", requests, responses)
	}
}

func TestRedirectBodyHandling(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Post("/redirect/307?to=/echo").Body("payload"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if e := echoOf(t, res); e.Method != "POST" || e.Body != "payload" {
		t.Errorf("307 echo = %+v", e)
	}

	res, err = c.Do(context.Background(), c.Post("/redirect/303?to=/echo").Body("payload"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	e := echoOf(t, res)
	if e.Body != "" {
		t.Errorf("303 must drop the body, got %q", e.Body)
	}
	if _, ok := e.Headers["Content-Type"]; ok {
		t.Error("303 must drop content-type")
	}
}

func TestRedirectNotFollowed(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/redirect/302?to=/json").FollowRedirects(false))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusFound || res.Header("location") != "/json" {
		t.Errorf("got %d location=%q", res.StatusCode, res.Header("location"))
	}
	if srv.Hits("/json") != 0 {
		t.Error("redirect must not be followed")
	}
}

func TestTooManyRedirects(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL, MaxRedirects: 2})

	_, err := c.Do(context.Background(), c.Get("/chain/5"))
	var tr *errors.TooManyRedirectsError
	if !asError(err, &tr) || tr.Max != 2 {
		t.Fatalf("expected TooManyRedirectsError, got %v", err)
	}

	c = newTestClient(t, Config{BaseURL: srv.URL})
	res, err := c.Do(context.Background(), c.Get("/chain/3"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.Request().Hop() != 4 {
		t.Errorf("hops = %d, want 4", res.Request().Hop())
	}
}

func TestTimeout(t *testing.T) {
	srv := testserver.New(t)
	var responses, failures int
	c := newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(Middleware{
		Name:       "observe",
		OnResponse: func(*Client, *Response) error { responses++; return nil },
		OnError:    func(*Client, *Request, error) error { failures++; return nil },
	}))

	_, err := c.Do(context.Background(), c.Get("/slow?delay=500ms").Timeout(50*time.Millisecond))
	var te *errors.TimeoutError
	if !asError(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if te.Timeout != 50*time.Millisecond {
		t.Errorf("timeout = %v", te.Timeout)
	}
	if !IsTimeout(err) || IsNetwork(err) || IsCanceled(err) {
		t.Error("timeouts are distinct from network errors and cancellation")
	}
	if responses != 0 || failures != 1 {
		t.Errorf("response hooks = %d, error hooks = %d", responses, failures)
	}

	if _, err := c.Do(context.Background(), c.Get("/slow?delay=10ms").Timeout(time.Second)); err != nil {
		t.Errorf("completed response must win: %v", err)
	}
}

func TestAbort(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	ctrl := NewAbortController()
	time.AfterFunc(50*time.Millisecond, ctrl.Abort)
	_, err := c.Do(context.Background(), c.Get("/slow?delay=2s").Controller(ctrl))
	if !IsCanceled(err) {
		t.Fatalf("expected CanceledError, got %v", err)
	}
	if !stderrors.Is(err, ErrAborted) {
		t.Errorf("cause must be ErrAborted: %v", err)
	}

	// a second call sharing the aborted controller fails immediately
	_, err = c.Do(context.Background(), c.Get("/json", Options{Controller: ctrl}))
	if !IsCanceled(err) {
		t.Errorf("expected CanceledError, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = c.Do(ctx, c.Get("/slow?delay=2s"))
	if !IsCanceled(err) {
		t.Errorf("context cancel: expected CanceledError, got %v", err)
	}
}

type abortOnEOF struct {
	r    io.Reader
	ctrl *AbortController
}

func (b *abortOnEOF) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	if err == io.EOF {
		b.ctrl.Abort()
	}
	return n, err
}

func (b *abortOnEOF) Close() error { return nil }

type fixedTransport func(*http.Request) *http.Response

func (f fixedTransport) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func TestAbortAfterBodyRead(t *testing.T) {
	ctrl := NewAbortController()
	rt := fixedTransport(func(r *http.Request) *http.Response {
		return &http.Response{
			StatusCode:    200,
			Status:        "200 OK",
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Header:        http.Header{"Content-Type": {"application/json"}},
			Body:          &abortOnEOF{r: strings.NewReader(`{"a":1}`), ctrl: ctrl},
			ContentLength: 7,
			Request:       r,
		}
	})
	var hooks atomic.Int32
	c, err := New(Config{BaseURL: "http://orchid.test"}, WithTransport(rt),
		WithMiddleware(OnResponse("count", func(*Client, *Response) error {
			hooks.Add(1)
			return nil
		})))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close(context.Background())

	res, err := c.Do(context.Background(), c.Get("/json").Controller(ctrl))
	if !ctrl.Aborted() {
		t.Fatal("body reader did not abort")
	}
	if !IsCanceled(err) || res != nil {
		t.Fatalf("expected CanceledError, got res=%v err=%v", res, err)
	}
	if !stderrors.Is(err, ErrAborted) {
		t.Errorf("cause must be ErrAborted: %v", err)
	}
	if hooks.Load() != 0 {
		t.Errorf("response hooks ran %d times", hooks.Load())
	}
}

func TestStatusErrors(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	_, err := c.Do(context.Background(), c.Get("/status/400"))
	se, ok := StatusError(err)
	if !ok {
		t.Fatalf("expected HTTPStatusError, got %v", err)
	}
	if se.StatusCode != 400 || se.StatusText != "Bad Request" || string(se.Body) != "status 400" {
		t.Errorf("status error = %d %q %q", se.StatusCode, se.StatusText, se.Body)
	}
	if errors.IsRetryable(err) {
		t.Error("4xx must not be retryable")
	}

	res, err := c.Do(context.Background(), c.Get("/status/399"))
	if err != nil || !res.Success() {
		t.Errorf("399 must be a success: %v", err)
	}

	_, err = c.Do(context.Background(), c.Get("/status/404"))
	if !IsNotFound(err) || IsServerError(err) {
		t.Errorf("404: %v", err)
	}
	_, err = c.Do(context.Background(), c.Get("/status/503"))
	if !IsServerError(err) || !errors.IsRetryable(err) {
		t.Errorf("503: %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	url := dead.URL
	dead.Close()

	var hooked error
	c := newTestClient(t, Config{}, WithMiddleware(OnError("capture", func(_ *Client, _ *Request, err error) error {
		hooked = err
		return nil
	})))
	_, err := c.Do(context.Background(), c.Get(url))
	if !IsNetwork(err) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if !errors.IsRetryable(err) {
		t.Error("network errors are retryable")
	}
	if hooked == nil || !IsNetwork(hooked) {
		t.Errorf("error hook saw %v", hooked)
	}
}

func TestCompression(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	for _, path := range []string{"/gzip", "/deflate", "/deflate-raw"} {
		t.Run(path, func(t *testing.T) {
			res, err := c.Do(context.Background(), c.Get(path).Compress(true))
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			var v map[string]bool
			if err := res.JSON(&v); err != nil || !v["compressed"] {
				t.Errorf("JSON = %v, %v", v, err)
			}
			if res.Header("content-encoding") != "" {
				t.Error("content-encoding must be removed after decoding")
			}
		})
	}

	res, err := c.Do(context.Background(), c.Get("/gzip"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	raw := res.Bytes()
	if len(raw) < 2 || raw[0] != 0x1f || raw[1] != 0x8b {
		t.Error("without compress the body must stay encoded")
	}

	res, err = c.Do(context.Background(), c.Get("/echo").Compress(true))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if ae := echoOf(t, res).Headers["Accept-Encoding"]; len(ae) != 1 || ae[0] != "gzip, deflate" {
		t.Errorf("accept-encoding = %v", ae)
	}
}

func TestCompressionCapability(t *testing.T) {
	c := newTestClient(t, Config{}, WithMiddleware(enable("compression", (*Extensions).EnableCompression)))
	r, err := c.Request("https://x.io")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if !r.IsCompressed() {
		t.Error("compression capability must turn compress on by default")
	}
	r, _ = c.Request("https://x.io", Options{Compress: util.Ptr(false)})
	if r.IsCompressed() {
		t.Error("explicit compress=false must win")
	}
}

func TestUnregisteredContentTypeIsText(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/xml"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	body, err := res.Body()
	if err != nil || body != "<a>1</a>" {
		t.Errorf("Body = %#v, %v", body, err)
	}
	if err := res.JSON(&struct{}{}); errors.CodeOf(err) != errors.ErrCodeSerialization {
		t.Errorf("JSON on xml: expected SERIALIZATION, got %v", err)
	}
}

func TestMultipartRequiresForms(t *testing.T) {
	srv := testserver.New(t)
	form := (&MultipartBody{}).Field("name", "orchid").File("doc", "a.txt", "text/plain", []byte("hi"))

	c := newTestClient(t, Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), c.Post("/upload").Body(form))
	if errors.CodeOf(err) != errors.ErrCodeInvalidBody {
		t.Fatalf("expected INVALID_BODY, got %v", err)
	}
	if srv.Hits("/upload") != 0 {
		t.Error("nothing must be sent")
	}

	c = newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(enable("forms", (*Extensions).EnableForms)))
	res, err := c.Do(context.Background(), c.Post("/upload").Body(form))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	up, err := BodyAs[testserver.Upload](res)
	if err != nil {
		t.Fatalf("BodyAs: %v", err)
	}
	if up.Fields["name"] != "orchid" || up.Files["doc"] != "a.txt:hi" {
		t.Errorf("upload = %+v", up)
	}
}

func TestStreams(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/events"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if _, err := res.Stream(); !stderrors.Is(err, errors.ErrStreamsDisabled) {
		t.Errorf("Stream without capability: %v", err)
	}
	if _, err := res.Pipe(io.Discard); errors.CodeOf(err) != errors.ErrCodeStreamsDisabled {
		t.Errorf("Pipe without capability: %v", err)
	}

	c = newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(enable("streams", (*Extensions).EnableStreams)))
	res, err = c.Do(context.Background(), c.Get("/events"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	var buf bytes.Buffer
	if n, err := res.Pipe(&buf); err != nil || n != int64(len(res.Bytes())) {
		t.Errorf("Pipe = %d, %v", n, err)
	}

	events, err := res.Events()
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	var got []string
	for ev, err := range events.All() {
		if err != nil {
			t.Fatalf("event: %v", err)
		}
		got = append(got, ev.Type()+"="+ev.Data)
	}
	if strings.Join(got, ",") != "greeting=hello,message=world" {
		t.Errorf("events = %v", got)
	}
}

func TestTextEncodings(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/latin1"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if s, err := res.Text(""); err != nil || s != "café" {
		t.Errorf("Text(charset) = %q, %v", s, err)
	}
	if s, err := res.Text("windows-1252"); err != nil || s != "café" {
		t.Errorf("Text(windows-1252) = %q, %v", s, err)
	}
	if _, err := res.Text("klingon"); errors.CodeOf(err) != errors.ErrCodeSerialization {
		t.Errorf("unknown encoding: expected SERIALIZATION, got %v", err)
	}
}

func TestEmptyAndHead(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL})

	res, err := c.Do(context.Background(), c.Get("/empty"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if res.StatusCode != http.StatusNoContent || !res.Empty() {
		t.Errorf("got %d empty=%v", res.StatusCode, res.Empty())
	}

	res, err = c.Do(context.Background(), c.Head("/echo").Compress(true))
	if err != nil {
		t.Fatalf("HEAD: %v", err)
	}
	if !res.Empty() {
		t.Error("HEAD responses have no body")
	}
}

func TestCookies(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL, Cookies: true})

	if _, err := c.Do(context.Background(), c.Get("/cookie/set")); err != nil {
		t.Fatalf("set: %v", err)
	}
	res, err := c.Do(context.Background(), c.Get("/cookie/get"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s, _ := res.Text(""); s != "s3cr3t" {
		t.Errorf("cookie = %q", s)
	}
}

type countingTransport struct {
	calls  atomic.Int32
	closed atomic.Bool
}

func (t *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	return http.DefaultTransport.RoundTrip(r)
}

func (t *countingTransport) CloseIdleConnections() { t.closed.Store(true) }

func TestSharedTransport(t *testing.T) {
	srv := testserver.New(t)
	rt := &countingTransport{}
	c, err := New(Config{BaseURL: srv.URL}, WithTransport(rt))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Do(context.Background(), c.Get("/json")); err != nil {
				t.Errorf("Do: %v", err)
			}
		}()
	}
	wg.Wait()

	if rt.calls.Load() != 10 {
		t.Errorf("calls = %d", rt.calls.Load())
	}
	if rt.closed.Load() {
		t.Error("shared transport must outlive calls")
	}
	_ = c.Close(context.Background())
	if !rt.closed.Load() || !c.Closed() {
		t.Error("Close must release the shared transport")
	}
}

func TestPooledClient(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL, Pool: &PoolConfig{MaxIdleConnsPerHost: 4}})
	if c.shared == nil {
		t.Fatal("pool config must create a shared transport")
	}
	if _, err := c.Do(context.Background(), c.Get("/json")); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestResponseHookError(t *testing.T) {
	srv := testserver.New(t)
	var failures int
	c := newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(
		OnResponse("reject", func(*Client, *Response) error { return stderrors.New("rejected") }),
		OnError("count", func(*Client, *Request, error) error { failures++; return nil }),
	))
	_, err := c.Do(context.Background(), c.Get("/json"))
	var he *errors.HookError
	if !asError(err, &he) || he.Phase != "response" {
		t.Fatalf("expected response HookError, got %v", err)
	}
	if failures != 1 {
		t.Errorf("error hooks = %d", failures)
	}
}

func TestRequestHookCanMutate(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL}, WithMiddleware(
		OnRequest("tenant", func(_ *Client, r *Request) error {
			r.SetHeader("x-tenant", "acme").Query("trace", "1")
			return nil
		}),
	))
	res, err := c.Do(context.Background(), c.Get("/echo"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	e := echoOf(t, res)
	if e.Headers["X-Tenant"][0] != "acme" || e.Query["trace"][0] != "1" {
		t.Errorf("echo = %+v", e)
	}
}

func TestDoRefusesBrokenRequests(t *testing.T) {
	c := newTestClient(t, Config{})
	if _, err := c.Do(context.Background(), nil); err == nil {
		t.Error("nil request must fail")
	}
	_, err := c.Do(context.Background(), c.Get("/relative"))
	if errors.CodeOf(err) != errors.ErrCodeInvalidURL {
		t.Errorf("expected INVALID_URL, got %v", err)
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad base url", Config{BaseURL: "not a url"}},
		{"negative redirects", Config{MaxRedirects: -1}},
		{"bad proxy", Config{Proxy: "ftp://proxy"}},
		{"bad header name", Config{Defaults: Defaults{Headers: map[string]string{"bad header": "x"}}}},
		{"tls cert without key", Config{TLS: &TLSConfig{CertFile: "cert.pem"}}},
		{"bad log level", Config{Logging: &LoggingConfig{Level: "loud"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.cfg)
			if errors.CodeOf(err) != errors.ErrCodeInvalidConfig {
				t.Errorf("expected INVALID_CONFIG, got %v", err)
			}
		})
	}
}

func TestProxyAndHTTP2Transport(t *testing.T) {
	cfg := Config{Proxy: "socks5://127.0.0.1:1080", HTTP2: &HTTP2Config{ReadIdleTimeout: time.Second}}
	cfg.ApplyDefaults()
	tr, err := buildTransport(&cfg)
	if err != nil {
		t.Fatalf("buildTransport: %v", err)
	}
	if tr.Proxy != nil || tr.DialContext == nil {
		t.Error("socks5 proxy must replace the dialer")
	}
	if !tr.DisableCompression {
		t.Error("transport must leave decompression to the client")
	}

	cfg = Config{Proxy: "http://proxy.local:3128"}
	tr, err = buildTransport(&cfg)
	if err != nil || tr.Proxy == nil {
		t.Errorf("http proxy: %v", err)
	}
}

func TestFreeFunctions(t *testing.T) {
	srv := testserver.New(t)

	res, err := Get(context.Background(), srv.URL+"/json")
	if err != nil || res.StatusCode != http.StatusOK {
		t.Fatalf("Get: %v", err)
	}
	res, err = Post(context.Background(), srv.URL+"/echo", Options{Data: map[string]int{"n": 1}})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if e := echoOf(t, res); e.Method != "POST" || e.Body != `{"n":1}` {
		t.Errorf("echo = %+v", e)
	}
	res, err = Delete(context.Background(), srv.URL+"/echo")
	if err != nil || echoOf(t, res).Method != "DELETE" {
		t.Errorf("Delete: %v", err)
	}
	res, err = OptionsRequest(context.Background(), srv.URL+"/echo")
	if err != nil || echoOf(t, res).Method != "OPTIONS" {
		t.Errorf("OptionsRequest: %v", err)
	}
	if _, err := Get(context.Background(), "/relative"); errors.CodeOf(err) != errors.ErrCodeInvalidURL {
		t.Errorf("expected INVALID_URL, got %v", err)
	}
}

func TestDefaultClient(t *testing.T) {
	t.Cleanup(ResetDefault)
	a := Default()
	if Default() != a {
		t.Error("Default must return the same client")
	}
	ResetDefault()
	if !a.Closed() {
		t.Error("ResetDefault must close the old client")
	}
	if Default() == a {
		t.Error("ResetDefault must drop the old client")
	}
}

func TestComponentLifecycle(t *testing.T) {
	comp := NewComponent(Config{Name: "payments", BaseURL: "https://pay.example.com"})
	if h := comp.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("health before start = %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Client() == nil || comp.Name() != "payments" {
		t.Fatal("expected a started client")
	}
	if h := comp.Health(context.Background()); h.Status != "healthy" {
		t.Errorf("health = %s", h.Status)
	}
	if d := comp.Describe(); d.Type != "http-client" || !strings.HasPrefix(d.Details, "https://pay.example.com") {
		t.Errorf("describe = %+v", d)
	}
	if err := comp.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := comp.Health(context.Background()); h.Status != "unhealthy" {
		t.Errorf("health after stop = %s", h.Status)
	}

	bad := NewComponent(Config{MaxRedirects: -1})
	if err := bad.Start(context.Background()); err == nil {
		t.Error("invalid config must fail Start")
	}
}

func TestCustomSerializers(t *testing.T) {
	srv := testserver.New(t)
	c := newTestClient(t, Config{BaseURL: srv.URL},
		WithSerializer("application/yaml", serializer.YAML{}),
		WithSerializerPattern(regexp.MustCompile(`^application/xml$`), serializer.DecoderFunc(func(b []byte) (any, error) {
			return len(b), nil
		})),
	)

	res, err := c.Do(context.Background(), c.Get("/yaml"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	body, err := res.Body()
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if m, ok := body.(map[string]any); !ok || m["name"] != "orchid" {
		t.Errorf("Body = %#v", body)
	}
	type doc struct {
		Name string   `yaml:"name"`
		Tags []string `yaml:"tags"`
	}
	d, err := BodyAs[doc](res)
	if err != nil || d.Name != "orchid" || len(d.Tags) != 2 {
		t.Errorf("BodyAs = %+v, %v", d, err)
	}

	res, err = c.Do(context.Background(), c.Get("/xml"))
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if n, _ := res.Body(); n != len("<a>1</a>") {
		t.Errorf("pattern decoder result = %v", n)
	}
	if _, err := BodyAs[string](res); errors.CodeOf(err) != errors.ErrCodeSerialization {
		t.Errorf("decoder without Unmarshal: expected SERIALIZATION, got %v", err)
	}
}

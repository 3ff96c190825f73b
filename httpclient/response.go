package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/noel-archive/orchid/errors"
	"github.com/noel-archive/orchid/httpclient/sse"
	"github.com/noel-archive/orchid/serializer"
)

// Response is a fully buffered HTTP response. It holds no network resources
// and its decoding methods can be called any number of times.
type Response struct {
	StatusCode int

	status      string
	proto       string
	header      *Header
	body        []byte
	request     *Request
	serializers *serializer.Registry
	streams     bool
}

func (c *Client) newResponse(req *Request, resp *http.Response, data []byte) *Response {
	return &Response{
		StatusCode:  resp.StatusCode,
		status:      statusText(resp),
		proto:       resp.Proto,
		header:      headerFromHTTP(resp.Header),
		body:        data,
		request:     req,
		serializers: c.serializers,
		streams:     c.ext.Streams(),
	}
}

func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// Status returns the reason phrase, e.g. "Not Found".
func (r *Response) Status() string { return r.status }

// Proto returns the protocol the response arrived over, e.g. "HTTP/2.0".
func (r *Response) Proto() string { return r.proto }

// Header returns the first value of a response header.
func (r *Response) Header(name string) string { return r.header.Get(name) }

// Values returns every value of a response header in arrival order.
func (r *Response) Values(name string) []string { return r.header.Values(name) }

// Headers returns a copy of the response headers.
func (r *Response) Headers() *Header { return r.header.Clone() }

// ContentType returns the content-type header.
func (r *Response) ContentType() string { return r.header.Get("content-type") }

// Success reports whether the status is in [200, 400).
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 400
}

// Empty reports whether the body has no bytes.
func (r *Response) Empty() bool { return len(r.body) == 0 }

// Request returns the descriptor of the hop that produced this response.
func (r *Response) Request() *Request { return r.request }

// Bytes returns a copy of the body.
func (r *Response) Bytes() []byte { return bytes.Clone(r.body) }

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.body, v); err != nil {
		return errors.NewSerialization(r.ContentType(), err)
	}
	return nil
}

// Text decodes the body as text. An empty encoding uses the charset
// parameter of the content-type and falls back to UTF-8; other labels are
// looked up in the WHATWG encoding index ("latin1", "shift_jis", ...).
func (r *Response) Text(encoding string) (string, error) {
	if encoding == "" {
		encoding = r.charset()
	}
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return string(r.body), nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return "", errors.NewSerialization(r.ContentType(), err)
	}
	out, err := enc.NewDecoder().Bytes(r.body)
	if err != nil {
		return "", errors.NewSerialization(r.ContentType(), err)
	}
	return string(out), nil
}

func (r *Response) charset() string {
	_, params, err := mime.ParseMediaType(r.ContentType())
	if err != nil {
		return ""
	}
	return params["charset"]
}

// Body decodes the body with the serializer registered for its content type.
// Without a match the body is returned as a string.
func (r *Response) Body() (any, error) {
	return r.registry().Decode(r.ContentType(), r.body)
}

func (r *Response) registry() *serializer.Registry {
	if r.serializers == nil {
		return serializer.NewRegistry()
	}
	return r.serializers
}

// BodyAs decodes the body into a T with the serializer registered for the
// content type. Decoders implementing serializer.Unmarshaler fill T directly;
// other decoders must produce a T.
func BodyAs[T any](r *Response) (T, error) {
	var out T
	if err := r.registry().Unmarshal(r.ContentType(), r.body, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Stream returns a reader over the body. Requires the streams middleware.
func (r *Response) Stream() (io.Reader, error) {
	if !r.streams {
		return nil, errors.ErrStreamsDisabled
	}
	return bytes.NewReader(r.body), nil
}

// Pipe copies the body into w. Requires the streams middleware.
func (r *Response) Pipe(w io.Writer) (int64, error) {
	src, err := r.Stream()
	if err != nil {
		return 0, err
	}
	return io.Copy(w, src)
}

// Events decodes the body as a text/event-stream. Requires the streams
// middleware.
func (r *Response) Events() (sse.Reader, error) {
	src, err := r.Stream()
	if err != nil {
		return nil, err
	}
	return sse.NewReader(src), nil
}

func (r *Response) String() string {
	return strconv.Itoa(r.StatusCode) + " " + r.status
}

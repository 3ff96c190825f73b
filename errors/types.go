package errors

import (
	"fmt"
	"net/http"
	"time"
)

// InvalidURLError is returned when a request URL cannot be resolved into an
// absolute http(s) URL.
type InvalidURLError struct {
	AppError
	URL string
}

// NewInvalidURL creates an InvalidURLError for raw.
func NewInvalidURL(raw, reason string, cause error) *InvalidURLError {
	e := &InvalidURLError{
		AppError: newBase(ErrCodeInvalidURL, fmt.Sprintf("invalid url %q: %s", raw, reason), cause),
		URL:      raw,
	}
	e.WithDetail("url", raw)
	return e
}

// InvalidMethodError is returned for verbs outside the supported set.
type InvalidMethodError struct {
	AppError
	Method string
}

// NewInvalidMethod creates an InvalidMethodError.
func NewInvalidMethod(method string) *InvalidMethodError {
	e := &InvalidMethodError{
		AppError: newBase(ErrCodeInvalidMethod, fmt.Sprintf("method %q is not supported", method), nil),
		Method:   method,
	}
	e.WithDetail("method", method)
	return e
}

// AmbiguousRequestError is returned when the same request field is supplied
// in more than one position of a call.
type AmbiguousRequestError struct {
	AppError
	Field string
}

// NewAmbiguousRequest creates an AmbiguousRequestError naming the conflicting field.
func NewAmbiguousRequest(field, reason string) *AmbiguousRequestError {
	e := &AmbiguousRequestError{
		AppError: newBase(ErrCodeAmbiguousRequest, fmt.Sprintf("ambiguous %s: %s", field, reason), nil),
		Field:    field,
	}
	e.WithDetail("field", field)
	return e
}

// InvalidBodyError is returned when a body cannot be attached to a request.
type InvalidBodyError struct {
	AppError
	Method string
}

// NewInvalidBody creates an InvalidBodyError.
func NewInvalidBody(method, reason string) *InvalidBodyError {
	return &InvalidBodyError{
		AppError: newBase(ErrCodeInvalidBody, reason, nil),
		Method:   method,
	}
}

// NetworkError wraps a connection-level failure.
type NetworkError struct {
	AppError
	Method string
	URL    string
}

// NewNetwork creates a NetworkError wrapping cause.
func NewNetwork(method, url string, cause error) *NetworkError {
	return &NetworkError{
		AppError: newBase(ErrCodeNetwork, fmt.Sprintf("%s %s failed", method, url), cause),
		Method:   method,
		URL:      url,
	}
}

// TimeoutError is returned when a hop does not complete within its timeout.
type TimeoutError struct {
	AppError
	URL     string
	Timeout time.Duration
}

// NewTimeout creates a TimeoutError.
func NewTimeout(url string, timeout time.Duration) *TimeoutError {
	e := &TimeoutError{
		AppError: newBase(ErrCodeTimeout, fmt.Sprintf("request to %s timed out after %s", url, timeout), nil),
		URL:      url,
		Timeout:  timeout,
	}
	e.WithDetail("timeout", timeout.String())
	return e
}

// CanceledError is returned when a call is aborted by its controller or its context.
type CanceledError struct {
	AppError
	URL string
}

// NewCanceled creates a CanceledError.
func NewCanceled(url string, cause error) *CanceledError {
	return &CanceledError{
		AppError: newBase(ErrCodeCanceled, fmt.Sprintf("request to %s was canceled", url), cause),
		URL:      url,
	}
}

// HTTPStatusError is returned for a response outside the success range. The
// fully buffered body is attached.
type HTTPStatusError struct {
	AppError
	StatusCode int
	StatusText string
	Body       []byte
}

// NewHTTPStatus creates an HTTPStatusError.
func NewHTTPStatus(code int, body []byte) *HTTPStatusError {
	text := http.StatusText(code)
	e := &HTTPStatusError{
		AppError:   newBase(ErrCodeHTTPStatus, fmt.Sprintf("unexpected status %d %s", code, text), nil),
		StatusCode: code,
		StatusText: text,
		Body:       body,
	}
	e.HTTPStatus = code
	e.Retryable = code >= 500 || code == http.StatusTooManyRequests
	return e
}

// TooManyRedirectsError is returned when a redirect chase exceeds its bound.
type TooManyRedirectsError struct {
	AppError
	URL string
	Max int
}

// NewTooManyRedirects creates a TooManyRedirectsError.
func NewTooManyRedirects(url string, max int) *TooManyRedirectsError {
	return &TooManyRedirectsError{
		AppError: newBase(ErrCodeTooManyRedirects, fmt.Sprintf("stopped after %d redirects at %s", max, url), nil),
		URL:      url,
		Max:      max,
	}
}

// SerializationError is returned by body decoders that fail.
type SerializationError struct {
	AppError
	ContentType string
}

// NewSerialization creates a SerializationError.
func NewSerialization(contentType string, cause error) *SerializationError {
	e := &SerializationError{
		AppError:    newBase(ErrCodeSerialization, fmt.Sprintf("cannot decode %q body", contentType), cause),
		ContentType: contentType,
	}
	e.WithDetail("content_type", contentType)
	return e
}

// HookError wraps an error returned by a middleware hook.
type HookError struct {
	AppError
	Middleware string
	Phase      string
}

// NewHook creates a HookError.
func NewHook(middleware, phase string, cause error) *HookError {
	return &HookError{
		AppError:   newBase(ErrCodeHookFailed, fmt.Sprintf("middleware %q failed in %s phase", middleware, phase), cause),
		Middleware: middleware,
		Phase:      phase,
	}
}
